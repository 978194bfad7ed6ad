package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

// Type identifies an event type, namespaced by component ("fund.contributed").
type Type string

// Event is the canonical journal envelope.
type Event struct {
	Seq         uint64
	Block       primitive.BlockNumber
	Type        Type
	Timestamp   time.Time
	ActorID     string
	RequestID   string
	EntityType  string
	EntityID    string
	PayloadJSON []byte
	Hash        string
	PrevHash    string
	ChainHash   string
}

// MustNew builds an unstamped event for the given entity. The payload must be
// a JSON-serializable value; a failure is a programming error and panics.
func MustNew(typ Type, entityType, entityID string, payload any) Event {
	data, err := json.Marshal(payload)
	if err != nil {
		panic(fmt.Sprintf("event %s payload %T: %v", typ, payload, err))
	}
	return Event{
		Type:        typ,
		EntityType:  entityType,
		EntityID:    entityID,
		PayloadJSON: data,
	}
}

// Decode unmarshals the event payload into target.
func (e Event) Decode(target any) error {
	if err := json.Unmarshal(e.PayloadJSON, target); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return nil
}
