package event

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// hashEnvelope is the content covered by an event hash. Seq and the hash
// fields are excluded so the hash can be computed before sequencing.
type hashEnvelope struct {
	Block      uint64          `json:"block"`
	Type       string          `json:"type"`
	Timestamp  string          `json:"timestamp"`
	ActorID    string          `json:"actor_id"`
	RequestID  string          `json:"request_id"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Payload    json.RawMessage `json:"payload"`
}

// ContentHash returns the hex SHA-256 of the event's canonical content.
func ContentHash(evt Event) (string, error) {
	payload := evt.PayloadJSON
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	canonical, err := CanonicalJSON(payload)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(hashEnvelope{
		Block:      uint64(evt.Block),
		Type:       string(evt.Type),
		Timestamp:  evt.Timestamp.UTC().Format(time.RFC3339Nano),
		ActorID:    evt.ActorID,
		RequestID:  evt.RequestID,
		EntityType: evt.EntityType,
		EntityID:   evt.EntityID,
		Payload:    canonical,
	})
	if err != nil {
		return "", fmt.Errorf("marshal hash envelope: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// ChainHash links a content hash to the previous chain hash.
func ChainHash(prevChainHash, contentHash string) string {
	sum := sha256.Sum256([]byte(prevChainHash + ":" + contentHash))
	return hex.EncodeToString(sum[:])
}

// Chain assigns seq and hashes to evt so it follows prevChainHash.
func Chain(evt Event, seq uint64, prevChainHash string) (Event, error) {
	hash, err := ContentHash(evt)
	if err != nil {
		return Event{}, err
	}
	evt.Seq = seq
	evt.Hash = hash
	evt.PrevHash = prevChainHash
	evt.ChainHash = ChainHash(prevChainHash, hash)
	return evt, nil
}

// VerifyChain checks that events are contiguous from their first seq and that
// every content and chain hash matches.
func VerifyChain(events []Event) error {
	prev := ""
	for i, evt := range events {
		if i > 0 {
			if evt.Seq != events[i-1].Seq+1 {
				return fmt.Errorf("event seq %d follows %d", evt.Seq, events[i-1].Seq)
			}
			if evt.PrevHash != prev {
				return fmt.Errorf("event %d prev hash mismatch", evt.Seq)
			}
		}
		hash, err := ContentHash(evt)
		if err != nil {
			return fmt.Errorf("event %d: %w", evt.Seq, err)
		}
		if hash != evt.Hash {
			return fmt.Errorf("event %d content hash mismatch", evt.Seq)
		}
		if ChainHash(evt.PrevHash, hash) != evt.ChainHash {
			return fmt.Errorf("event %d chain hash mismatch", evt.Seq)
		}
		prev = evt.ChainHash
	}
	return nil
}
