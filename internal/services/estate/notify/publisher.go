// Package notify fans committed estate events out to NATS subjects.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
)

// DefaultSubjectPrefix prefixes every published subject.
const DefaultSubjectPrefix = "fairsquares.estate"

// Conn is the subset of a NATS connection the publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
}

// Notification is the message body published for one event.
type Notification struct {
	Seq        uint64          `json:"seq"`
	Block      uint64          `json:"block"`
	Type       string          `json:"type"`
	Timestamp  time.Time       `json:"timestamp"`
	ActorID    string          `json:"actor_id,omitempty"`
	RequestID  string          `json:"request_id,omitempty"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Payload    json.RawMessage `json:"payload"`
	Hash       string          `json:"hash,omitempty"`
}

// Publisher publishes every committed event to <prefix>.<event type>.
type Publisher struct {
	conn   Conn
	prefix string
	logf   func(string, ...any)
}

// NewPublisher returns a publisher over conn. An empty prefix uses
// DefaultSubjectPrefix and a nil logf uses log.Printf.
func NewPublisher(conn Conn, prefix string, logf func(string, ...any)) *Publisher {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	if logf == nil {
		logf = log.Printf
	}
	return &Publisher{conn: conn, prefix: prefix, logf: logf}
}

// Subject returns the subject events of typ are published to.
func (p *Publisher) Subject(typ event.Type) string {
	return p.prefix + "." + string(typ)
}

// Observe publishes events in order. Failures are logged; the events are
// already committed.
func (p *Publisher) Observe(_ context.Context, events []event.Event) {
	for _, evt := range events {
		if err := p.Publish(evt); err != nil {
			p.logf("notify: %v", err)
		}
	}
}

// Publish sends one event.
func (p *Publisher) Publish(evt event.Event) error {
	data, err := json.Marshal(Notification{
		Seq:        evt.Seq,
		Block:      uint64(evt.Block),
		Type:       string(evt.Type),
		Timestamp:  evt.Timestamp,
		ActorID:    evt.ActorID,
		RequestID:  evt.RequestID,
		EntityType: evt.EntityType,
		EntityID:   evt.EntityID,
		Payload:    json.RawMessage(evt.PayloadJSON),
		Hash:       evt.Hash,
	})
	if err != nil {
		return fmt.Errorf("marshal event %d: %w", evt.Seq, err)
	}
	subject := p.Subject(evt.Type)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish event %d to %s: %w", evt.Seq, subject, err)
	}
	return nil
}

// Connect dials a NATS server for the publisher.
func Connect(url, name string, timeout time.Duration) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.Timeout(timeout),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats %s: %w", url, err)
	}
	return conn, nil
}
