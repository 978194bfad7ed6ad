// Package storage defines the persistence contracts of the estate engine.
package storage

import (
	"context"
	"errors"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// EventStore is the append-only estate journal. Append assigns contiguous
// sequence numbers and chain hashes to a batch atomically.
type EventStore interface {
	Append(ctx context.Context, events []event.Event) ([]event.Event, error)
	List(ctx context.Context, afterSeq uint64, limit int) ([]event.Event, error)
	GetBySeq(ctx context.Context, seq uint64) (event.Event, error)
	Close() error
}
