// Package memory provides an in-process estate journal for tests and
// ephemeral runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
	"github.com/louisbranch/fairsquares/internal/services/estate/storage"
)

// Journal keeps chained events in memory.
type Journal struct {
	mu     sync.RWMutex
	events []event.Event
}

var _ storage.EventStore = (*Journal)(nil)

// NewJournal returns an empty journal.
func NewJournal() *Journal {
	return &Journal{}
}

// Append chains events after the last stored one.
func (j *Journal) Append(ctx context.Context, events []event.Event) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	prev := ""
	next := uint64(len(j.events)) + 1
	if n := len(j.events); n > 0 {
		prev = j.events[n-1].ChainHash
	}
	stored := make([]event.Event, 0, len(events))
	for i, evt := range events {
		chained, err := event.Chain(evt, next+uint64(i), prev)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		stored = append(stored, chained)
		prev = chained.ChainHash
	}
	j.events = append(j.events, stored...)
	return append([]event.Event(nil), stored...), nil
}

// List returns up to limit events after afterSeq. A non-positive limit
// returns every remaining event.
func (j *Journal) List(ctx context.Context, afterSeq uint64, limit int) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	j.mu.RLock()
	defer j.mu.RUnlock()
	if afterSeq >= uint64(len(j.events)) {
		return nil, nil
	}
	rest := j.events[afterSeq:]
	if limit > 0 && len(rest) > limit {
		rest = rest[:limit]
	}
	return append([]event.Event(nil), rest...), nil
}

// GetBySeq returns the event at seq.
func (j *Journal) GetBySeq(ctx context.Context, seq uint64) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}
	j.mu.RLock()
	defer j.mu.RUnlock()
	if seq == 0 || seq > uint64(len(j.events)) {
		return event.Event{}, storage.ErrNotFound
	}
	return j.events[seq-1], nil
}

// Close is a no-op.
func (j *Journal) Close() error { return nil }
