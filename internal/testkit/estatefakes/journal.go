package estatefakes

import (
	"context"
	"sync"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
)

// Journal is an in-memory event journal that can be told to fail appends.
type Journal struct {
	mu        sync.Mutex
	events    []event.Event
	AppendErr error
}

// Append chains and stores events unless AppendErr is set.
func (j *Journal) Append(_ context.Context, events []event.Event) ([]event.Event, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.AppendErr != nil {
		return nil, j.AppendErr
	}
	prev := ""
	if n := len(j.events); n > 0 {
		prev = j.events[n-1].ChainHash
	}
	stored := make([]event.Event, 0, len(events))
	for _, evt := range events {
		chained, err := event.Chain(evt, uint64(len(j.events))+1, prev)
		if err != nil {
			return nil, err
		}
		j.events = append(j.events, chained)
		stored = append(stored, chained)
		prev = chained.ChainHash
	}
	return stored, nil
}

// List returns events after afterSeq, up to limit when limit > 0.
func (j *Journal) List(_ context.Context, afterSeq uint64, limit int) ([]event.Event, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []event.Event
	for _, evt := range j.events {
		if evt.Seq <= afterSeq {
			continue
		}
		out = append(out, evt)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Events returns every stored event.
func (j *Journal) Events() []event.Event {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]event.Event(nil), j.events...)
}
