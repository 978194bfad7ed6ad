package aggregate

import (
	"fmt"
	"sync"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
)

// Folder folds events into aggregate state. Each event type updates exactly
// one slice of state and replays identically at request time and during
// reconstruction.
type Folder struct {
	foldOnce  sync.Once
	foldIndex map[event.Type]func(*State, event.Event) error
}

func (f *Folder) initFoldIndex() {
	f.foldOnce.Do(func() {
		f.foldIndex = make(map[event.Type]func(*State, event.Event) error)
		for _, entry := range foldEntries() {
			fn := entry.fold
			for _, t := range entry.types() {
				f.foldIndex[t] = fn
			}
		}
	})
}

// FoldDispatchedTypes returns every event type wired to a fold function.
func (f *Folder) FoldDispatchedTypes() []event.Type {
	f.initFoldIndex()
	types := make([]event.Type, 0, len(f.foldIndex))
	for t := range f.foldIndex {
		types = append(types, t)
	}
	return types
}

// Fold applies one event to state. State maps are updated in place, so
// callers that need the previous state must Clone it first.
func (f *Folder) Fold(state State, evt event.Event) (State, error) {
	f.initFoldIndex()
	fn, ok := f.foldIndex[evt.Type]
	if !ok {
		return state, fmt.Errorf("no fold for event type %s", evt.Type)
	}
	if err := fn(&state, evt); err != nil {
		return state, fmt.Errorf("fold %s: %w", evt.Type, err)
	}
	return state, nil
}

// FoldAll applies events in order.
func (f *Folder) FoldAll(state State, events []event.Event) (State, error) {
	for _, evt := range events {
		var err error
		if state, err = f.Fold(state, evt); err != nil {
			return state, err
		}
	}
	return state, nil
}
