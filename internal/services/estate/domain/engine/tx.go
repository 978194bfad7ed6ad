package engine

import (
	"time"

	apperrors "github.com/louisbranch/fairsquares/internal/platform/errors"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/aggregate"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/command"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/effect"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

// tx accumulates the decisions of one operation over a private state.
type tx struct {
	engine    *Engine
	state     aggregate.State
	block     primitive.BlockNumber
	actor     string
	requestID string
	timestamp time.Time

	events  []event.Event
	effects []effect.Effect
}

// apply folds an accepted decision into the transaction state and queues its
// effects. A rejection aborts the transaction with the rejection's error.
func (t *tx) apply(d command.Decision) error {
	if d.Rejected() {
		return d.Err()
	}
	for _, evt := range d.Events {
		evt.Block = t.block
		evt.ActorID = t.actor
		evt.RequestID = t.requestID
		evt.Timestamp = t.timestamp
		vetted, err := t.engine.events.ValidateForAppend(evt)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeUnknown, "invalid event", err)
		}
		next, err := t.engine.folder.Fold(t.state, vetted)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeUnknown, "fold event", err)
		}
		t.state = next
		t.events = append(t.events, vetted)
	}
	t.effects = append(t.effects, d.Effects...)
	return nil
}

// queue adds effects that no component decision owns.
func (t *tx) queue(effects ...effect.Effect) {
	t.effects = append(t.effects, effects...)
}

func (t *tx) params() Params { return t.engine.params }

func (t *tx) ports() effect.Ports { return t.engine.ports }
