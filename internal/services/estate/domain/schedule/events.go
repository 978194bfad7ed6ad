package schedule

import (
	"encoding/json"
	"errors"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

// EventTypeTaskSkipped drops a due task whose execution failed.
const EventTypeTaskSkipped event.Type = "schedule.task_skipped"

// Agenda names, one per component owning an agenda.
const (
	AgendaProposal = "proposal"
	AgendaAsset    = "asset"
	AgendaRent     = "rent"
)

// TaskSkippedPayload identifies the dropped task and why it failed.
type TaskSkippedPayload struct {
	Agenda string                `json:"agenda"`
	Key    string                `json:"key"`
	Due    primitive.BlockNumber `json:"due"`
	Reason string                `json:"reason,omitempty"`
}

// RegisterEvents registers schedule events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	return registry.Register(event.Definition{
		Type: EventTypeTaskSkipped,
		ValidatePayload: func(raw json.RawMessage) error {
			var payload TaskSkippedPayload
			if err := json.Unmarshal(raw, &payload); err != nil {
				return err
			}
			switch payload.Agenda {
			case AgendaProposal, AgendaAsset, AgendaRent:
			default:
				return errors.New("unknown agenda")
			}
			if payload.Key == "" {
				return errors.New("key is required")
			}
			return nil
		},
	})
}

// Skip builds the event dropping task from agenda.
func Skip(agenda string, task Task, reason string) event.Event {
	return event.MustNew(EventTypeTaskSkipped, "schedule", agenda+":"+task.Key, TaskSkippedPayload{
		Agenda: agenda,
		Key:    task.Key,
		Due:    task.Due,
		Reason: reason,
	})
}
