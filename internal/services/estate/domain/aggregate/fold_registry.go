package aggregate

import (
	"fmt"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/asset"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/fund"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/governance"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/ownership"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/proposal"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/rent"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/schedule"
)

// foldEntry maps a set of event types to the fold function updating one
// slice of aggregate state.
type foldEntry struct {
	types func() []event.Type
	fold  func(state *State, evt event.Event) error
}

// foldEntries returns the fold dispatch table for every component.
func foldEntries() []foldEntry {
	return []foldEntry{
		{
			types: fund.FoldHandledTypes,
			fold: func(state *State, evt event.Event) error {
				updated, err := fund.Fold(state.Fund, evt)
				if err != nil {
					return err
				}
				state.Fund = updated
				return nil
			},
		},
		{
			types: ownership.FoldHandledTypes,
			fold: func(state *State, evt event.Event) error {
				updated, err := ownership.Fold(state.Ownership, evt)
				if err != nil {
					return err
				}
				state.Ownership = updated
				return nil
			},
		},
		{
			types: proposal.FoldHandledTypes,
			fold: func(state *State, evt event.Event) error {
				updated, err := proposal.Fold(state.Proposals, evt)
				if err != nil {
					return err
				}
				state.Proposals = updated
				return nil
			},
		},
		{
			types: asset.FoldHandledTypes,
			fold: func(state *State, evt event.Event) error {
				updated, err := asset.Fold(state.Assets, evt)
				if err != nil {
					return err
				}
				state.Assets = updated
				return nil
			},
		},
		{
			types: governance.FoldHandledTypes,
			fold: func(state *State, evt event.Event) error {
				updated, err := governance.Fold(state.Governance, evt)
				if err != nil {
					return err
				}
				state.Governance = updated
				return nil
			},
		},
		{
			types: rent.FoldHandledTypes,
			fold: func(state *State, evt event.Event) error {
				updated, err := rent.Fold(state.Rent, evt)
				if err != nil {
					return err
				}
				state.Rent = updated
				return nil
			},
		},
		{
			types: func() []event.Type { return []event.Type{schedule.EventTypeTaskSkipped} },
			fold:  foldTaskSkipped,
		},
	}
}

// foldTaskSkipped drops a failed task from the agenda that owns it.
func foldTaskSkipped(state *State, evt event.Event) error {
	var payload schedule.TaskSkippedPayload
	if err := evt.Decode(&payload); err != nil {
		return err
	}
	switch payload.Agenda {
	case schedule.AgendaProposal:
		state.Proposals.Agenda.Remove(payload.Key)
	case schedule.AgendaAsset:
		state.Assets.Agenda.Remove(payload.Key)
	case schedule.AgendaRent:
		state.Rent.Agenda.Remove(payload.Key)
	default:
		return fmt.Errorf("task skipped on unknown agenda %q", payload.Agenda)
	}
	return nil
}

// RegisterEvents registers the events of every component with registry.
func RegisterEvents(registry *event.Registry) error {
	for _, register := range []func(*event.Registry) error{
		fund.RegisterEvents,
		ownership.RegisterEvents,
		proposal.RegisterEvents,
		asset.RegisterEvents,
		governance.RegisterEvents,
		rent.RegisterEvents,
		schedule.RegisterEvents,
	} {
		if err := register(registry); err != nil {
			return err
		}
	}
	return nil
}
