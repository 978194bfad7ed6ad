package asset

import (
	"fmt"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

// FoldHandledTypes returns the event types handled by the asset fold function.
func FoldHandledTypes() []event.Type {
	return []event.Type{
		EventTypeSubmitted,
		EventTypeStatusChanged,
		EventTypeFinalisingDeferred,
		EventTypeTenantRequested,
		EventTypeTenantAdded,
		EventTypeRepresentativeSet,
		EventTypeRepresentativeCleared,
	}
}

// Fold applies an event to asset state.
func Fold(state State, evt event.Event) (State, error) {
	if state.Assets == nil {
		state.Assets = make(map[primitive.AssetKey]Asset)
	}

	switch evt.Type {
	case EventTypeSubmitted:
		var payload SubmittedPayload
		if err := evt.Decode(&payload); err != nil {
			return state, err
		}
		state.Assets[payload.Asset] = Asset{
			Key:          payload.Asset,
			Status:       StatusReviewing,
			Seller:       payload.Seller,
			Price:        payload.Price,
			Metadata:     payload.Metadata,
			ProposalHash: payload.ProposalHash,
			Since:        payload.Block,
		}
	case EventTypeStatusChanged:
		var payload StatusChangedPayload
		if err := evt.Decode(&payload); err != nil {
			return state, err
		}
		a, ok := state.Assets[payload.Asset]
		if !ok {
			return state, fmt.Errorf("status change on unknown asset %s", payload.Asset)
		}
		a.Status = payload.To
		a.Since = payload.Block
		if payload.Rent > 0 {
			a.Rent = payload.Rent
		}
		state.Assets[payload.Asset] = a
		if payload.DueAt > 0 {
			state.Agenda.Schedule(payload.Asset.String(), payload.DueAt)
		} else {
			state.Agenda.Remove(payload.Asset.String())
		}
	case EventTypeFinalisingDeferred:
		var payload FinalisingDeferredPayload
		if err := evt.Decode(&payload); err != nil {
			return state, err
		}
		state.Agenda.Schedule(payload.Asset.String(), payload.RetryAt)
	case EventTypeTenantRequested:
		var payload TenantPayload
		if err := evt.Decode(&payload); err != nil {
			return state, err
		}
		a := state.Assets[payload.Asset]
		a.Waiting = append(a.Waiting, payload.Tenant)
		state.Assets[payload.Asset] = a
	case EventTypeTenantAdded:
		var payload TenantPayload
		if err := evt.Decode(&payload); err != nil {
			return state, err
		}
		a := state.Assets[payload.Asset]
		a.Waiting = without(a.Waiting, payload.Tenant)
		a.Tenants = append(a.Tenants, payload.Tenant)
		state.Assets[payload.Asset] = a
	case EventTypeRepresentativeSet:
		var payload RepresentativePayload
		if err := evt.Decode(&payload); err != nil {
			return state, err
		}
		a := state.Assets[payload.Asset]
		a.Representative = payload.Representative
		state.Assets[payload.Asset] = a
	case EventTypeRepresentativeCleared:
		var payload RepresentativePayload
		if err := evt.Decode(&payload); err != nil {
			return state, err
		}
		a := state.Assets[payload.Asset]
		a.Representative = ""
		state.Assets[payload.Asset] = a
	default:
		return state, fmt.Errorf("asset fold: unhandled event type %s", evt.Type)
	}
	return state, nil
}
