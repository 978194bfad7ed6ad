package governance

import (
	"fmt"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

// FoldHandledTypes returns the event types handled by the governance fold function.
func FoldHandledTypes() []event.Type {
	return []event.Type{
		EventTypeSessionStarted,
		EventTypeSessionConcluded,
		EventTypeRepresentativeApproved,
		EventTypeRepresentativeDemoted,
		EventTypeTenantApproved,
		EventTypeTenantActivated,
	}
}

// Fold applies an event to governance state.
func Fold(state State, evt event.Event) (State, error) {
	if state.Links == nil {
		state.Links = make(map[primitive.ReferendumIndex]Link)
	}
	if state.Archive == nil {
		state.Archive = make(map[primitive.ReferendumIndex]Link)
	}
	if state.Representatives == nil {
		state.Representatives = make(map[primitive.AccountID]Representative)
	}
	if state.Tenants == nil {
		state.Tenants = make(map[primitive.AccountID]Tenant)
	}

	switch evt.Type {
	case EventTypeSessionStarted:
		var link Link
		if err := evt.Decode(&link); err != nil {
			return state, err
		}
		state.Links[link.Index] = link
	case EventTypeSessionConcluded:
		var payload SessionConcludedPayload
		if err := evt.Decode(&payload); err != nil {
			return state, err
		}
		link, ok := state.Links[payload.Index]
		if !ok {
			return state, fmt.Errorf("conclude unknown session %d", payload.Index)
		}
		link.Approved = payload.Approved
		delete(state.Links, payload.Index)
		state.Archive[payload.Index] = link
	case EventTypeRepresentativeApproved:
		var payload RepresentativePayload
		if err := evt.Decode(&payload); err != nil {
			return state, err
		}
		rep, ok := state.Representatives[payload.Account]
		if !ok {
			rep = Representative{Account: payload.Account, Since: payload.Block}
		}
		if !rep.Active {
			rep.Since = payload.Block
		}
		rep.Active = true
		rep.AssetAccounts = append(rep.AssetAccounts, payload.AssetAccount)
		state.Representatives[payload.Account] = rep
	case EventTypeRepresentativeDemoted:
		var payload RepresentativePayload
		if err := evt.Decode(&payload); err != nil {
			return state, err
		}
		rep := state.Representatives[payload.Account]
		kept := make([]primitive.AccountID, 0, len(rep.AssetAccounts))
		for _, account := range rep.AssetAccounts {
			if account != payload.AssetAccount {
				kept = append(kept, account)
			}
		}
		rep.AssetAccounts = kept
		rep.Active = len(kept) > 0
		state.Representatives[payload.Account] = rep
	case EventTypeTenantApproved:
		var payload TenantApprovedPayload
		if err := evt.Decode(&payload); err != nil {
			return state, err
		}
		state.Tenants[payload.Account] = Tenant{
			Account:       payload.Account,
			Asset:         payload.Asset,
			AssetAccount:  payload.AssetAccount,
			ContractStart: payload.ContractStart,
			Rent:          payload.Rent,
		}
	case EventTypeTenantActivated:
		var payload TenantActivatedPayload
		if err := evt.Decode(&payload); err != nil {
			return state, err
		}
		tenant := state.Tenants[payload.Account]
		tenant.Active = true
		state.Tenants[payload.Account] = tenant
	default:
		return state, fmt.Errorf("governance fold: unhandled event type %s", evt.Type)
	}
	return state, nil
}
