package ownership

import (
	"fmt"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

// FoldHandledTypes returns the event types handled by the ownership fold function.
func FoldHandledTypes() []event.Type {
	return []event.Type{
		EventTypeAccountOpened,
		EventTypeTokensIssued,
		EventTypeDistributed,
	}
}

// Fold applies an event to ownership state.
func Fold(state State, evt event.Event) (State, error) {
	if state.Accounts == nil {
		state.Accounts = make(map[primitive.AssetKey]VirtualAccount)
	}
	if state.ByAccount == nil {
		state.ByAccount = make(map[primitive.AccountID]primitive.AssetKey)
	}
	if state.Balances == nil {
		state.Balances = make(map[primitive.TokenID]map[primitive.AccountID]primitive.Balance)
	}

	switch evt.Type {
	case EventTypeAccountOpened:
		var payload AccountOpenedPayload
		if err := evt.Decode(&payload); err != nil {
			return state, err
		}
		state.Accounts[payload.Asset] = VirtualAccount{
			Asset:   payload.Asset,
			Account: payload.Account,
			TokenID: payload.TokenID,
		}
		state.ByAccount[payload.Account] = payload.Asset
		if payload.TokenID >= state.NextToken {
			state.NextToken = payload.TokenID + 1
		}
	case EventTypeTokensIssued:
		var payload TokensIssuedPayload
		if err := evt.Decode(&payload); err != nil {
			return state, err
		}
		va := state.Accounts[payload.Asset]
		va.Issued = payload.Supply
		state.Accounts[payload.Asset] = va
		state.Balances[payload.TokenID] = map[primitive.AccountID]primitive.Balance{payload.Account: payload.Supply}
	case EventTypeDistributed:
		var payload DistributedPayload
		if err := evt.Decode(&payload); err != nil {
			return state, err
		}
		holders := state.Balances[payload.TokenID]
		if holders == nil {
			holders = make(map[primitive.AccountID]primitive.Balance)
			state.Balances[payload.TokenID] = holders
		}
		owners := make([]primitive.AccountID, 0, len(payload.Shares))
		for _, share := range payload.Shares {
			holders[payload.Account] -= share.Amount
			holders[share.Account] += share.Amount
			owners = append(owners, share.Account)
		}
		primitive.SortAccounts(owners)
		va := state.Accounts[payload.Asset]
		va.Owners = owners
		va.Distributed = true
		state.Accounts[payload.Asset] = va
	default:
		return state, fmt.Errorf("ownership fold: unhandled event type %s", evt.Type)
	}
	return state, nil
}
