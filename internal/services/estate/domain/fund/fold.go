package fund

import (
	"fmt"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

// FoldHandledTypes returns the event types handled by the fund fold function.
func FoldHandledTypes() []event.Type {
	return []event.Type{
		EventTypeContributed,
		EventTypeWithdrawn,
		EventTypeReserved,
		EventTypeConsumed,
	}
}

// Fold applies an event to fund state.
func Fold(state State, evt event.Event) (State, error) {
	if state.Balances == nil {
		state.Balances = make(map[primitive.AccountID]primitive.Balance)
	}
	if state.Reserved == nil {
		state.Reserved = make(map[primitive.AccountID]primitive.Balance)
	}
	if state.Reservations == nil {
		state.Reservations = make(map[primitive.AssetKey]Reservation)
	}

	switch evt.Type {
	case EventTypeContributed:
		var payload ContributedPayload
		if err := evt.Decode(&payload); err != nil {
			return state, err
		}
		state.Balances[payload.Account] += payload.Amount
	case EventTypeWithdrawn:
		var payload WithdrawnPayload
		if err := evt.Decode(&payload); err != nil {
			return state, err
		}
		if state.Available(payload.Account) < payload.Amount {
			return state, fmt.Errorf("fund fold %s: withdrawal exceeds available balance", evt.Type)
		}
		state.setBalance(payload.Account, state.Balances[payload.Account]-payload.Amount)
	case EventTypeReserved:
		var payload ReservedPayload
		if err := evt.Decode(&payload); err != nil {
			return state, err
		}
		for _, c := range payload.Contributions {
			state.Reserved[c.Account] += c.Amount
		}
		state.Reservations[payload.Asset] = Reservation{
			Asset:         payload.Asset,
			Amount:        payload.Amount,
			Contributions: append([]Contribution(nil), payload.Contributions...),
			Block:         payload.Block,
		}
	case EventTypeConsumed:
		var payload ConsumedPayload
		if err := evt.Decode(&payload); err != nil {
			return state, err
		}
		reservation, ok := state.Reservations[payload.Asset]
		if !ok || reservation.Consumed {
			return state, fmt.Errorf("fund fold %s: no open reservation for %s", evt.Type, payload.Asset)
		}
		for _, c := range reservation.Contributions {
			state.Reserved[c.Account] -= c.Amount
			if state.Reserved[c.Account] == 0 {
				delete(state.Reserved, c.Account)
			}
			state.setBalance(c.Account, state.Balances[c.Account]-c.Amount)
		}
		reservation.Consumed = true
		state.Reservations[payload.Asset] = reservation
	}
	return state, nil
}

func (s State) setBalance(account primitive.AccountID, amount primitive.Balance) {
	if amount == 0 {
		delete(s.Balances, account)
		return
	}
	s.Balances[account] = amount
}
