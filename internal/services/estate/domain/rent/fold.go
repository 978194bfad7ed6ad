package rent

import (
	"fmt"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

// FoldHandledTypes returns the event types handled by the rent fold function.
func FoldHandledTypes() []event.Type {
	return []event.Type{
		EventTypePaymentRequested,
		EventTypePaymentPaid,
		EventTypeRentChecked,
	}
}

// Fold applies an event to rent state.
func Fold(state State, evt event.Event) (State, error) {
	if state.Guaranty == nil {
		state.Guaranty = make(map[primitive.AccountID]Obligation)
	}
	if state.Rent == nil {
		state.Rent = make(map[primitive.AccountID]Obligation)
	}
	if state.Pending == nil {
		state.Pending = make(map[primitive.AssetKey]primitive.Balance)
	}

	switch evt.Type {
	case EventTypePaymentRequested:
		var payload PaymentPayload
		if err := evt.Decode(&payload); err != nil {
			return state, err
		}
		obligations := state.obligations(payload.Kind)
		if obligations == nil {
			return state, fmt.Errorf("unknown payment kind %q", payload.Kind)
		}
		obligations[payload.Payer] = Obligation{
			Kind:      payload.Kind,
			Payer:     payload.Payer,
			Payee:     payload.Payee,
			Asset:     payload.Asset,
			Amount:    payload.Amount,
			State:     PaymentRequested,
			Requested: payload.Block,
		}
	case EventTypePaymentPaid:
		var payload PaymentPayload
		if err := evt.Decode(&payload); err != nil {
			return state, err
		}
		obligations := state.obligations(payload.Kind)
		if obligations == nil {
			return state, fmt.Errorf("unknown payment kind %q", payload.Kind)
		}
		o := obligations[payload.Payer]
		o.State = PaymentPaid
		o.Paid = payload.Block
		obligations[payload.Payer] = o
		if payload.Kind == KindRent {
			state.Pending[payload.Asset] += payload.Amount
		}
		if payload.NextCheck > 0 {
			state.Agenda.Schedule(string(payload.Payer), payload.NextCheck)
		}
	case EventTypeRentChecked:
		var payload RentCheckedPayload
		if err := evt.Decode(&payload); err != nil {
			return state, err
		}
		if payload.Collected > 0 {
			if state.Pending[payload.Asset] <= payload.Collected {
				delete(state.Pending, payload.Asset)
			} else {
				state.Pending[payload.Asset] -= payload.Collected
			}
		}
		state.Agenda.Schedule(string(payload.Tenant), payload.NextCheck)
	default:
		return state, fmt.Errorf("rent fold: unhandled event type %s", evt.Type)
	}
	return state, nil
}

func (s State) obligations(kind Kind) map[primitive.AccountID]Obligation {
	switch kind {
	case KindGuaranty:
		return s.Guaranty
	case KindRent:
		return s.Rent
	}
	return nil
}
