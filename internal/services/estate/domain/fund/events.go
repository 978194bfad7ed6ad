package fund

import (
	"encoding/json"
	"errors"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

const (
	EventTypeContributed event.Type = "fund.contributed"
	EventTypeWithdrawn   event.Type = "fund.withdrawn"
	EventTypeReserved    event.Type = "fund.reserved"
	EventTypeConsumed    event.Type = "fund.consumed"

	entityType = "fund"
)

// ContributedPayload records a contribution to the pool.
type ContributedPayload struct {
	Account primitive.AccountID `json:"account"`
	Amount  primitive.Balance   `json:"amount"`
}

// WithdrawnPayload records a withdrawal from the pool.
type WithdrawnPayload struct {
	Account primitive.AccountID `json:"account"`
	Amount  primitive.Balance   `json:"amount"`
}

// ReservedPayload records a reservation for an acquisition.
type ReservedPayload struct {
	Asset         primitive.AssetKey    `json:"asset"`
	Amount        primitive.Balance     `json:"amount"`
	Contributions []Contribution        `json:"contributions"`
	Block         primitive.BlockNumber `json:"block"`
}

// ConsumedPayload records the reservation paying the seller.
type ConsumedPayload struct {
	Asset  primitive.AssetKey  `json:"asset"`
	Payee  primitive.AccountID `json:"payee"`
	Amount primitive.Balance   `json:"amount"`
}

// RegisterEvents registers fund events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	for _, def := range []event.Definition{
		{Type: EventTypeContributed, ValidatePayload: validateAccountAmount},
		{Type: EventTypeWithdrawn, ValidatePayload: validateAccountAmount},
		{Type: EventTypeReserved, ValidatePayload: validateReserved},
		{Type: EventTypeConsumed},
	} {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

func validateAccountAmount(raw json.RawMessage) error {
	var payload ContributedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.Account == "" {
		return errors.New("account is required")
	}
	if payload.Amount == 0 {
		return errors.New("amount must be positive")
	}
	return nil
}

func validateReserved(raw json.RawMessage) error {
	var payload ReservedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	var total primitive.Balance
	for _, c := range payload.Contributions {
		total += c.Amount
	}
	if total != payload.Amount {
		return errors.New("contributions must sum to the reserved amount")
	}
	return nil
}
