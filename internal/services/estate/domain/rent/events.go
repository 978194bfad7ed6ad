package rent

import (
	"encoding/json"
	"errors"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

const (
	EventTypePaymentRequested event.Type = "payment.requested"
	EventTypePaymentPaid      event.Type = "payment.paid"
	EventTypeRentChecked      event.Type = "rent.checked"

	entityType = "payment"
)

// PaymentPayload records an obligation being requested or paid. NextCheck,
// when set, schedules the tenant's next rent check.
type PaymentPayload struct {
	Kind      Kind                  `json:"kind"`
	Payer     primitive.AccountID   `json:"payer"`
	Payee     primitive.AccountID   `json:"payee"`
	Asset     primitive.AssetKey    `json:"asset"`
	Amount    primitive.Balance     `json:"amount"`
	Block     primitive.BlockNumber `json:"block"`
	NextCheck primitive.BlockNumber `json:"next_check,omitempty"`
}

// Share is one owner's cut of collected rent.
type Share struct {
	Account primitive.AccountID `json:"account"`
	Amount  primitive.Balance   `json:"amount"`
}

// RentCheckedPayload records a scheduled split of collected rent.
type RentCheckedPayload struct {
	Tenant    primitive.AccountID   `json:"tenant"`
	Asset     primitive.AssetKey    `json:"asset"`
	Account   primitive.AccountID   `json:"account"`
	Collected primitive.Balance     `json:"collected"`
	Shares    []Share               `json:"shares,omitempty"`
	Remainder primitive.Balance     `json:"remainder"`
	NextCheck primitive.BlockNumber `json:"next_check"`
}

// RegisterEvents registers rent events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	for _, def := range []event.Definition{
		{Type: EventTypePaymentRequested, Exposed: true, ValidatePayload: validatePayment},
		{Type: EventTypePaymentPaid, Exposed: true, ValidatePayload: validatePayment},
		{Type: EventTypeRentChecked},
	} {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

func validatePayment(raw json.RawMessage) error {
	var payload PaymentPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.Kind != KindGuaranty && payload.Kind != KindRent {
		return errors.New("unknown payment kind")
	}
	if payload.Payer == "" || payload.Payee == "" {
		return errors.New("payer and payee are required")
	}
	if payload.Amount == 0 {
		return errors.New("amount must be positive")
	}
	return nil
}
