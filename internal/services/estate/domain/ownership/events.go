package ownership

import (
	"encoding/json"
	"errors"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

const (
	EventTypeAccountOpened event.Type = "ownership.account_opened"
	EventTypeTokensIssued  event.Type = "ownership.tokens_issued"
	EventTypeDistributed   event.Type = "ownership.distributed"

	entityType = "virtual_account"
)

// AccountOpenedPayload records a virtual account created for an asset.
type AccountOpenedPayload struct {
	Asset   primitive.AssetKey  `json:"asset"`
	Account primitive.AccountID `json:"account"`
	TokenID primitive.TokenID   `json:"token_id"`
}

// TokensIssuedPayload records the fixed token supply minted to the virtual
// account.
type TokensIssuedPayload struct {
	Asset   primitive.AssetKey  `json:"asset"`
	Account primitive.AccountID `json:"account"`
	TokenID primitive.TokenID   `json:"token_id"`
	Supply  primitive.Balance   `json:"supply"`
}

// Share is one owner's slice of the supply.
type Share struct {
	Account primitive.AccountID `json:"account"`
	Amount  primitive.Balance   `json:"amount"`
}

// DistributedPayload records tokens moved from the virtual account to owners.
type DistributedPayload struct {
	Asset     primitive.AssetKey  `json:"asset"`
	Account   primitive.AccountID `json:"account"`
	TokenID   primitive.TokenID   `json:"token_id"`
	Shares    []Share             `json:"shares"`
	Remainder primitive.Balance   `json:"remainder"`
}

// RegisterEvents registers ownership events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	for _, def := range []event.Definition{
		{Type: EventTypeAccountOpened, ValidatePayload: validateOpened},
		{Type: EventTypeTokensIssued},
		{Type: EventTypeDistributed, Exposed: true, ValidatePayload: validateDistributed},
	} {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

func validateOpened(raw json.RawMessage) error {
	var payload AccountOpenedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.Account == "" {
		return errors.New("account is required")
	}
	return nil
}

func validateDistributed(raw json.RawMessage) error {
	var payload DistributedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	for _, share := range payload.Shares {
		if share.Amount == 0 {
			return errors.New("shares must be nonzero")
		}
	}
	return nil
}
