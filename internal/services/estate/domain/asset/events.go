package asset

import (
	"encoding/json"
	"errors"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

const (
	EventTypeSubmitted             event.Type = "asset.submitted"
	EventTypeStatusChanged         event.Type = "asset.status_changed"
	EventTypeFinalisingDeferred    event.Type = "asset.finalising_deferred"
	EventTypeTenantRequested       event.Type = "asset.tenant_requested"
	EventTypeTenantAdded           event.Type = "asset.tenant_added"
	EventTypeRepresentativeSet     event.Type = "asset.representative_set"
	EventTypeRepresentativeCleared event.Type = "asset.representative_cleared"

	entityType = "asset"
)

// SubmittedPayload records a seller putting an asset up for acquisition.
type SubmittedPayload struct {
	Asset        primitive.AssetKey    `json:"asset"`
	Seller       primitive.AccountID   `json:"seller"`
	Price        primitive.Balance     `json:"price"`
	Metadata     string                `json:"metadata,omitempty"`
	ProposalHash string                `json:"proposal_hash"`
	Block        primitive.BlockNumber `json:"block"`
}

// StatusChangedPayload records a lifecycle transition. DueAt, when set, is
// the block of the next automatic step.
type StatusChangedPayload struct {
	Asset primitive.AssetKey    `json:"asset"`
	From  Status                `json:"from"`
	To    Status                `json:"to"`
	Block primitive.BlockNumber `json:"block"`
	DueAt primitive.BlockNumber `json:"due_at,omitempty"`
	Rent  primitive.Balance     `json:"rent,omitempty"`
}

// FinalisingDeferredPayload records a retry of the finalising step.
type FinalisingDeferredPayload struct {
	Asset   primitive.AssetKey    `json:"asset"`
	RetryAt primitive.BlockNumber `json:"retry_at"`
	Reason  string                `json:"reason,omitempty"`
}

// TenantPayload names a tenant of an asset.
type TenantPayload struct {
	Asset  primitive.AssetKey  `json:"asset"`
	Tenant primitive.AccountID `json:"tenant"`
}

// RepresentativePayload names the representative of an asset.
type RepresentativePayload struct {
	Asset          primitive.AssetKey  `json:"asset"`
	Representative primitive.AccountID `json:"representative,omitempty"`
}

// RegisterEvents registers asset events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	for _, def := range []event.Definition{
		{Type: EventTypeSubmitted, ValidatePayload: validateSubmitted},
		{Type: EventTypeStatusChanged, Exposed: true, ValidatePayload: validateStatusChanged},
		{Type: EventTypeFinalisingDeferred},
		{Type: EventTypeTenantRequested, ValidatePayload: validateTenant},
		{Type: EventTypeTenantAdded, ValidatePayload: validateTenant},
		{Type: EventTypeRepresentativeSet},
		{Type: EventTypeRepresentativeCleared},
	} {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

func validateSubmitted(raw json.RawMessage) error {
	var payload SubmittedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.Seller == "" {
		return errors.New("seller is required")
	}
	if payload.Price == 0 {
		return errors.New("price must be positive")
	}
	return nil
}

func validateStatusChanged(raw json.RawMessage) error {
	var payload StatusChangedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if !CanTransition(payload.From, payload.To) {
		return errors.New("transition is not allowed")
	}
	return nil
}

func validateTenant(raw json.RawMessage) error {
	var payload TenantPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.Tenant == "" {
		return errors.New("tenant is required")
	}
	return nil
}
