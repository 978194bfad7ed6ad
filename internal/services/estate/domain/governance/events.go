package governance

import (
	"encoding/json"
	"errors"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

const (
	EventTypeSessionStarted         event.Type = "governance.session_started"
	EventTypeSessionConcluded       event.Type = "governance.session_concluded"
	EventTypeRepresentativeApproved event.Type = "governance.representative_approved"
	EventTypeRepresentativeDemoted  event.Type = "governance.representative_demoted"
	EventTypeTenantApproved         event.Type = "governance.tenant_approved"
	EventTypeTenantActivated        event.Type = "governance.tenant_activated"

	entityType = "governance"
)

// SessionConcludedPayload records a session leaving the open set.
type SessionConcludedPayload struct {
	Index    primitive.ReferendumIndex `json:"index"`
	Asset    primitive.AssetKey        `json:"asset"`
	Approved bool                      `json:"approved"`
}

// RepresentativePayload records a representative gaining or losing an asset.
type RepresentativePayload struct {
	Account      primitive.AccountID   `json:"account"`
	AssetAccount primitive.AccountID   `json:"asset_account"`
	Block        primitive.BlockNumber `json:"block"`
}

// TenantApprovedPayload records a tenant housed in an asset.
type TenantApprovedPayload struct {
	Account       primitive.AccountID   `json:"account"`
	Asset         primitive.AssetKey    `json:"asset"`
	AssetAccount  primitive.AccountID   `json:"asset_account"`
	ContractStart primitive.BlockNumber `json:"contract_start"`
	Rent          primitive.Balance     `json:"rent"`
}

// TenantActivatedPayload records a tenant whose guaranty deposit cleared.
type TenantActivatedPayload struct {
	Account primitive.AccountID `json:"account"`
}

// RegisterEvents registers governance events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	for _, def := range []event.Definition{
		{Type: EventTypeSessionStarted, Exposed: true, ValidatePayload: validateLink},
		{Type: EventTypeSessionConcluded},
		{Type: EventTypeRepresentativeApproved, ValidatePayload: validateRepresentative},
		{Type: EventTypeRepresentativeDemoted, ValidatePayload: validateRepresentative},
		{Type: EventTypeTenantApproved},
		{Type: EventTypeTenantActivated},
	} {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

func validateLink(raw json.RawMessage) error {
	var link Link
	if err := json.Unmarshal(raw, &link); err != nil {
		return err
	}
	switch link.Kind {
	case SessionRepresentative, SessionDemotion, SessionTenant:
	default:
		return errors.New("unknown session kind")
	}
	if link.Caller == "" || link.Account == "" {
		return errors.New("caller and account are required")
	}
	return nil
}

func validateRepresentative(raw json.RawMessage) error {
	var payload RepresentativePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.Account == "" || payload.AssetAccount == "" {
		return errors.New("account and asset account are required")
	}
	return nil
}
