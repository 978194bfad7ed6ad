package asset

import (
	apperrors "github.com/louisbranch/fairsquares/internal/platform/errors"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/command"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

// Submit creates key in the reviewing state.
func Submit(state State, key primitive.AssetKey, seller primitive.AccountID, price primitive.Balance, metadata, proposalHash string, block primitive.BlockNumber) command.Decision {
	if _, exists := state.Assets[key]; exists {
		return command.Rejectf(apperrors.CodeAssetAlreadyOwned, "asset %s was already submitted", key)
	}
	if price == 0 {
		return command.Rejectf(apperrors.CodeAmountInvalid, "price must be positive")
	}
	return command.Accept(event.MustNew(EventTypeSubmitted, entityType, key.String(), SubmittedPayload{
		Asset:        key,
		Seller:       seller,
		Price:        price,
		Metadata:     metadata,
		ProposalHash: proposalHash,
		Block:        block,
	}))
}

// Transition moves key to status to. Entering onboarded or finalised
// schedules the next automatic step; entering purchased fixes the rent.
func Transition(state State, cfg Config, key primitive.AssetKey, to Status, block primitive.BlockNumber) command.Decision {
	a, ok := state.Assets[key]
	if !ok {
		return command.Rejectf(apperrors.CodeNotFound, "unknown asset %s", key)
	}
	if !CanTransition(a.Status, to) {
		return command.Reject(command.Rejection{
			Code:     apperrors.CodeInvalidStatusTransition,
			Message:  "asset " + key.String() + " cannot move from " + string(a.Status) + " to " + string(to),
			Metadata: map[string]string{"FromStatus": string(a.Status), "ToStatus": string(to)},
		})
	}
	payload := StatusChangedPayload{Asset: key, From: a.Status, To: to, Block: block}
	switch to {
	case StatusOnboarded:
		payload.DueAt = block + cfg.OnboardedWindow
	case StatusFinalised:
		payload.DueAt = block + cfg.FinalisedWindow
	case StatusPurchased:
		rent, ok := primitive.MulDiv(a.Price, primitive.Balance(cfg.RentBasisPoints), 10_000)
		if !ok {
			return command.Rejectf(apperrors.CodeAmountInvalid, "rent for asset %s overflows", key)
		}
		payload.Rent = rent
	}
	return command.Accept(event.MustNew(EventTypeStatusChanged, entityType, key.String(), payload))
}

// DeferFinalising retries the onboarded step of key at retryAt.
func DeferFinalising(state State, key primitive.AssetKey, retryAt primitive.BlockNumber, reason string) command.Decision {
	a, ok := state.Assets[key]
	if !ok {
		return command.Rejectf(apperrors.CodeNotFound, "unknown asset %s", key)
	}
	if a.Status != StatusOnboarded {
		return command.Rejectf(apperrors.CodeInvalidStatusTransition, "asset %s is %s, not onboarded", key, a.Status)
	}
	return command.Accept(event.MustNew(EventTypeFinalisingDeferred, entityType, key.String(), FinalisingDeferredPayload{
		Asset:   key,
		RetryAt: retryAt,
		Reason:  reason,
	}))
}

// RequestTenancy puts tenant on the waiting list of a purchased asset.
func RequestTenancy(state State, key primitive.AssetKey, tenant primitive.AccountID) command.Decision {
	a, ok := state.Assets[key]
	if !ok || a.Status != StatusPurchased {
		return command.Rejectf(apperrors.CodeNotAnAsset, "asset %s is not available for rent", key)
	}
	if primitive.ContainsAccount(a.Waiting, tenant) || primitive.ContainsAccount(a.Tenants, tenant) {
		return command.Rejectf(apperrors.CodeAlreadyWaiting, "%s already requested asset %s", tenant, key)
	}
	return command.Accept(event.MustNew(EventTypeTenantRequested, entityType, key.String(), TenantPayload{Asset: key, Tenant: tenant}))
}

// AddTenant moves tenant from the waiting list to the tenants of key.
func AddTenant(state State, key primitive.AssetKey, tenant primitive.AccountID) command.Decision {
	a, ok := state.Assets[key]
	if !ok {
		return command.Rejectf(apperrors.CodeNotAnAsset, "unknown asset %s", key)
	}
	if !primitive.ContainsAccount(a.Waiting, tenant) {
		return command.Rejectf(apperrors.CodeNotInWaitingList, "%s is not waiting for asset %s", tenant, key)
	}
	return command.Accept(event.MustNew(EventTypeTenantAdded, entityType, key.String(), TenantPayload{Asset: key, Tenant: tenant}))
}

// SetRepresentative names the representative of key.
func SetRepresentative(state State, key primitive.AssetKey, representative primitive.AccountID) command.Decision {
	if _, ok := state.Assets[key]; !ok {
		return command.Rejectf(apperrors.CodeNotAnAsset, "unknown asset %s", key)
	}
	return command.Accept(event.MustNew(EventTypeRepresentativeSet, entityType, key.String(), RepresentativePayload{
		Asset:          key,
		Representative: representative,
	}))
}

// ClearRepresentative removes the representative of key.
func ClearRepresentative(state State, key primitive.AssetKey) command.Decision {
	a, ok := state.Assets[key]
	if !ok {
		return command.Rejectf(apperrors.CodeNotAnAsset, "unknown asset %s", key)
	}
	if a.Representative == "" {
		return command.Rejectf(apperrors.CodeNotFound, "asset %s has no representative", key)
	}
	return command.Accept(event.MustNew(EventTypeRepresentativeCleared, entityType, key.String(), RepresentativePayload{
		Asset:          key,
		Representative: a.Representative,
	}))
}
