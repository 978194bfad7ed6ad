package governance

import (
	apperrors "github.com/louisbranch/fairsquares/internal/platform/errors"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/command"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

// StartSession records link for the referendum it was opened with. Only one
// representative or demotion session may be open per asset.
func StartSession(state State, link Link) command.Decision {
	if _, exists := state.Link(link.Index); exists {
		return command.Rejectf(apperrors.CodeDuplicatePreimage, "referendum %d already has a session", link.Index)
	}
	if link.Kind == SessionRepresentative || link.Kind == SessionDemotion {
		if open, ok := state.OpenSession(link.Asset, SessionRepresentative, SessionDemotion); ok {
			return command.Rejectf(apperrors.CodeSessionAlreadyOpen, "asset %s has open %s session %d", link.Asset, open.Kind, open.Index)
		}
	}
	return command.Accept(event.MustNew(EventTypeSessionStarted, entityType, link.Asset.String(), link))
}

// CheckSessionAvailable reports whether a session of kind may open on asset.
func CheckSessionAvailable(state State, asset primitive.AssetKey, kind SessionKind) command.Decision {
	if kind != SessionRepresentative && kind != SessionDemotion {
		return command.Decision{}
	}
	if open, ok := state.OpenSession(asset, SessionRepresentative, SessionDemotion); ok {
		return command.Rejectf(apperrors.CodeSessionAlreadyOpen, "asset %s has open %s session %d", asset, open.Kind, open.Index)
	}
	return command.Decision{}
}

// Conclude archives the session of referendum index.
func Conclude(state State, index primitive.ReferendumIndex, approved bool) command.Decision {
	link, ok := state.Links[index]
	if !ok {
		return command.Rejectf(apperrors.CodeNotFound, "no open session for referendum %d", index)
	}
	return command.Accept(event.MustNew(EventTypeSessionConcluded, entityType, link.Asset.String(), SessionConcludedPayload{
		Index:    index,
		Asset:    link.Asset,
		Approved: approved,
	}))
}

// ApproveRepresentative links assetAccount to account's representative
// registration, creating it when needed.
func ApproveRepresentative(state State, account, assetAccount primitive.AccountID, block primitive.BlockNumber) command.Decision {
	return command.Accept(event.MustNew(EventTypeRepresentativeApproved, entityType, string(account), RepresentativePayload{
		Account:      account,
		AssetAccount: assetAccount,
		Block:        block,
	}))
}

// DemoteRepresentative unlinks assetAccount from account.
func DemoteRepresentative(state State, account, assetAccount primitive.AccountID, block primitive.BlockNumber) command.Decision {
	rep, ok := state.Representatives[account]
	if !ok || !primitive.ContainsAccount(rep.AssetAccounts, assetAccount) {
		return command.Rejectf(apperrors.CodeNotFound, "%s does not represent %s", account, assetAccount)
	}
	return command.Accept(event.MustNew(EventTypeRepresentativeDemoted, entityType, string(account), RepresentativePayload{
		Account:      account,
		AssetAccount: assetAccount,
		Block:        block,
	}))
}

// ApproveTenant registers tenant as housed in asset. The tenant stays
// inactive until the guaranty deposit is paid.
func ApproveTenant(state State, tenant primitive.AccountID, asset primitive.AssetKey, assetAccount primitive.AccountID, rent primitive.Balance, block primitive.BlockNumber) command.Decision {
	if existing, ok := state.Tenants[tenant]; ok && existing.Asset != asset {
		return command.Rejectf(apperrors.CodeAlreadyWaiting, "%s is already housed in asset %s", tenant, existing.Asset)
	}
	return command.Accept(event.MustNew(EventTypeTenantApproved, entityType, string(tenant), TenantApprovedPayload{
		Account:       tenant,
		Asset:         asset,
		AssetAccount:  assetAccount,
		ContractStart: block,
		Rent:          rent,
	}))
}

// ActivateTenant marks tenant as occupying its asset.
func ActivateTenant(state State, tenant primitive.AccountID) command.Decision {
	if _, ok := state.Tenants[tenant]; !ok {
		return command.Rejectf(apperrors.CodeNotFound, "%s is not a tenant", tenant)
	}
	return command.Accept(event.MustNew(EventTypeTenantActivated, entityType, string(tenant), TenantActivatedPayload{Account: tenant}))
}
