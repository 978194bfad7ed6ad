package engine

import (
	"encoding/json"

	apperrors "github.com/louisbranch/fairsquares/internal/platform/errors"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/asset"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/command"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/effect"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/fund"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/governance"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/ownership"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/proposal"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/rent"
)

type handler func(t *tx, cmd command.Command) error

func (e *Engine) commandHandlers() map[command.Type]handler {
	return map[command.Type]handler{
		CommandContribute:           withPayload(handleContribute),
		CommandWithdraw:             withPayload(handleWithdraw),
		CommandReserveContributions: withPayload(handleReserveContributions),
		CommandSubmitAsset:          withPayload(handleSubmitAsset),
		CommandValidateTransaction:  withPayload(handleValidateTransaction),
		CommandCouncilVote:          withPayload(handleCouncilVote),
		CommandCloseCouncil:         withPayload(handleCloseCouncil),
		CommandVote:                 withPayload(handleVote),
		CommandLaunchRepresentative: withPayload(handleLaunchRepresentative),
		CommandLaunchDemotion:       withPayload(handleLaunchDemotion),
		CommandRequestAsset:         withPayload(handleRequestAsset),
		CommandLaunchTenant:         withPayload(handleLaunchTenant),
		CommandPayGuarantyDeposit:   withPayload(handlePayGuarantyDeposit),
		CommandPayRent:              withPayload(handlePayRent),
		CommandRunTask:              withPayload(handleRunTask),
	}
}

// withPayload decodes the command payload before calling fn with the actor.
func withPayload[T any](fn func(t *tx, actor primitive.AccountID, payload T) error) handler {
	return func(t *tx, cmd command.Command) error {
		var payload T
		if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
			return apperrors.Wrap(apperrors.CodeAmountInvalid, "decode "+string(cmd.Type)+" payload", err)
		}
		return fn(t, primitive.AccountID(cmd.ActorID), payload)
	}
}

func (t *tx) requireRole(account primitive.AccountID, role primitive.Role) error {
	if !t.ports().Roles.HasRole(account, role) {
		return apperrors.WithMetadata(apperrors.CodeUnauthorized, string(account)+" lacks the "+string(role)+" role",
			map[string]string{"Role": string(role)})
	}
	return nil
}

func handleContribute(t *tx, actor primitive.AccountID, p AmountPayload) error {
	if err := t.requireRole(actor, primitive.RoleInvestor); err != nil {
		return err
	}
	return t.apply(fund.Contribute(t.state.Fund, t.params().fundConfig(), actor, p.Amount))
}

func handleWithdraw(t *tx, actor primitive.AccountID, p AmountPayload) error {
	return t.apply(fund.Withdraw(t.state.Fund, t.params().fundConfig(), actor, p.Amount))
}

func handleReserveContributions(t *tx, actor primitive.AccountID, p ReserveContributionsPayload) error {
	if err := t.requireRole(actor, primitive.RoleServicer); err != nil {
		return err
	}
	a, ok := t.state.Assets.Get(p.Asset)
	if !ok {
		return apperrors.New(apperrors.CodeNotAnAsset, "unknown asset "+p.Asset.String())
	}
	if a.Status != asset.StatusOnboarded {
		return apperrors.WithMetadata(apperrors.CodeInvalidStatusTransition, "contributions are reserved while onboarded",
			map[string]string{"FromStatus": string(a.Status), "ToStatus": string(asset.StatusFinalising)})
	}
	var total primitive.Balance
	for _, c := range p.Contributions {
		total += c.Amount
	}
	if total != a.Price {
		return apperrors.New(apperrors.CodeAmountInvalid, "contributions must add up to the asset price")
	}
	return t.apply(fund.ReserveContributions(t.state.Fund, t.params().fundConfig(), p.Asset, p.Contributions, t.block))
}

func handleSubmitAsset(t *tx, actor primitive.AccountID, p SubmitAssetPayload) error {
	if err := t.requireRole(actor, primitive.RoleSeller); err != nil {
		return err
	}
	if owner, ok := t.ports().Assets.OwnerOf(p.Asset); !ok || owner != actor {
		return apperrors.WithMetadata(apperrors.CodeNotAnAsset, string(actor)+" does not own "+p.Asset.String(),
			map[string]string{"Asset": p.Asset.String()})
	}
	action := proposal.Action{Kind: proposal.ActionAcquireAsset, Asset: p.Asset}
	if err := t.apply(asset.Submit(t.state.Assets, p.Asset, actor, p.Price, p.Metadata, action.Hash(), t.block)); err != nil {
		return err
	}
	return t.apply(proposal.Submit(t.state.Proposals, t.params().proposalConfig(), actor, action, proposal.TrackCouncil, t.block))
}

func handleValidateTransaction(t *tx, actor primitive.AccountID, p AssetPayload) error {
	if err := t.requireRole(actor, primitive.RoleNotary); err != nil {
		return err
	}
	return t.apply(asset.Transition(t.state.Assets, t.params().assetConfig(), p.Asset, asset.StatusFinalised, t.block))
}

func handleCouncilVote(t *tx, actor primitive.AccountID, p CouncilVotePayload) error {
	return t.apply(proposal.CouncilVote(t.state.Proposals, t.params().proposalConfig(), actor, p.Hash, p.Aye, t.block))
}

func handleCloseCouncil(t *tx, actor primitive.AccountID, p HashPayload) error {
	if !t.params().proposalConfig().IsCouncilMember(actor) {
		return apperrors.New(apperrors.CodeUnauthorized, string(actor)+" is not a council member")
	}
	return t.closeCouncil(p.Hash)
}

func handleVote(t *tx, actor primitive.AccountID, p VotePayload) error {
	ref, ok := t.state.Proposals.Referendum(p.Index)
	if !ok {
		return apperrors.New(apperrors.CodeNotFound, "unknown referendum")
	}
	var weight primitive.Balance
	switch ref.Track {
	case proposal.TrackCouncil:
		if err := t.requireRole(actor, primitive.RoleInvestor); err != nil {
			return err
		}
		weight = t.state.Fund.BalanceOf(actor)
	case proposal.TrackOwners:
		if !t.state.Ownership.IsOwner(ref.Action.Asset, actor) {
			return apperrors.WithMetadata(apperrors.CodeNotAnOwner, string(actor)+" does not own "+ref.Action.Asset.String(),
				map[string]string{"Asset": ref.Action.Asset.String()})
		}
		weight = t.state.Ownership.OwnerBalance(ref.Action.Asset, actor)
	}
	return t.apply(proposal.Vote(t.state.Proposals, actor, p.Index, p.Aye, weight, t.block))
}

// requireOwner returns the virtual account of key when actor owns a share.
func (t *tx) requireOwner(actor primitive.AccountID, key primitive.AssetKey) (ownership.VirtualAccount, error) {
	va, ok := t.state.Ownership.VirtualAccount(key)
	if !ok {
		return va, apperrors.WithMetadata(apperrors.CodeNotAnAsset, key.String()+" has no virtual account",
			map[string]string{"Asset": key.String()})
	}
	if !t.state.Ownership.IsOwner(key, actor) {
		return va, apperrors.WithMetadata(apperrors.CodeNotAnOwner, string(actor)+" does not own "+key.String(),
			map[string]string{"Asset": key.String()})
	}
	return va, nil
}

// openSession submits action on the owners track and links the referendum
// to the asset.
func (t *tx) openSession(actor primitive.AccountID, kind governance.SessionKind, action proposal.Action, account primitive.AccountID) error {
	if err := t.apply(governance.CheckSessionAvailable(t.state.Governance, action.Asset, kind)); err != nil {
		return err
	}
	index := t.state.Proposals.NextIndex
	if err := t.apply(proposal.Submit(t.state.Proposals, t.params().proposalConfig(), actor, action, proposal.TrackOwners, t.block)); err != nil {
		return err
	}
	return t.apply(governance.StartSession(t.state.Governance, governance.Link{
		Index:     index,
		Kind:      kind,
		Caller:    actor,
		Candidate: action.Candidate,
		Account:   account,
		Asset:     action.Asset,
		Started:   t.block,
	}))
}

func handleLaunchRepresentative(t *tx, actor primitive.AccountID, p RepresentativeSessionPayload) error {
	va, err := t.requireOwner(actor, p.Asset)
	if err != nil {
		return err
	}
	roles := t.ports().Roles
	if !roles.IsPending(p.Candidate, primitive.RoleRepresentative) && !roles.HasRole(p.Candidate, primitive.RoleRepresentative) {
		return apperrors.New(apperrors.CodeNotInWaitingList, string(p.Candidate)+" has not requested the representative role")
	}
	action := proposal.Action{Kind: proposal.ActionApproveRepresentative, Asset: p.Asset, Candidate: p.Candidate}
	return t.openSession(actor, governance.SessionRepresentative, action, va.Account)
}

func handleLaunchDemotion(t *tx, actor primitive.AccountID, p AssetPayload) error {
	va, err := t.requireOwner(actor, p.Asset)
	if err != nil {
		return err
	}
	a, _ := t.state.Assets.Get(p.Asset)
	if a.Representative == "" {
		return apperrors.New(apperrors.CodeNotFound, p.Asset.String()+" has no representative")
	}
	action := proposal.Action{Kind: proposal.ActionDemoteRepresentative, Asset: p.Asset, Candidate: a.Representative}
	return t.openSession(actor, governance.SessionDemotion, action, va.Account)
}

func handleRequestAsset(t *tx, actor primitive.AccountID, p AssetPayload) error {
	if err := t.requireRole(actor, primitive.RoleTenant); err != nil {
		return err
	}
	if housed, ok := t.state.Governance.Tenant(actor); ok {
		return apperrors.New(apperrors.CodeAlreadyWaiting, string(actor)+" already rents "+housed.Asset.String())
	}
	return t.apply(asset.RequestTenancy(t.state.Assets, p.Asset, actor))
}

func handleLaunchTenant(t *tx, actor primitive.AccountID, p TenantSessionPayload) error {
	a, ok := t.state.Assets.Get(p.Asset)
	if !ok || a.Status != asset.StatusPurchased {
		return apperrors.WithMetadata(apperrors.CodeNotAnAsset, p.Asset.String()+" is not a purchased asset",
			map[string]string{"Asset": p.Asset.String()})
	}
	if a.Representative == "" || a.Representative != actor {
		return apperrors.New(apperrors.CodeUnauthorized, string(actor)+" does not represent "+p.Asset.String())
	}
	if !primitive.ContainsAccount(a.Waiting, p.Tenant) {
		return apperrors.New(apperrors.CodeNotInWaitingList, string(p.Tenant)+" has not requested "+p.Asset.String())
	}
	judgement := t.ports().Identity.JudgementOf(p.Tenant)
	if p.Judgement != nil {
		if !p.Judgement.Valid() {
			return apperrors.New(apperrors.CodeUnauthorized, "unknown judgement "+string(*p.Judgement))
		}
		judgement = *p.Judgement
	}
	if !judgement.Trusted() {
		return apperrors.WithMetadata(apperrors.CodeUnauthorized, string(p.Tenant)+" has judgement "+string(judgement),
			map[string]string{"Judgement": string(judgement)})
	}
	va, ok := t.state.Ownership.VirtualAccount(p.Asset)
	if !ok {
		return apperrors.New(apperrors.CodeNotAnAsset, p.Asset.String()+" has no virtual account")
	}
	action := proposal.Action{Kind: proposal.ActionApproveTenant, Asset: p.Asset, Candidate: p.Tenant}
	if err := t.openSession(actor, governance.SessionTenant, action, va.Account); err != nil {
		return err
	}
	if p.Judgement != nil {
		t.queue(effect.ProvideJudgement(p.Tenant, judgement))
	}
	return nil
}

func handlePayGuarantyDeposit(t *tx, actor primitive.AccountID, p AssetPayload) error {
	reg, ok := t.state.Governance.Tenant(actor)
	if !ok {
		return apperrors.Errorf(apperrors.CodeNotFound, "%s is not a tenant", actor)
	}
	if err := t.apply(rent.PayGuaranty(t.state.Rent, t.params().rentConfig(), actor, p.Asset, reg.ContractStart, t.block)); err != nil {
		return err
	}
	return t.apply(governance.ActivateTenant(t.state.Governance, actor))
}

func handlePayRent(t *tx, actor primitive.AccountID, _ struct{}) error {
	return t.apply(rent.PayRent(t.state.Rent, actor, t.block))
}
