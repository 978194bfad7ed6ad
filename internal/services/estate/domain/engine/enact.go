package engine

import (
	"fmt"

	apperrors "github.com/louisbranch/fairsquares/internal/platform/errors"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/asset"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/effect"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/governance"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/proposal"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/rent"
)

// actionHandler interprets one action kind at each voting milestone. Nil
// hooks are no-ops.
type actionHandler struct {
	councilPassed func(t *tx, p proposal.Proposal) error
	rejected      func(t *tx, p proposal.Proposal) error
	enact         func(t *tx, p proposal.Proposal) error
}

// actionHandlers is the enactment dispatch table.
var actionHandlers = map[proposal.ActionKind]actionHandler{
	proposal.ActionAcquireAsset: {
		councilPassed: func(t *tx, p proposal.Proposal) error {
			return t.apply(asset.Transition(t.state.Assets, t.params().assetConfig(), p.Action.Asset, asset.StatusVoting, t.block))
		},
		rejected: func(t *tx, p proposal.Proposal) error {
			return t.apply(asset.Transition(t.state.Assets, t.params().assetConfig(), p.Action.Asset, asset.StatusRejected, t.block))
		},
		enact: func(t *tx, p proposal.Proposal) error {
			return t.apply(asset.Transition(t.state.Assets, t.params().assetConfig(), p.Action.Asset, asset.StatusOnboarded, t.block))
		},
	},
	proposal.ActionApproveRepresentative: {
		rejected: concludeSession(false),
		enact:    enactRepresentative,
	},
	proposal.ActionDemoteRepresentative: {
		rejected: concludeSession(false),
		enact:    enactDemotion,
	},
	proposal.ActionApproveTenant: {
		rejected: concludeSession(false),
		enact:    enactTenant,
	},
}

func concludeSession(approved bool) func(t *tx, p proposal.Proposal) error {
	return func(t *tx, p proposal.Proposal) error {
		if !p.HasReferendum {
			return nil
		}
		if _, open := t.state.Governance.Links[p.Referendum]; !open {
			return nil
		}
		return t.apply(governance.Conclude(t.state.Governance, p.Referendum, approved))
	}
}

func enactRepresentative(t *tx, p proposal.Proposal) error {
	va, ok := t.state.Ownership.VirtualAccount(p.Action.Asset)
	if !ok {
		return apperrors.New(apperrors.CodeNotAnAsset, p.Action.Asset.String()+" has no virtual account")
	}
	a, _ := t.state.Assets.Get(p.Action.Asset)
	if previous := a.Representative; previous != "" && previous != p.Action.Candidate {
		if err := t.apply(governance.DemoteRepresentative(t.state.Governance, previous, va.Account, t.block)); err != nil {
			return err
		}
	}
	if err := t.apply(governance.ApproveRepresentative(t.state.Governance, p.Action.Candidate, va.Account, t.block)); err != nil {
		return err
	}
	if err := t.apply(asset.SetRepresentative(t.state.Assets, p.Action.Asset, p.Action.Candidate)); err != nil {
		return err
	}
	if err := concludeSession(true)(t, p); err != nil {
		return err
	}
	if !t.ports().Roles.HasRole(p.Action.Candidate, primitive.RoleRepresentative) {
		t.queue(effect.ApproveRole(p.Action.Candidate, primitive.RoleRepresentative))
	}
	return nil
}

func enactDemotion(t *tx, p proposal.Proposal) error {
	va, ok := t.state.Ownership.VirtualAccount(p.Action.Asset)
	if !ok {
		return apperrors.New(apperrors.CodeNotAnAsset, p.Action.Asset.String()+" has no virtual account")
	}
	if a, _ := t.state.Assets.Get(p.Action.Asset); a.Representative != p.Action.Candidate {
		return apperrors.New(apperrors.CodeNotFound, string(p.Action.Candidate)+" no longer represents "+p.Action.Asset.String())
	}
	if err := t.apply(governance.DemoteRepresentative(t.state.Governance, p.Action.Candidate, va.Account, t.block)); err != nil {
		return err
	}
	if err := t.apply(asset.ClearRepresentative(t.state.Assets, p.Action.Asset)); err != nil {
		return err
	}
	return concludeSession(true)(t, p)
}

func enactTenant(t *tx, p proposal.Proposal) error {
	va, ok := t.state.Ownership.VirtualAccount(p.Action.Asset)
	if !ok {
		return apperrors.New(apperrors.CodeNotAnAsset, p.Action.Asset.String()+" has no virtual account")
	}
	tenant := p.Action.Candidate
	if err := t.apply(asset.AddTenant(t.state.Assets, p.Action.Asset, tenant)); err != nil {
		return err
	}
	a, _ := t.state.Assets.Get(p.Action.Asset)
	if err := t.apply(governance.ApproveTenant(t.state.Governance, tenant, p.Action.Asset, va.Account, a.Rent, t.block)); err != nil {
		return err
	}
	if err := t.apply(rent.RequestGuaranty(t.state.Rent, t.params().rentConfig(), tenant, p.Action.Asset, va.Account, a.Rent, t.block)); err != nil {
		return err
	}
	return concludeSession(true)(t, p)
}

// closeCouncil tallies the council vote on hash and advances the action.
func (t *tx) closeCouncil(hash string) error {
	p, ok := t.state.Proposals.Council[hash]
	if !ok {
		return apperrors.New(apperrors.CodeNotFound, "no proposal in council")
	}
	if err := t.apply(proposal.CloseCouncil(t.state.Proposals, t.params().proposalConfig(), hash, t.block)); err != nil {
		return err
	}
	h := actionHandlers[p.Action.Kind]
	if t.state.Proposals.IsOpen(hash) {
		if h.councilPassed != nil {
			return h.councilPassed(t, p)
		}
		return nil
	}
	if h.rejected != nil {
		return h.rejected(t, p)
	}
	return nil
}

// closeReferendum tallies referendum index and handles a rejection.
func (t *tx) closeReferendum(index primitive.ReferendumIndex) error {
	if err := t.apply(proposal.CloseReferendum(t.state.Proposals, t.params().proposalConfig(), index, t.block)); err != nil {
		return err
	}
	p, _ := t.state.Proposals.Referendum(index)
	if p.Outcome != proposal.OutcomeRejected {
		return nil
	}
	if h := actionHandlers[p.Action.Kind]; h.rejected != nil {
		return h.rejected(t, p)
	}
	return nil
}

// enact runs the action of approved referendum index.
func (t *tx) enact(index primitive.ReferendumIndex) error {
	p, ok := t.state.Proposals.Referendum(index)
	if !ok {
		return apperrors.New(apperrors.CodeNotFound, "unknown referendum")
	}
	h, ok := actionHandlers[p.Action.Kind]
	if !ok || h.enact == nil {
		return fmt.Errorf("no enactment for action %s", p.Action.Kind)
	}
	if err := t.apply(proposal.Enact(t.state.Proposals, index, t.block)); err != nil {
		return err
	}
	return h.enact(t, p)
}

// abandon closes an approved referendum whose enactment failed.
func (t *tx) abandon(index primitive.ReferendumIndex) error {
	if err := t.apply(proposal.Abandon(t.state.Proposals, index)); err != nil {
		return err
	}
	p, _ := t.state.Proposals.Referendum(index)
	if h := actionHandlers[p.Action.Kind]; h.rejected != nil {
		return h.rejected(t, p)
	}
	return nil
}
