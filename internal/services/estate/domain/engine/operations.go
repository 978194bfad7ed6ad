package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/asset"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/command"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/fund"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/governance"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/ownership"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/proposal"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/rent"
)

func (e *Engine) run(ctx context.Context, typ command.Type, actor primitive.AccountID, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", typ, err)
	}
	return e.Execute(ctx, command.Command{Type: typ, ActorID: string(actor), PayloadJSON: raw})
}

// Contribute moves amount from who into the housing fund.
func (e *Engine) Contribute(ctx context.Context, who primitive.AccountID, amount primitive.Balance) error {
	return e.run(ctx, CommandContribute, who, AmountPayload{Amount: amount})
}

// Withdraw returns amount of who's unreserved fund balance.
func (e *Engine) Withdraw(ctx context.Context, who primitive.AccountID, amount primitive.Balance) error {
	return e.run(ctx, CommandWithdraw, who, AmountPayload{Amount: amount})
}

// ReserveContributions earmarks explicit contributions for an onboarded asset.
func (e *Engine) ReserveContributions(ctx context.Context, servicer primitive.AccountID, key primitive.AssetKey, contributions []fund.Contribution) error {
	return e.run(ctx, CommandReserveContributions, servicer, ReserveContributionsPayload{Asset: key, Contributions: contributions})
}

// SubmitAsset puts seller's NFT up for acquisition and opens the council vote.
func (e *Engine) SubmitAsset(ctx context.Context, seller primitive.AccountID, key primitive.AssetKey, price primitive.Balance, metadata string) error {
	return e.run(ctx, CommandSubmitAsset, seller, SubmitAssetPayload{Asset: key, Price: price, Metadata: metadata})
}

// ValidateTransaction records the notary's sign-off on a finalising asset.
func (e *Engine) ValidateTransaction(ctx context.Context, notary primitive.AccountID, key primitive.AssetKey) error {
	return e.run(ctx, CommandValidateTransaction, notary, AssetPayload{Asset: key})
}

// CouncilVote casts member's ballot on the proposal with hash.
func (e *Engine) CouncilVote(ctx context.Context, member primitive.AccountID, hash string, aye bool) error {
	return e.run(ctx, CommandCouncilVote, member, CouncilVotePayload{Hash: hash, Aye: aye})
}

// CloseCouncil tallies the council vote on hash.
func (e *Engine) CloseCouncil(ctx context.Context, member primitive.AccountID, hash string) error {
	return e.run(ctx, CommandCloseCouncil, member, HashPayload{Hash: hash})
}

// Vote casts voter's weighted ballot in referendum index.
func (e *Engine) Vote(ctx context.Context, voter primitive.AccountID, index primitive.ReferendumIndex, aye bool) error {
	return e.run(ctx, CommandVote, voter, VotePayload{Index: index, Aye: aye})
}

// LaunchRepresentativeSession opens an owners referendum electing candidate
// as the representative of key.
func (e *Engine) LaunchRepresentativeSession(ctx context.Context, caller primitive.AccountID, key primitive.AssetKey, candidate primitive.AccountID) error {
	return e.run(ctx, CommandLaunchRepresentative, caller, RepresentativeSessionPayload{Asset: key, Candidate: candidate})
}

// LaunchDemotionSession opens an owners referendum removing the
// representative of key.
func (e *Engine) LaunchDemotionSession(ctx context.Context, caller primitive.AccountID, key primitive.AssetKey) error {
	return e.run(ctx, CommandLaunchDemotion, caller, AssetPayload{Asset: key})
}

// RequestAsset adds tenant to the waiting list of key.
func (e *Engine) RequestAsset(ctx context.Context, tenant primitive.AccountID, key primitive.AssetKey) error {
	return e.run(ctx, CommandRequestAsset, tenant, AssetPayload{Asset: key})
}

// LaunchTenantSession opens an owners referendum housing tenant in key. A
// nil judgement uses the registrar's current one.
func (e *Engine) LaunchTenantSession(ctx context.Context, representative primitive.AccountID, key primitive.AssetKey, tenant primitive.AccountID, judgement *primitive.Judgement) error {
	return e.run(ctx, CommandLaunchTenant, representative, TenantSessionPayload{Asset: key, Tenant: tenant, Judgement: judgement})
}

// PayGuarantyDeposit pays tenant's requested deposit for key.
func (e *Engine) PayGuarantyDeposit(ctx context.Context, tenant primitive.AccountID, key primitive.AssetKey) error {
	return e.run(ctx, CommandPayGuarantyDeposit, tenant, AssetPayload{Asset: key})
}

// PayRent pays tenant's requested rent.
func (e *Engine) PayRent(ctx context.Context, tenant primitive.AccountID) error {
	return e.run(ctx, CommandPayRent, tenant, struct{}{})
}

// Asset returns the asset record for key.
func (e *Engine) Asset(key primitive.AssetKey) (asset.Asset, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	a, ok := e.state.Assets.Get(key)
	if ok {
		a.Tenants = append([]primitive.AccountID(nil), a.Tenants...)
		a.Waiting = append([]primitive.AccountID(nil), a.Waiting...)
	}
	return a, ok
}

// VirtualAccount returns the virtual account holding key.
func (e *Engine) VirtualAccount(key primitive.AssetKey) (ownership.VirtualAccount, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	va, ok := e.state.Ownership.VirtualAccount(key)
	if ok {
		va.Owners = append([]primitive.AccountID(nil), va.Owners...)
	}
	return va, ok
}

// TokenBalance returns account's share of key.
func (e *Engine) TokenBalance(key primitive.AssetKey, account primitive.AccountID) primitive.Balance {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Ownership.OwnerBalance(key, account)
}

// FundBalance returns account's recorded fund balance and its reserved part.
func (e *Engine) FundBalance(account primitive.AccountID) (balance, reserved primitive.Balance) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Fund.BalanceOf(account), e.state.Fund.Reserved[account]
}

// Proposal returns the open proposal with hash.
func (e *Engine) Proposal(hash string) (proposal.Proposal, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Proposals.Lookup(hash)
}

// Referendum returns referendum index.
func (e *Engine) Referendum(index primitive.ReferendumIndex) (proposal.Proposal, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Proposals.Referendum(index)
}

// Outcome reports whether referendum index is pending, approved or rejected.
func (e *Engine) Outcome(index primitive.ReferendumIndex) (proposal.Outcome, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Proposals.Outcome(index)
}

// Session returns the governance session linked to referendum index, open or
// concluded.
func (e *Engine) Session(index primitive.ReferendumIndex) (governance.Link, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Governance.Link(index)
}

// Obligation returns tenant's payment obligation of kind.
func (e *Engine) Obligation(kind rent.Kind, tenant primitive.AccountID) (rent.Obligation, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Rent.Obligation(kind, tenant)
}
