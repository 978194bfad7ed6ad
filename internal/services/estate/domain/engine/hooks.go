package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/fairsquares/internal/platform/errors"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/aggregate"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/asset"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/command"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/effect"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/fund"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/ownership"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/proposal"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/rent"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/schedule"
)

// ErrBlockRegressed is returned when a hook runs for a block older than the
// engine's current block.
var ErrBlockRegressed = errors.New("block number must not decrease")

// OnInitialize starts block: it closes council votes and referenda, enacts
// approved actions, then advances timed asset transitions, in due order.
func (e *Engine) OnInitialize(ctx context.Context, block primitive.BlockNumber) error {
	return e.hook(ctx, "estate.on_initialize", block, schedule.AgendaProposal, schedule.AgendaAsset)
}

// OnIdle runs the rent checks due by block.
func (e *Engine) OnIdle(ctx context.Context, block primitive.BlockNumber) error {
	return e.hook(ctx, "estate.on_idle", block, schedule.AgendaRent)
}

func (e *Engine) hook(ctx context.Context, name string, block primitive.BlockNumber, agendas ...string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if block < e.block {
		return fmt.Errorf("%w: at %d, got %d", ErrBlockRegressed, e.block, block)
	}
	e.block = block

	ctx, span := e.tracer.Start(ctx, name, trace.WithAttributes(attribute.Int64("estate.block", int64(block))))
	defer span.End()

	ran := 0
	for _, agenda := range agendas {
		ran += e.runDue(ctx, agenda, block)
	}
	span.SetAttributes(attribute.Int("estate.tasks", ran))
	return nil
}

func agendaOf(state *aggregate.State, name string) *schedule.Agenda {
	switch name {
	case schedule.AgendaProposal:
		return &state.Proposals.Agenda
	case schedule.AgendaAsset:
		return &state.Assets.Agenda
	case schedule.AgendaRent:
		return &state.Rent.Agenda
	}
	return nil
}

// runDue runs every task of agenda due by block. A failing task is dropped
// and logged; the remaining tasks still run.
func (e *Engine) runDue(ctx context.Context, name string, block primitive.BlockNumber) int {
	ran := 0
	for {
		task, ok := agendaOf(&e.state, name).NextDue(block)
		if !ok {
			return ran
		}
		ran++
		payload, _ := json.Marshal(RunTaskPayload{Agenda: name, Key: task.Key, Due: task.Due})
		err := e.execute(ctx, command.Command{Type: CommandRunTask, ActorID: "system", PayloadJSON: payload})
		if err == nil {
			if next, ok := agendaOf(&e.state, name).Get(task.Key); !ok || next.Due > block {
				continue
			}
			err = errors.New("task did not leave the agenda")
		}
		e.logf("estate: skip %s task %s due %d: %v", name, task.Key, task.Due, err)
		e.skip(ctx, name, task, err)
	}
}

// skip drops task. Failed enactments also close their referendum so the
// action can be proposed again.
func (e *Engine) skip(ctx context.Context, name string, task schedule.Task, cause error) {
	skipped := schedule.Skip(name, task, string(apperrors.CodeOf(cause)))
	withFallback := func(t *tx) error {
		if name == schedule.AgendaProposal {
			if kind, target, ok := proposal.ParseTaskKey(task.Key); ok && kind == proposal.TaskEnact {
				if index, ok := proposal.ParseIndex(target); ok {
					if err := t.abandon(index); err != nil {
						return err
					}
				}
			}
		}
		return t.apply(command.Accept(skipped))
	}
	err := e.commit(ctx, "system", "", withFallback)
	if err == nil {
		return
	}
	e.logf("estate: fallback for %s task %s failed: %v", name, task.Key, err)
	if err := e.commit(ctx, "system", "", func(t *tx) error { return t.apply(command.Accept(skipped)) }); err != nil {
		e.logf("estate: drop %s task %s: %v", name, task.Key, err)
		// The journal refused the skip; drop it from memory so the hook ends.
		agendaOf(&e.state, name).Remove(task.Key)
	}
}

func handleRunTask(t *tx, _ primitive.AccountID, p RunTaskPayload) error {
	switch p.Agenda {
	case schedule.AgendaProposal:
		return t.runProposalTask(p.Key)
	case schedule.AgendaAsset:
		key, err := primitive.ParseAssetKey(p.Key)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeNotAnAsset, "asset task key", err)
		}
		return t.runAssetTask(key)
	case schedule.AgendaRent:
		return t.runRentCheck(primitive.AccountID(p.Key))
	}
	return fmt.Errorf("unknown agenda %q", p.Agenda)
}

func (t *tx) runProposalTask(key string) error {
	kind, target, ok := proposal.ParseTaskKey(key)
	if !ok {
		return fmt.Errorf("malformed proposal task %q", key)
	}
	if kind == proposal.TaskCloseCouncil {
		return t.closeCouncil(target)
	}
	index, ok := proposal.ParseIndex(target)
	if !ok {
		return fmt.Errorf("malformed referendum index %q", target)
	}
	if kind == proposal.TaskCloseReferendum {
		return t.closeReferendum(index)
	}
	return t.enact(index)
}

func (t *tx) runAssetTask(key primitive.AssetKey) error {
	a, ok := t.state.Assets.Get(key)
	if !ok {
		return apperrors.New(apperrors.CodeNotAnAsset, "unknown asset "+key.String())
	}
	switch a.Status {
	case asset.StatusOnboarded:
		return t.beginFinalising(a)
	case asset.StatusFinalised:
		return t.purchase(a)
	}
	return apperrors.WithMetadata(apperrors.CodeInvalidStatusTransition, "no automatic step from "+string(a.Status),
		map[string]string{"FromStatus": string(a.Status)})
}

// beginFinalising reserves the price from the fund, unless contributions
// were already reserved, and opens the notary window. A fund too small to
// pay defers the step by one block.
func (t *tx) beginFinalising(a asset.Asset) error {
	if _, reserved := t.state.Fund.Reservation(a.Key); !reserved {
		d := fund.ReserveForAcquisition(t.state.Fund, t.params().fundConfig(), a.Key, a.Price, t.block)
		if apperrors.HasCode(d.Err(), apperrors.CodeInsufficientFunds) {
			return t.apply(asset.DeferFinalising(t.state.Assets, a.Key, t.block+1, d.Rejections[0].Message))
		}
		if err := t.apply(d); err != nil {
			return err
		}
	}
	return t.apply(asset.Transition(t.state.Assets, t.params().assetConfig(), a.Key, asset.StatusFinalising, t.block))
}

// purchase settles the acquisition: the virtual account is opened and
// funded with tokens split by contribution, the seller is paid from the
// reservation and the NFT moves to the virtual account.
func (t *tx) purchase(a asset.Asset) error {
	reservation, ok := t.state.Fund.Reservation(a.Key)
	if !ok {
		return apperrors.New(apperrors.CodeNotFound, "no reservation for "+a.Key.String())
	}
	if owner, ok := t.ports().Assets.OwnerOf(a.Key); !ok || owner != a.Seller {
		return apperrors.New(apperrors.CodeNotAnAsset, a.Key.String()+" is no longer held by its seller")
	}
	if err := t.apply(ownership.OpenVirtualAccount(t.state.Ownership, a.Key)); err != nil {
		return err
	}
	if err := t.apply(ownership.IssueTokens(t.state.Ownership, a.Key, t.params().TokenSupply)); err != nil {
		return err
	}
	contributions := make([]ownership.Contribution, 0, len(reservation.Contributions))
	for _, c := range reservation.Contributions {
		contributions = append(contributions, ownership.Contribution{Account: c.Account, Amount: c.Amount})
	}
	if err := t.apply(ownership.Distribute(t.state.Ownership, a.Key, contributions)); err != nil {
		return err
	}
	if err := t.apply(fund.Consume(t.state.Fund, t.params().fundConfig(), a.Key, a.Seller)); err != nil {
		return err
	}
	va, _ := t.state.Ownership.VirtualAccount(a.Key)
	t.queue(effect.TransferAsset(a.Key, a.Seller, va.Account))
	return t.apply(asset.Transition(t.state.Assets, t.params().assetConfig(), a.Key, asset.StatusPurchased, t.block))
}

// runRentCheck splits the rent collected for the tenant's asset and asks
// for the next period.
func (t *tx) runRentCheck(tenant primitive.AccountID) error {
	reg, ok := t.state.Governance.Tenant(tenant)
	if !ok {
		return apperrors.New(apperrors.CodeNotFound, string(tenant)+" is not a tenant")
	}
	va, ok := t.state.Ownership.VirtualAccount(reg.Asset)
	if !ok {
		return apperrors.New(apperrors.CodeNotAnAsset, reg.Asset.String()+" has no virtual account")
	}
	holders := make([]rent.Holding, 0, len(va.Owners))
	for _, owner := range va.Owners {
		holders = append(holders, rent.Holding{Account: owner, Balance: t.state.Ownership.BalanceOf(va.TokenID, owner)})
	}
	return t.apply(rent.CheckRent(t.state.Rent, t.params().rentConfig(), tenant, reg.Asset, va.Account, reg.Rent, holders, va.Issued, t.block))
}
