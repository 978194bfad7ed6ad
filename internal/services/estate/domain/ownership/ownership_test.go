package ownership

import (
	"strings"
	"testing"

	apperrors "github.com/louisbranch/fairsquares/internal/platform/errors"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/command"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

var house = primitive.AssetKey{Collection: 7, Item: 3}

func apply(t *testing.T, state State, d command.Decision) State {
	t.Helper()
	if d.Rejected() {
		t.Fatalf("unexpected rejection: %v", d.Err())
	}
	registry := event.NewRegistry()
	if err := RegisterEvents(registry); err != nil {
		t.Fatalf("register events: %v", err)
	}
	for _, evt := range d.Events {
		vetted, err := registry.ValidateForAppend(evt)
		if err != nil {
			t.Fatalf("validate %s: %v", evt.Type, err)
		}
		if state, err = Fold(state, vetted); err != nil {
			t.Fatalf("fold %s: %v", evt.Type, err)
		}
	}
	return state
}

func issued(t *testing.T, supply primitive.Balance) State {
	t.Helper()
	var state State
	state = apply(t, state, OpenVirtualAccount(state, house))
	return apply(t, state, IssueTokens(state, house, supply))
}

func TestDeriveAccountIsStable(t *testing.T) {
	a := DeriveAccount(house)
	if a != DeriveAccount(primitive.AssetKey{Collection: 7, Item: 3}) {
		t.Fatal("derivation is not deterministic")
	}
	if a == DeriveAccount(primitive.AssetKey{Collection: 3, Item: 7}) {
		t.Fatal("collection and item must not commute")
	}
	if !strings.HasPrefix(string(a), "va-") || len(a) != 43 {
		t.Fatalf("account = %q, want va- plus 40 hex chars", a)
	}
}

func TestOpenVirtualAccountOnce(t *testing.T) {
	var state State
	state = apply(t, state, OpenVirtualAccount(state, house))
	va, ok := state.VirtualAccount(house)
	if !ok || va.Account != DeriveAccount(house) {
		t.Fatalf("virtual account = %+v, %v", va, ok)
	}
	if asset, ok := state.AssetOfAccount(va.Account); !ok || asset != house {
		t.Fatalf("asset of account = %v, %v", asset, ok)
	}
	if d := OpenVirtualAccount(state, house); !apperrors.HasCode(d.Err(), apperrors.CodeAssetAlreadyOwned) {
		t.Fatalf("err = %v, want asset already owned", d.Err())
	}
}

func TestTokenIdsAreSequential(t *testing.T) {
	var state State
	state = apply(t, state, OpenVirtualAccount(state, house))
	other := primitive.AssetKey{Collection: 7, Item: 4}
	state = apply(t, state, OpenVirtualAccount(state, other))
	if state.Accounts[house].TokenID == state.Accounts[other].TokenID {
		t.Fatal("token ids must differ between assets")
	}
}

func TestIssueTokens(t *testing.T) {
	if d := IssueTokens(State{}, house, 1000); !apperrors.HasCode(d.Err(), apperrors.CodeNotAnAsset) {
		t.Fatalf("err = %v, want not an asset", d.Err())
	}
	state := issued(t, 1000)
	va := state.Accounts[house]
	if got := state.BalanceOf(va.TokenID, va.Account); got != 1000 {
		t.Fatalf("virtual account balance = %d, want 1000", got)
	}
	if d := IssueTokens(state, house, 1000); !apperrors.HasCode(d.Err(), apperrors.CodeTokensAlreadyIssued) {
		t.Fatalf("err = %v, want tokens already issued", d.Err())
	}
}

func TestDistributeSplitsByContribution(t *testing.T) {
	state := issued(t, 1000)
	state = apply(t, state, Distribute(state, house, []Contribution{
		{Account: "bob", Amount: 15000},
		{Account: "alice", Amount: 25000},
	}))

	va := state.Accounts[house]
	if got := state.BalanceOf(va.TokenID, "alice"); got != 625 {
		t.Fatalf("alice = %d, want 625", got)
	}
	if got := state.BalanceOf(va.TokenID, "bob"); got != 375 {
		t.Fatalf("bob = %d, want 375", got)
	}
	if got := state.BalanceOf(va.TokenID, va.Account); got != 0 {
		t.Fatalf("virtual account keeps %d, want 0", got)
	}
	if len(va.Owners) != 2 || va.Owners[0] != "alice" || va.Owners[1] != "bob" {
		t.Fatalf("owners = %v", va.Owners)
	}
	if d := Distribute(state, house, []Contribution{{Account: "carol", Amount: 1}}); !apperrors.HasCode(d.Err(), apperrors.CodeTokensAlreadyIssued) {
		t.Fatalf("err = %v, want tokens already issued", d.Err())
	}
}

func TestDistributeKeepsRemainderAndDropsZeroShares(t *testing.T) {
	state := issued(t, 1000)
	d := Distribute(state, house, []Contribution{
		{Account: "alice", Amount: 1},
		{Account: "bob", Amount: 1},
		{Account: "carol", Amount: 1},
		{Account: "dust", Amount: 0},
	})
	state = apply(t, state, d)

	var payload DistributedPayload
	if err := d.Events[0].Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Remainder != 1 {
		t.Fatalf("remainder = %d, want 1", payload.Remainder)
	}
	va := state.Accounts[house]
	var total primitive.Balance
	for _, owner := range va.Owners {
		total += state.BalanceOf(va.TokenID, owner)
	}
	if total != 999 || state.BalanceOf(va.TokenID, va.Account) != 1 {
		t.Fatalf("distributed %d, virtual account %d", total, state.BalanceOf(va.TokenID, va.Account))
	}
	if state.IsOwner(house, "dust") {
		t.Fatal("zero share must not make an owner")
	}
	if !state.IsOwner(house, "carol") || state.OwnerBalance(house, "carol") != 333 {
		t.Fatalf("carol owner=%v balance=%d", state.IsOwner(house, "carol"), state.OwnerBalance(house, "carol"))
	}
}

func TestCloneIsDeep(t *testing.T) {
	state := issued(t, 1000)
	state = apply(t, state, Distribute(state, house, []Contribution{{Account: "alice", Amount: 5}}))
	clone := state.Clone()
	va := clone.Accounts[house]
	va.Owners[0] = "mallory"
	clone.Balances[va.TokenID]["alice"] = 0

	if state.Accounts[house].Owners[0] != "alice" {
		t.Fatal("clone shares owners")
	}
	if state.OwnerBalance(house, "alice") != 1000 {
		t.Fatal("clone shares balances")
	}
}
