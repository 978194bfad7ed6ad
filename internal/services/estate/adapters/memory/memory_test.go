package memory

import (
	"testing"

	apperrors "github.com/louisbranch/fairsquares/internal/platform/errors"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/port"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

func TestCurrencyTransfer(t *testing.T) {
	c := NewCurrency(10)
	c.MakeFreeBalanceBe("alice", 100)

	if err := c.Transfer("alice", "bob", 60, port.KeepAlive); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if got := c.FreeBalance("alice"); got != 40 {
		t.Fatalf("alice = %d, want 40", got)
	}
	if got := c.FreeBalance("bob"); got != 60 {
		t.Fatalf("bob = %d, want 60", got)
	}

	err := c.Transfer("alice", "bob", 35, port.KeepAlive)
	if !apperrors.HasCode(err, apperrors.CodeInsufficientFunds) {
		t.Fatalf("keep-alive err = %v, want %s", err, apperrors.CodeInsufficientFunds)
	}
	if got := c.FreeBalance("alice"); got != 40 {
		t.Fatalf("failed transfer moved funds: alice = %d", got)
	}

	if err := c.Transfer("alice", "bob", 35, port.AllowDeath); err != nil {
		t.Fatalf("allow-death transfer: %v", err)
	}
	if got := c.FreeBalance("alice"); got != 0 {
		t.Fatalf("alice dust = %d, want reaped", got)
	}
	if got := c.TotalIssuance(); got != 95 {
		t.Fatalf("issuance = %d, want 95 after reaping dust", got)
	}

	if err := c.Transfer("carol", "bob", 1, port.AllowDeath); !apperrors.HasCode(err, apperrors.CodeInsufficientFunds) {
		t.Fatalf("err = %v, want insufficient funds", err)
	}
}

func TestCurrencyReserveUnreserve(t *testing.T) {
	c := NewCurrency(1)
	c.MakeFreeBalanceBe("fund", 500)

	if err := c.Reserve("fund", 300); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if c.FreeBalance("fund") != 200 || c.ReservedBalance("fund") != 300 {
		t.Fatalf("free=%d reserved=%d", c.FreeBalance("fund"), c.ReservedBalance("fund"))
	}
	if err := c.Reserve("fund", 201); !apperrors.HasCode(err, apperrors.CodeInsufficientFunds) {
		t.Fatalf("err = %v, want insufficient funds", err)
	}
	if err := c.Unreserve("fund", 301); !apperrors.HasCode(err, apperrors.CodeInsufficientFunds) {
		t.Fatalf("err = %v, want insufficient funds", err)
	}
	if err := c.Unreserve("fund", 300); err != nil {
		t.Fatalf("unreserve: %v", err)
	}
	if c.FreeBalance("fund") != 500 || c.ReservedBalance("fund") != 0 {
		t.Fatalf("free=%d reserved=%d", c.FreeBalance("fund"), c.ReservedBalance("fund"))
	}
}

func TestRolesWaitingList(t *testing.T) {
	r := NewRoles()
	if err := r.Approve("dave", primitive.RoleRepresentative); !apperrors.HasCode(err, apperrors.CodeNotInWaitingList) {
		t.Fatalf("err = %v, want not in waiting list", err)
	}
	if err := r.RegisterPending("dave", primitive.RoleRepresentative); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.RegisterPending("dave", primitive.RoleRepresentative); !apperrors.HasCode(err, apperrors.CodeAlreadyWaiting) {
		t.Fatalf("err = %v, want already waiting", err)
	}
	if !r.IsPending("dave", primitive.RoleRepresentative) || r.HasRole("dave", primitive.RoleRepresentative) {
		t.Fatal("expected pending role")
	}
	if err := r.Approve("dave", primitive.RoleRepresentative); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !r.HasRole("dave", primitive.RoleRepresentative) || r.IsPending("dave", primitive.RoleRepresentative) {
		t.Fatal("expected approved role")
	}
	if err := r.Approve("dave", primitive.RoleRepresentative); err != nil {
		t.Fatalf("re-approve: %v", err)
	}
	if err := r.RegisterPending("dave", primitive.Role("pilot")); !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
}

func TestAssetsMintAndTransfer(t *testing.T) {
	a := NewAssets()
	key := primitive.AssetKey{Collection: 1, Item: 1}
	if err := a.Transfer(key, "va"); !apperrors.HasCode(err, apperrors.CodeNotAnAsset) {
		t.Fatalf("err = %v, want not an asset", err)
	}
	if err := a.Mint(key, "sam", "ipfs://house"); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := a.Mint(key, "sam", ""); !apperrors.HasCode(err, apperrors.CodeAssetAlreadyOwned) {
		t.Fatalf("err = %v, want already owned", err)
	}
	if err := a.Transfer(key, "va"); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	owner, ok := a.OwnerOf(key)
	if !ok || owner != "va" {
		t.Fatalf("owner = %q, %v", owner, ok)
	}
	if meta, _ := a.Metadata(key); meta != "ipfs://house" {
		t.Fatalf("metadata = %q", meta)
	}
}

func TestIdentityJudgements(t *testing.T) {
	i := NewIdentity()
	if got := i.JudgementOf("tina"); got != primitive.JudgementUnknown {
		t.Fatalf("judgement = %s, want unknown", got)
	}
	if err := i.ProvideJudgement("tina", primitive.JudgementReasonable); err != nil {
		t.Fatalf("provide: %v", err)
	}
	if got := i.JudgementOf("tina"); got != primitive.JudgementReasonable {
		t.Fatalf("judgement = %s, want reasonable", got)
	}
	if err := i.ProvideJudgement("tina", primitive.Judgement("great")); err == nil {
		t.Fatal("expected invalid judgement error")
	}
}
