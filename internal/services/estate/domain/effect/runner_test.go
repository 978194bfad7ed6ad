package effect

import (
	"errors"
	"strings"
	"testing"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/port"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
	"github.com/louisbranch/fairsquares/internal/testkit/estatefakes"
)

func newPorts() (Ports, estatefakes.Collaborators) {
	fakes := estatefakes.NewCollaborators()
	return Ports{
		Roles:    fakes.Roles,
		Assets:   fakes.Assets,
		Identity: fakes.Identity,
		Currency: fakes.Currency,
	}, fakes
}

func TestRunAppliesInOrder(t *testing.T) {
	ports, fakes := newPorts()
	fakes.Currency.MakeFreeBalanceBe("fund", 1000)
	asset := primitive.AssetKey{Collection: 1, Item: 2}
	if err := fakes.Assets.Mint(asset, "seller", ""); err != nil {
		t.Fatalf("mint: %v", err)
	}
	fakes.Roles.RegisterPending("rep", primitive.RoleRepresentative)

	err := Run(ports, []Effect{
		Reserve("fund", 400),
		Unreserve("fund", 400),
		Transfer("fund", "seller", 400, port.AllowDeath),
		TransferAsset(asset, "seller", "va"),
		ProvideJudgement("tina", primitive.JudgementKnownGood),
		ApproveRole("rep", primitive.RoleRepresentative),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := fakes.Currency.FreeBalance("seller"); got != 400 {
		t.Fatalf("seller = %d, want 400", got)
	}
	if owner, _ := fakes.Assets.OwnerOf(asset); owner != "va" {
		t.Fatalf("owner = %s, want va", owner)
	}
	if got := fakes.Identity.JudgementOf("tina"); got != primitive.JudgementKnownGood {
		t.Fatalf("judgement = %s", got)
	}
	if !fakes.Roles.HasRole("rep", primitive.RoleRepresentative) {
		t.Fatal("expected approved representative")
	}
	calls := fakes.Currency.Calls()
	want := []string{"reserve fund 400", "unreserve fund 400", "transfer fund seller 400"}
	if strings.Join(calls, "|") != strings.Join(want, "|") {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
}

func TestRunCompensatesOnFailure(t *testing.T) {
	ports, fakes := newPorts()
	fakes.Currency.MakeFreeBalanceBe("fund", 1000)
	asset := primitive.AssetKey{Collection: 1, Item: 2}
	if err := fakes.Assets.Mint(asset, "seller", ""); err != nil {
		t.Fatalf("mint: %v", err)
	}
	boom := errors.New("boom")
	fakes.Assets.FailOn("transfer 1:2 va", boom)

	err := Run(ports, []Effect{
		Reserve("fund", 300),
		Transfer("fund", "seller", 200, port.AllowDeath),
		TransferAsset(asset, "seller", "va"),
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if got := fakes.Currency.FreeBalance("fund"); got != 1000 {
		t.Fatalf("fund free = %d, want 1000 after compensation", got)
	}
	if got := fakes.Currency.ReservedBalance("fund"); got != 0 {
		t.Fatalf("fund reserved = %d, want 0 after compensation", got)
	}
	if got := fakes.Currency.FreeBalance("seller"); got != 0 {
		t.Fatalf("seller = %d, want 0 after compensation", got)
	}
	calls := fakes.Currency.Calls()
	want := []string{"reserve fund 300", "transfer fund seller 200", "transfer seller fund 200", "unreserve fund 300"}
	if strings.Join(calls, "|") != strings.Join(want, "|") {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
}

func TestInverse(t *testing.T) {
	asset := primitive.AssetKey{Collection: 4, Item: 5}
	tests := []struct {
		in   Effect
		want Effect
		ok   bool
	}{
		{Transfer("a", "b", 5, port.KeepAlive), Transfer("b", "a", 5, port.AllowDeath), true},
		{Reserve("a", 5), Unreserve("a", 5), true},
		{Unreserve("a", 5), Reserve("a", 5), true},
		{TransferAsset(asset, "a", "b"), TransferAsset(asset, "b", "a"), true},
		{ProvideJudgement("a", primitive.JudgementReasonable), Effect{}, false},
		{ApproveRole("a", primitive.RoleTenant), Effect{}, false},
	}
	for _, tt := range tests {
		got, ok := Inverse(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("Inverse(%s) = %+v, %v; want %+v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRunRequiresCollaborator(t *testing.T) {
	err := Run(Ports{}, []Effect{Transfer("a", "b", 1, port.AllowDeath)})
	if err == nil || !strings.Contains(err.Error(), "currency collaborator") {
		t.Fatalf("err = %v, want missing collaborator", err)
	}
}
