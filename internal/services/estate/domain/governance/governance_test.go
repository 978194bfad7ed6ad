package governance

import (
	"testing"

	apperrors "github.com/louisbranch/fairsquares/internal/platform/errors"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/command"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

var house = primitive.AssetKey{Collection: 4, Item: 1}

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

func wantCode(t *testing.T, d command.Decision, code apperrors.Code) {
	t.Helper()
	if !apperrors.HasCode(d.Err(), code) {
		t.Fatalf("err = %v, want %s", d.Err(), code)
	}
}

func link(index primitive.ReferendumIndex, kind SessionKind, asset primitive.AssetKey) Link {
	return Link{Index: index, Kind: kind, Caller: "owner", Candidate: "rep", Account: "va-house", Asset: asset}
}

func TestOneRepresentativeSessionPerAsset(t *testing.T) {
	var state State
	state = apply(t, state, StartSession(state, link(0, SessionRepresentative, house)))

	wantCode(t, StartSession(state, link(1, SessionRepresentative, house)), apperrors.CodeSessionAlreadyOpen)
	wantCode(t, StartSession(state, link(1, SessionDemotion, house)), apperrors.CodeSessionAlreadyOpen)
	wantCode(t, CheckSessionAvailable(state, house, SessionRepresentative), apperrors.CodeSessionAlreadyOpen)
	wantCode(t, StartSession(state, link(0, SessionTenant, house)), apperrors.CodeDuplicatePreimage)

	if d := CheckSessionAvailable(state, house, SessionTenant); d.Rejected() {
		t.Fatalf("tenant sessions are not exclusive: %v", d.Err())
	}
	state = apply(t, state, StartSession(state, link(1, SessionTenant, house)))
	state = apply(t, state, StartSession(state, link(2, SessionRepresentative, primitive.AssetKey{Collection: 4, Item: 2})))

	state = apply(t, state, Conclude(state, 0, false))
	archived, ok := state.Link(0)
	if !ok || archived.Approved {
		t.Fatalf("archived link = %+v, %v", archived, ok)
	}
	if _, open := state.Links[0]; open {
		t.Fatal("concluded session must leave the open set")
	}
	state = apply(t, state, StartSession(state, link(3, SessionRepresentative, house)))
	wantCode(t, Conclude(state, 0, true), apperrors.CodeNotFound)
	wantCode(t, StartSession(state, link(0, SessionRepresentative, primitive.AssetKey{Collection: 9})), apperrors.CodeDuplicatePreimage)
}

func TestRepresentativeAccumulatesAssetAccounts(t *testing.T) {
	var state State
	state = apply(t, state, ApproveRepresentative(state, "rep", "va-1", 10))
	state = apply(t, state, ApproveRepresentative(state, "rep", "va-2", 20))
	state = apply(t, state, ApproveRepresentative(state, "rep", "va-1", 30))

	rep, _ := state.Representative("rep")
	if len(rep.AssetAccounts) != 3 || !rep.Active || rep.Since != 10 {
		t.Fatalf("representative = %+v", rep)
	}

	state = apply(t, state, DemoteRepresentative(state, "rep", "va-1", 40))
	rep, _ = state.Representative("rep")
	if len(rep.AssetAccounts) != 1 || rep.AssetAccounts[0] != "va-2" || !rep.Active {
		t.Fatalf("representative = %+v", rep)
	}
	state = apply(t, state, DemoteRepresentative(state, "rep", "va-2", 41))
	rep, _ = state.Representative("rep")
	if rep.Active {
		t.Fatal("representative without assets must be inactive")
	}
	wantCode(t, DemoteRepresentative(state, "rep", "va-2", 42), apperrors.CodeNotFound)
}

func TestTenantRegistration(t *testing.T) {
	var state State
	wantCode(t, ActivateTenant(state, "tenant"), apperrors.CodeNotFound)
	state = apply(t, state, ApproveTenant(state, "tenant", house, "va-house", 400, 77))

	tenant, ok := state.Tenant("tenant")
	if !ok || tenant.Active || tenant.ContractStart != 77 || tenant.Rent != 400 || tenant.AssetAccount != "va-house" {
		t.Fatalf("tenant = %+v, %v", tenant, ok)
	}
	wantCode(t, ApproveTenant(state, "tenant", primitive.AssetKey{Collection: 5}, "va-other", 1, 80), apperrors.CodeAlreadyWaiting)

	state = apply(t, state, ActivateTenant(state, "tenant"))
	if tenant, _ := state.Tenant("tenant"); !tenant.Active {
		t.Fatal("tenant not activated")
	}
}

func TestCloneIsDeep(t *testing.T) {
	var state State
	state = apply(t, state, ApproveRepresentative(state, "rep", "va-1", 1))
	clone := state.Clone()
	rep := clone.Representatives["rep"]
	rep.AssetAccounts[0] = "va-x"
	if state.Representatives["rep"].AssetAccounts[0] != "va-1" {
		t.Fatal("clone shares asset accounts")
	}
}
