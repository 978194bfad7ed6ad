package asset

import (
	"testing"

	apperrors "github.com/louisbranch/fairsquares/internal/platform/errors"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/command"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

var (
	testConfig = Config{OnboardedWindow: 5, FinalisedWindow: 5, RentBasisPoints: 100}
	house      = primitive.AssetKey{Collection: 2, Item: 9}
)

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

func submitted(t *testing.T) State {
	t.Helper()
	var state State
	return apply(t, state, Submit(state, house, "seller", 40000, "2br flat", "hash", 1))
}

func TestSubmit(t *testing.T) {
	state := submitted(t)
	a, ok := state.Get(house)
	if !ok || a.Status != StatusReviewing || a.Price != 40000 || a.Seller != "seller" {
		t.Fatalf("asset = %+v, %v", a, ok)
	}
	wantCode(t, Submit(state, house, "seller", 1, "", "hash", 2), apperrors.CodeAssetAlreadyOwned)
	wantCode(t, Submit(State{}, house, "seller", 0, "", "hash", 2), apperrors.CodeAmountInvalid)
}

func TestLifecycleFollowsPipeline(t *testing.T) {
	state := submitted(t)
	steps := []struct {
		to    Status
		block primitive.BlockNumber
		due   primitive.BlockNumber
	}{
		{StatusVoting, 10, 0},
		{StatusOnboarded, 40, 45},
		{StatusFinalising, 45, 0},
		{StatusFinalised, 47, 52},
		{StatusPurchased, 52, 0},
	}
	for _, step := range steps {
		state = apply(t, state, Transition(state, testConfig, house, step.to, step.block))
		task, scheduled := state.Agenda.Get(house.String())
		if step.due == 0 && scheduled {
			t.Fatalf("%s: unexpected task %+v", step.to, task)
		}
		if step.due != 0 && (!scheduled || task.Due != step.due) {
			t.Fatalf("%s: task = %+v, %v; want due %d", step.to, task, scheduled, step.due)
		}
	}
	a := state.Assets[house]
	if a.Status != StatusPurchased || a.Rent != 400 {
		t.Fatalf("asset = %+v, want purchased with rent 400", a)
	}
}

func TestTransitionRejectsSkipsAndLateRejection(t *testing.T) {
	state := submitted(t)
	wantCode(t, Transition(state, testConfig, house, StatusOnboarded, 2), apperrors.CodeInvalidStatusTransition)
	wantCode(t, Transition(state, testConfig, primitive.AssetKey{}, StatusVoting, 2), apperrors.CodeNotFound)

	state = apply(t, state, Transition(state, testConfig, house, StatusVoting, 2))
	state = apply(t, state, Transition(state, testConfig, house, StatusOnboarded, 3))
	wantCode(t, Transition(state, testConfig, house, StatusRejected, 4), apperrors.CodeInvalidStatusTransition)

	d := Transition(state, testConfig, house, StatusFinalised, 4)
	var rejection command.Rejection
	if len(d.Rejections) == 1 {
		rejection = d.Rejections[0]
	}
	if rejection.Metadata["FromStatus"] != "onboarded" || rejection.Metadata["ToStatus"] != "finalised" {
		t.Fatalf("metadata = %v", rejection.Metadata)
	}
}

func TestRejectionHaltsAutomaticSteps(t *testing.T) {
	for _, from := range []Status{StatusReviewing, StatusVoting} {
		state := submitted(t)
		if from == StatusVoting {
			state = apply(t, state, Transition(state, testConfig, house, StatusVoting, 2))
		}
		state = apply(t, state, Transition(state, testConfig, house, StatusRejected, 3))
		if state.Assets[house].Status != StatusRejected || state.Agenda.Len() != 0 {
			t.Fatalf("from %s: status %s, agenda %v", from, state.Assets[house].Status, state.Agenda.Tasks())
		}
		for _, to := range []Status{StatusVoting, StatusOnboarded, StatusReviewing} {
			wantCode(t, Transition(state, testConfig, house, to, 4), apperrors.CodeInvalidStatusTransition)
		}
	}
}

func TestDeferFinalisingReschedules(t *testing.T) {
	state := submitted(t)
	state = apply(t, state, Transition(state, testConfig, house, StatusVoting, 2))
	state = apply(t, state, Transition(state, testConfig, house, StatusOnboarded, 3))
	state = apply(t, state, DeferFinalising(state, house, 9, "insufficient funds"))
	if task, _ := state.Agenda.Get(house.String()); task.Due != 9 {
		t.Fatalf("task due %d, want 9", task.Due)
	}
	state = apply(t, state, Transition(state, testConfig, house, StatusFinalising, 9))
	wantCode(t, DeferFinalising(state, house, 10, ""), apperrors.CodeInvalidStatusTransition)
}

func purchased(t *testing.T) State {
	t.Helper()
	state := submitted(t)
	for _, to := range []Status{StatusVoting, StatusOnboarded, StatusFinalising, StatusFinalised, StatusPurchased} {
		state = apply(t, state, Transition(state, testConfig, house, to, 2))
	}
	return state
}

func TestTenancyRequests(t *testing.T) {
	wantCode(t, RequestTenancy(submitted(t), house, "tenant"), apperrors.CodeNotAnAsset)

	state := purchased(t)
	state = apply(t, state, RequestTenancy(state, house, "tenant"))
	wantCode(t, RequestTenancy(state, house, "tenant"), apperrors.CodeAlreadyWaiting)
	wantCode(t, AddTenant(state, house, "stranger"), apperrors.CodeNotInWaitingList)

	state = apply(t, state, AddTenant(state, house, "tenant"))
	a := state.Assets[house]
	if len(a.Waiting) != 0 || len(a.Tenants) != 1 || a.Tenants[0] != "tenant" {
		t.Fatalf("waiting=%v tenants=%v", a.Waiting, a.Tenants)
	}
	wantCode(t, RequestTenancy(state, house, "tenant"), apperrors.CodeAlreadyWaiting)
}

func TestRepresentative(t *testing.T) {
	state := purchased(t)
	wantCode(t, ClearRepresentative(state, house), apperrors.CodeNotFound)
	state = apply(t, state, SetRepresentative(state, house, "rep"))
	if state.Assets[house].Representative != "rep" {
		t.Fatal("representative not set")
	}
	state = apply(t, state, ClearRepresentative(state, house))
	if state.Assets[house].Representative != "" {
		t.Fatal("representative not cleared")
	}
}
