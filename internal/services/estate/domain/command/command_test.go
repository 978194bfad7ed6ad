package command

import (
	"encoding/json"
	"errors"
	"testing"

	apperrors "github.com/louisbranch/fairsquares/internal/platform/errors"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/effect"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/port"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	if err := r.Register(Definition{
		Type:   "fund.contribute",
		Origin: OriginAccount,
		ValidatePayload: func(raw json.RawMessage) error {
			var p struct {
				Amount uint64 `json:"amount"`
			}
			if err := json.Unmarshal(raw, &p); err != nil {
				return err
			}
			if p.Amount == 0 {
				return errors.New("amount is required")
			}
			return nil
		},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(Definition{Type: "schedule.run", Origin: OriginSystem}); err != nil {
		t.Fatalf("register: %v", err)
	}
	return r
}

func TestRegisterValidation(t *testing.T) {
	r := newTestRegistry(t)
	if err := r.Register(Definition{Type: "fund.contribute", Origin: OriginAccount}); err == nil {
		t.Fatal("expected duplicate error")
	}
	if err := r.Register(Definition{Type: "x.y"}); err == nil {
		t.Fatal("expected origin error")
	}
	if err := r.Register(Definition{Origin: OriginSystem}); !errors.Is(err, ErrTypeRequired) {
		t.Fatalf("err = %v, want %v", err, ErrTypeRequired)
	}
}

func TestValidateForDecision(t *testing.T) {
	r := newTestRegistry(t)

	cmd, err := r.ValidateForDecision(Command{Type: " fund.contribute ", ActorID: " alice ", PayloadJSON: []byte(`{ "amount": 500 }`)})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cmd.Type != "fund.contribute" || cmd.ActorID != "alice" || string(cmd.PayloadJSON) != `{"amount":500}` {
		t.Fatalf("normalized = %+v (%s)", cmd, cmd.PayloadJSON)
	}

	system, err := r.ValidateForDecision(Command{Type: "schedule.run"})
	if err != nil {
		t.Fatalf("validate system: %v", err)
	}
	if string(system.PayloadJSON) != "{}" {
		t.Fatalf("payload = %s, want {}", system.PayloadJSON)
	}

	tests := []struct {
		name string
		cmd  Command
		want error
	}{
		{"missing type", Command{}, ErrTypeRequired},
		{"unknown", Command{Type: "fund.steal", ActorID: "x"}, ErrTypeUnknown},
		{"missing actor", Command{Type: "fund.contribute", PayloadJSON: []byte(`{"amount":1}`)}, ErrActorIDRequired},
		{"bad json", Command{Type: "fund.contribute", ActorID: "x", PayloadJSON: []byte(`{`)}, ErrPayloadInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.ValidateForDecision(tt.cmd); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if _, err := r.ValidateForDecision(Command{Type: "fund.contribute", ActorID: "x", PayloadJSON: []byte(`{"amount":0}`)}); err == nil {
		t.Fatal("expected payload validator error")
	}
}

func TestListDefinitionsSorted(t *testing.T) {
	defs := newTestRegistry(t).ListDefinitions()
	if len(defs) != 2 || defs[0].Type != "fund.contribute" || defs[1].Type != "schedule.run" {
		t.Fatalf("definitions = %+v", defs)
	}
	if _, ok := newTestRegistry(t).Definition("schedule.run"); !ok {
		t.Fatal("expected definition lookup")
	}
}

func TestDecisionHelpers(t *testing.T) {
	accepted := Accept(event.MustNew("fund.contributed", "fund", "alice", map[string]int{"amount": 1})).
		WithEffects(effect.Transfer("alice", "fund", 1, port.AllowDeath))
	if accepted.Rejected() || accepted.Err() != nil {
		t.Fatal("accepted decision must not be rejected")
	}
	if len(accepted.Events) != 1 || len(accepted.Effects) != 1 {
		t.Fatalf("decision = %+v", accepted)
	}

	rejected := Rejectf(apperrors.CodeContributionTooSmall, "minimum is %d", 100)
	if !rejected.Rejected() {
		t.Fatal("expected rejection")
	}
	err := rejected.Err()
	if !apperrors.HasCode(err, apperrors.CodeContributionTooSmall) || err.Error() != "minimum is 100" {
		t.Fatalf("err = %v", err)
	}

	withMeta := Reject(Rejection{Code: apperrors.CodeNotAnOwner, Message: "x", Metadata: map[string]string{"Asset": "1:1"}})
	var domainErr *apperrors.Error
	if !errors.As(withMeta.Err(), &domainErr) || domainErr.Metadata["Asset"] != "1:1" {
		t.Fatalf("err = %v", withMeta.Err())
	}
}
