package event

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

type testPayload struct {
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	if err := r.Register(Definition{
		Type:    "fund.contributed",
		Exposed: true,
		ValidatePayload: func(raw json.RawMessage) error {
			var p testPayload
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
	if err := r.Register(Definition{Type: "fund.withdrawn"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	return r
}

func TestRegisterRejectsDuplicatesAndBlank(t *testing.T) {
	r := newTestRegistry(t)
	if err := r.Register(Definition{Type: "fund.contributed"}); err == nil {
		t.Fatal("expected duplicate registration error")
	}
	if err := r.Register(Definition{Type: "  "}); !errors.Is(err, ErrTypeRequired) {
		t.Fatalf("err = %v, want %v", err, ErrTypeRequired)
	}
}

func TestValidateForAppendCanonicalizesPayload(t *testing.T) {
	r := newTestRegistry(t)
	evt, err := r.ValidateForAppend(Event{
		Type:        " fund.contributed ",
		EntityType:  "fund",
		EntityID:    "alice",
		PayloadJSON: []byte(`{"amount": 18446744073709551615, "account": "alice"}`),
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if evt.Type != "fund.contributed" {
		t.Fatalf("type = %q", evt.Type)
	}
	want := `{"account":"alice","amount":18446744073709551615}`
	if string(evt.PayloadJSON) != want {
		t.Fatalf("payload = %s, want %s", evt.PayloadJSON, want)
	}
}

func TestValidateForAppendErrors(t *testing.T) {
	r := newTestRegistry(t)
	tests := []struct {
		name string
		evt  Event
		want error
	}{
		{"missing type", Event{EntityType: "fund"}, ErrTypeRequired},
		{"unknown type", Event{Type: "fund.unknown", EntityType: "fund"}, ErrTypeUnknown},
		{"missing entity", Event{Type: "fund.withdrawn"}, ErrEntityTypeRequired},
		{"bad json", Event{Type: "fund.withdrawn", EntityType: "fund", PayloadJSON: []byte("{")}, ErrPayloadInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.ValidateForAppend(tt.evt); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	_, err := r.ValidateForAppend(MustNew("fund.contributed", "fund", "alice", testPayload{Account: "alice"}))
	if err == nil || !strings.Contains(err.Error(), "amount is required") {
		t.Fatalf("err = %v, want payload validator error", err)
	}
}

func TestExposedAndList(t *testing.T) {
	r := newTestRegistry(t)
	if !r.Exposed("fund.contributed") || r.Exposed("fund.withdrawn") || r.Exposed("missing") {
		t.Fatal("unexpected exposure")
	}
	defs := r.ListDefinitions()
	if len(defs) != 2 || defs[0].Type != "fund.contributed" || defs[1].Type != "fund.withdrawn" {
		t.Fatalf("definitions = %+v", defs)
	}
}

func TestMustNewPanicsOnUnserializablePayload(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustNew("fund.withdrawn", "fund", "x", func() {})
}

func TestChainAndVerify(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var events []Event
	prev := ""
	for i, amount := range []uint64{100, 200, 300} {
		evt := MustNew("fund.contributed", "fund", "alice", testPayload{Account: "alice", Amount: amount})
		evt.Block = 7
		evt.Timestamp = ts
		chained, err := Chain(evt, uint64(i+1), prev)
		if err != nil {
			t.Fatalf("chain: %v", err)
		}
		prev = chained.ChainHash
		events = append(events, chained)
	}
	if err := VerifyChain(events); err != nil {
		t.Fatalf("verify: %v", err)
	}

	tampered := append([]Event(nil), events...)
	tampered[1].PayloadJSON = []byte(`{"account":"alice","amount":999}`)
	if err := VerifyChain(tampered); err == nil {
		t.Fatal("expected tampered payload to fail verification")
	}

	gap := []Event{events[0], events[2]}
	if err := VerifyChain(gap); err == nil {
		t.Fatal("expected seq gap to fail verification")
	}
}

func TestContentHashIgnoresKeyOrder(t *testing.T) {
	a := Event{Type: "fund.withdrawn", EntityType: "fund", PayloadJSON: []byte(`{"a":1,"b":2}`)}
	b := Event{Type: "fund.withdrawn", EntityType: "fund", PayloadJSON: []byte(`{"b":2,"a":1}`)}
	ha, err := ContentHash(a)
	if err != nil {
		t.Fatalf("hash a: %v", err)
	}
	hb, err := ContentHash(b)
	if err != nil {
		t.Fatalf("hash b: %v", err)
	}
	if ha != hb {
		t.Fatalf("hashes differ: %s vs %s", ha, hb)
	}
}
