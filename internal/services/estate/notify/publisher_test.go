package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
)

type published struct {
	subject string
	data    []byte
}

type fakeConn struct {
	messages []published
	err      error
}

func (c *fakeConn) Publish(subject string, data []byte) error {
	if c.err != nil {
		return c.err
	}
	c.messages = append(c.messages, published{subject: subject, data: data})
	return nil
}

func testEvent(seq uint64, typ event.Type) event.Event {
	return event.Event{
		Seq:         seq,
		Block:       12,
		Type:        typ,
		Timestamp:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		ActorID:     "alice",
		RequestID:   "req-1",
		EntityType:  "fund",
		EntityID:    "alice",
		PayloadJSON: []byte(`{"amount":100}`),
		Hash:        "abc",
	}
}

func TestPublisherSubjects(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{prefix: "", want: "fairsquares.estate.fund.contributed"},
		{prefix: "dev.estate.", want: "dev.estate.fund.contributed"},
		{prefix: " ops ", want: "ops.fund.contributed"},
	}
	for _, tt := range tests {
		p := NewPublisher(&fakeConn{}, tt.prefix, nil)
		if got := p.Subject("fund.contributed"); got != tt.want {
			t.Fatalf("Subject with prefix %q = %q, want %q", tt.prefix, got, tt.want)
		}
	}
}

func TestObservePublishesEventsInOrder(t *testing.T) {
	conn := &fakeConn{}
	p := NewPublisher(conn, "", nil)
	p.Observe(context.Background(), []event.Event{
		testEvent(1, "fund.contributed"),
		testEvent(2, "asset.submitted"),
	})

	if len(conn.messages) != 2 {
		t.Fatalf("published %d messages, want 2", len(conn.messages))
	}
	if conn.messages[1].subject != "fairsquares.estate.asset.submitted" {
		t.Fatalf("second subject = %q", conn.messages[1].subject)
	}

	var got Notification
	if err := json.Unmarshal(conn.messages[0].data, &got); err != nil {
		t.Fatalf("decode notification: %v", err)
	}
	if got.Seq != 1 || got.Block != 12 || got.Type != "fund.contributed" || got.RequestID != "req-1" {
		t.Fatalf("notification = %+v", got)
	}
	if string(got.Payload) != `{"amount":100}` {
		t.Fatalf("payload = %s, want %s", got.Payload, `{"amount":100}`)
	}
}

func TestObserveLogsPublishFailures(t *testing.T) {
	var logs []string
	conn := &fakeConn{err: errors.New("connection closed")}
	p := NewPublisher(conn, "", func(format string, args ...any) {
		logs = append(logs, fmt.Sprintf(format, args...))
	})
	p.Observe(context.Background(), []event.Event{testEvent(1, "fund.contributed"), testEvent(2, "fund.withdrawn")})

	if len(logs) != 2 {
		t.Fatalf("logged %d failures, want 2: %v", len(logs), logs)
	}
}
