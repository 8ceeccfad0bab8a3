package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/merchguard/merchguard/engine/domain"
	"github.com/nats-io/nats.go"
)

func TestCompletedEvent(t *testing.T) {
	id := uuid.New()
	event := Completed(id, domain.TradeSafetyAnalysis{SafeScore: 25})

	if event.CheckID != id {
		t.Errorf("check_id = %s", event.CheckID)
	}
	if event.Verdict != domain.VerdictDanger {
		t.Errorf("verdict = %q, want danger for score 25", event.Verdict)
	}
	if event.OccurredAt.IsZero() {
		t.Error("occurred_at must be set")
	}

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded CheckEvent
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.SafeScore != 25 || decoded.Error != "" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestFailedEvent(t *testing.T) {
	event := Failed(uuid.New(), "model unavailable")
	if event.Error != "model unavailable" {
		t.Errorf("error = %q", event.Error)
	}
	if event.Verdict != "" || event.SafeScore != 0 {
		t.Errorf("failed event must not carry a verdict: %+v", event)
	}
}

func TestNilPublisherIsNoop(t *testing.T) {
	var p *Publisher
	if err := p.Publish(context.Background(), SubjectCheckCompleted, CheckEvent{}); err != nil {
		t.Fatalf("nil publisher must not error: %v", err)
	}
	p.Close()
}

func TestHeaderCarrier(t *testing.T) {
	msg := &nats.Msg{}
	c := (*natsHeaderCarrier)(msg)

	if c.Get("traceparent") != "" {
		t.Error("empty carrier must return empty values")
	}
	if c.Keys() != nil {
		t.Error("empty carrier must have no keys")
	}

	c.Set("traceparent", "00-abc-def-01")
	if got := c.Get("traceparent"); got != "00-abc-def-01" {
		t.Errorf("get = %q", got)
	}
	if len(c.Keys()) != 1 {
		t.Errorf("keys = %v", c.Keys())
	}
	if msg.Header.Get("traceparent") == "" {
		t.Error("carrier must write through to the message headers")
	}
}
