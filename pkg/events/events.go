// Package events publishes check lifecycle notifications over NATS with
// OpenTelemetry trace propagation, so downstream consumers (alerting,
// stats) can react without polling the API.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/merchguard/merchguard/engine/domain"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
)

// Subjects for check lifecycle events.
const (
	SubjectCheckCompleted = "checks.completed"
	SubjectCheckFailed    = "checks.failed"
)

// CheckEvent is the payload published when a check finishes.
type CheckEvent struct {
	CheckID    uuid.UUID      `json:"check_id"`
	SafeScore  int            `json:"safe_score,omitempty"`
	Verdict    domain.Verdict `json:"verdict,omitempty"`
	Error      string         `json:"error,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Completed builds the event for a successful check.
func Completed(checkID uuid.UUID, a domain.TradeSafetyAnalysis) CheckEvent {
	return CheckEvent{
		CheckID:    checkID,
		SafeScore:  a.SafeScore,
		Verdict:    domain.VerdictFor(a.SafeScore),
		OccurredAt: time.Now().UTC(),
	}
}

// Failed builds the event for a failed check.
func Failed(checkID uuid.UUID, errMsg string) CheckEvent {
	return CheckEvent{
		CheckID:    checkID,
		Error:      errMsg,
		OccurredAt: time.Now().UTC(),
	}
}

// natsHeaderCarrier adapts nats.Msg headers for OTel TextMapCarrier.
type natsHeaderCarrier nats.Msg

func (c *natsHeaderCarrier) Get(key string) string {
	if c.Header == nil {
		return ""
	}
	return c.Header.Get(key)
}

func (c *natsHeaderCarrier) Set(key, val string) {
	if c.Header == nil {
		c.Header = make(nats.Header)
	}
	c.Header.Set(key, val)
}

func (c *natsHeaderCarrier) Keys() []string {
	if c.Header == nil {
		return nil
	}
	keys := make([]string, 0, len(c.Header))
	for k := range c.Header {
		keys = append(keys, k)
	}
	return keys
}

// Publisher publishes check events. A nil Publisher is a no-op, so the
// API can run without a broker in development.
type Publisher struct {
	nc *nats.Conn
}

// NewPublisher connects to the NATS server at url.
func NewPublisher(url string) (*Publisher, error) {
	nc, err := nats.Connect(url, nats.Name("merchguard-api"))
	if err != nil {
		return nil, err
	}
	return &Publisher{nc: nc}, nil
}

// Close drains the connection.
func (p *Publisher) Close() {
	if p == nil || p.nc == nil {
		return
	}
	p.nc.Drain()
}

// Publish sends the event on the given subject. Trace context from ctx
// is injected into the message headers.
func (p *Publisher) Publish(ctx context.Context, subject string, event CheckEvent) error {
	if p == nil || p.nc == nil {
		return nil
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := &nats.Msg{Subject: subject, Data: data}
	otel.GetTextMapPropagator().Inject(ctx, (*natsHeaderCarrier)(msg))
	return p.nc.PublishMsg(msg)
}

// Subscribe registers a handler for check events on the given subject.
// Trace context is extracted from message headers; malformed messages
// are dropped.
func Subscribe(nc *nats.Conn, subject string, handler func(context.Context, CheckEvent)) (*nats.Subscription, error) {
	return nc.Subscribe(subject, func(msg *nats.Msg) {
		var event CheckEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			return
		}
		ctx := otel.GetTextMapPropagator().Extract(context.Background(), (*natsHeaderCarrier)(msg))
		handler(ctx, event)
	})
}
