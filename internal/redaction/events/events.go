// Package events publishes agreement domain events raised by the redaction
// pipeline.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"ahwr/internal/redaction/models"
)

// FlagCreatedType is the event type raised when a flag is attached to an
// agreement.
const FlagCreatedType = "agreement.flag.created"

// FlagCreated is the payload of an agreement.flag.created event. EventID is
// derived from the flag so a republished event can be recognised downstream.
type FlagCreated struct {
	EventID                uuid.UUID `json:"eventId"`
	Type                   string    `json:"type"`
	FlagID                 uuid.UUID `json:"flagId"`
	ApplicationReference   string    `json:"applicationReference"`
	SBI                    string    `json:"sbi"`
	Note                   string    `json:"note"`
	CreatedBy              string    `json:"createdBy"`
	AppliesToMultipleHerds bool      `json:"appliesToMh"`
	RaisedAt               time.Time `json:"raisedAt"`
}

// flagEventNamespace seeds deterministic event ids.
var flagEventNamespace = uuid.MustParse("6f1b8c3e-2d4a-4e5f-9a7b-1c2d3e4f5a6b")

// NewFlagCreated builds the event for a stored flag.
func NewFlagCreated(f models.Flag, raisedAt time.Time) FlagCreated {
	return FlagCreated{
		EventID:                uuid.NewSHA1(flagEventNamespace, []byte(FlagCreatedType+":"+f.ID.String())),
		Type:                   FlagCreatedType,
		FlagID:                 f.ID,
		ApplicationReference:   f.ApplicationReference,
		SBI:                    f.SBI,
		Note:                   f.Note,
		CreatedBy:              f.CreatedBy,
		AppliesToMultipleHerds: f.AppliesToMultipleHerds,
		RaisedAt:               raisedAt,
	}
}

// Sink delivers an encoded event. The Kafka producer satisfies it.
type Sink interface {
	Publish(ctx context.Context, topic string, key, value []byte, headers map[string]string) error
}

// Publisher emits events synchronously: the caller blocks until the sink
// acknowledges, and a failed publish fails the caller.
type Publisher struct {
	sink   Sink
	topic  string
	logger *slog.Logger
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func New(sink Sink, topic string, opts ...Option) *Publisher {
	p := &Publisher{sink: sink, topic: topic, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PublishFlagCreated emits one agreement.flag.created event keyed by the
// agreement reference.
func (p *Publisher) PublishFlagCreated(ctx context.Context, event FlagCreated) error {
	if event.ApplicationReference == "" {
		return fmt.Errorf("flag created event requires an application reference")
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}
	headers := map[string]string{
		"event-type": event.Type,
		"event-id":   event.EventID.String(),
	}
	if err := p.sink.Publish(ctx, p.topic, []byte(event.ApplicationReference), value, headers); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish agreement event",
			"event_type", event.Type,
			"reference", event.ApplicationReference,
			"error", err,
		)
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

// Recorder is an in-memory publisher for tests and dry runs.
type Recorder struct {
	mu     sync.Mutex
	events []FlagCreated

	// FailFor makes PublishFlagCreated fail for the listed references.
	FailFor map[string]error
}

func (r *Recorder) PublishFlagCreated(_ context.Context, event FlagCreated) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.FailFor[event.ApplicationReference]; err != nil {
		return err
	}
	r.events = append(r.events, event)
	return nil
}

// Events returns the recorded events.
func (r *Recorder) Events() []FlagCreated {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]FlagCreated(nil), r.events...)
}
