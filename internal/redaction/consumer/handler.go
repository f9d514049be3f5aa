// Package consumer turns redaction trigger messages into orchestrator runs.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkaconsumer "ahwr/internal/platform/kafka/consumer"
	"ahwr/internal/redaction/metrics"
	dErrors "ahwr/pkg/domain-errors"
)

const (
	DefaultAttempts = 3
	DefaultBackoff  = 30 * time.Second
)

// Request is the trigger message body.
type Request struct {
	RequestedDate string `json:"requestedDate"`
}

// EncodeRequest builds the message body for a date.
func EncodeRequest(requestedDate string) ([]byte, error) {
	return json.Marshal(Request{RequestedDate: requestedDate})
}

// Runner runs one redaction batch.
type Runner interface {
	Run(ctx context.Context, requestedDate string, logger *slog.Logger) error
}

// Handler retries a failed run a bounded number of times with linear
// backoff. Once attempts are exhausted the message is committed and the
// failure is left in the ledger for the next trigger.
type Handler struct {
	runner   Runner
	logger   *slog.Logger
	metrics  *metrics.Metrics
	attempts int
	backoff  time.Duration
}

type Option func(*Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

func WithAttempts(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.attempts = n
		}
	}
}

func WithBackoff(d time.Duration) Option {
	return func(h *Handler) {
		if d >= 0 {
			h.backoff = d
		}
	}
}

func New(runner Runner, opts ...Option) *Handler {
	h := &Handler{
		runner:   runner,
		logger:   slog.Default(),
		attempts: DefaultAttempts,
		backoff:  DefaultBackoff,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

var _ kafkaconsumer.Handler = (*Handler)(nil)

// Handle returns an error only when ctx ends mid-retry, which leaves the
// offset uncommitted so the trigger is redelivered.
func (h *Handler) Handle(ctx context.Context, msg *kafkaconsumer.Message) error {
	logger := h.logger.With(
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
	)

	var req Request
	if err := json.Unmarshal(msg.Value, &req); err != nil || req.RequestedDate == "" {
		logger.ErrorContext(ctx, "malformed redaction request, skipping", "error", err)
		h.metrics.IncrementConsumed("malformed")
		return nil
	}

	for attempt := 1; ; attempt++ {
		err := h.runner.Run(ctx, req.RequestedDate, logger.With("attempt", attempt))
		if err == nil {
			h.metrics.IncrementConsumed("succeeded")
			return nil
		}
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			logger.ErrorContext(ctx, "invalid redaction request, skipping", "requested_date", req.RequestedDate, "error", err)
			h.metrics.IncrementConsumed("invalid")
			return nil
		}
		if attempt >= h.attempts {
			logger.ErrorContext(ctx, "redaction failed, giving up",
				"requested_date", req.RequestedDate,
				"attempts", attempt,
				"error", err,
			)
			h.metrics.IncrementConsumed("exhausted")
			return nil
		}

		wait := time.Duration(attempt) * h.backoff
		logger.WarnContext(ctx, "redaction failed, retrying",
			"requested_date", req.RequestedDate,
			"attempt", attempt,
			"retry_in", wait,
			"error", err,
		)
		if err := sleep(ctx, wait); err != nil {
			return fmt.Errorf("redaction retry for %s interrupted: %w", req.RequestedDate, err)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
