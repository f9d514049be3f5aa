package stages

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"ahwr/internal/redaction/events"
	"ahwr/internal/redaction/models"
)

// DefaultFlagWorkers caps concurrent flag writes.
const DefaultFlagWorkers = 20

// Flags writes the completion flag and raises its event for every agreement.
type Flags struct {
	flags     FlagStore
	publisher EventPublisher
	ledger    Checkpointer
	workers   int
	now       func() time.Time
}

type FlagsOption func(*Flags)

func WithFlagWorkers(n int) FlagsOption {
	return func(f *Flags) {
		if n > 0 {
			f.workers = n
		}
	}
}

func WithFlagClock(now func() time.Time) FlagsOption {
	return func(f *Flags) {
		if now != nil {
			f.now = now
		}
	}
}

func NewFlags(flags FlagStore, publisher EventPublisher, ledger Checkpointer, opts ...FlagsOption) *Flags {
	f := &Flags{
		flags:     flags,
		publisher: publisher,
		ledger:    ledger,
		workers:   DefaultFlagWorkers,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (s *Flags) Execute(ctx context.Context, records []models.RedactionRecord, prior models.Progress, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, r := range records {
		g.Go(func() error {
			return s.flag(gctx, r, logger)
		})
	}
	if err := g.Wait(); err != nil {
		return checkpoint(ctx, s.ledger, models.StageRedactedFlag, records, prior, logger, err)
	}
	return nil
}

func (s *Flags) flag(ctx context.Context, r models.RedactionRecord, logger *slog.Logger) error {
	stored, created, err := s.flags.CreateRedacted(ctx, models.NewRedactedFlag(r, s.now()))
	if err != nil {
		return fmt.Errorf("create redacted flag for %s: %w", r.ApplicationReference, err)
	}
	if !created {
		logger.DebugContext(ctx, "redacted flag already present", "reference", r.ApplicationReference, "flag_id", stored.ID)
	}
	if err := s.publisher.PublishFlagCreated(ctx, events.NewFlagCreated(stored, s.now())); err != nil {
		return fmt.Errorf("raise flag event for %s: %w", r.ApplicationReference, err)
	}
	return nil
}
