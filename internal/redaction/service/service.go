// Package service runs redaction batches: it selects or resumes the batch
// for a requested date, drives it through the stage pipeline and records
// completion in the ledger.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ahwr/internal/redaction/metrics"
	"ahwr/internal/redaction/models"
	"ahwr/internal/redaction/stages"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Selector,Ledger

const tracerName = "ahwr/internal/redaction/service"

// Selector builds or resumes the batch for a date.
type Selector interface {
	Select(ctx context.Context, date models.RequestedDate, logger *slog.Logger) (models.Batch, error)
}

// Ledger is the slice of the redaction ledger the orchestrator writes and
// the admin surface reads.
type Ledger interface {
	MarkSucceeded(ctx context.Context, records []models.RedactionRecord) error
	ListByDate(ctx context.Context, date models.RequestedDate) ([]models.RedactionRecord, error)
}

// Step binds a stage to its executor.
type Step struct {
	Stage    models.Stage
	Executor stages.Executor
}

// Pipeline orders the executors the way the stages must run.
func Pipeline(documents, messages, storage, database, flags stages.Executor) []Step {
	return []Step{
		{Stage: models.StageDocuments, Executor: documents},
		{Stage: models.StageMessages, Executor: messages},
		{Stage: models.StageStorageAccounts, Executor: storage},
		{Stage: models.StageDatabaseTables, Executor: database},
		{Stage: models.StageRedactedFlag, Executor: flags},
	}
}

// Service is the redaction orchestrator.
type Service struct {
	selector Selector
	ledger   Ledger
	steps    []Step
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	now      func() time.Time
}

type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New validates that steps cover every stage once, in pipeline order.
func New(selector Selector, ledger Ledger, steps []Step, opts ...Option) (*Service, error) {
	if selector == nil || ledger == nil {
		return nil, errors.New("selector and ledger are required")
	}
	if len(steps) != len(models.Pipeline) {
		return nil, fmt.Errorf("pipeline needs %d steps, got %d", len(models.Pipeline), len(steps))
	}
	for i, step := range steps {
		if step.Stage != models.Pipeline[i] {
			return nil, fmt.Errorf("step %d is %q, expected %q", i, step.Stage, models.Pipeline[i])
		}
		if step.Executor == nil {
			return nil, fmt.Errorf("no executor for stage %q", step.Stage)
		}
	}
	s := &Service{
		selector: selector,
		ledger:   ledger,
		steps:    steps,
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run redacts every agreement due on requestedDate, resuming from the
// ledger when an earlier run for the date did not finish. Errors are one of
// a validation error, *models.SelectionError, *models.StageError or
// *models.LedgerWriteError.
func (s *Service) Run(ctx context.Context, requestedDate string, logger *slog.Logger) error {
	date, err := models.ParseRequestedDate(requestedDate)
	if err != nil {
		logger.WarnContext(ctx, "rejected redaction request", "requested_date", requestedDate, "error", err)
		return err
	}

	ctx, span := s.tracer.Start(ctx, "redaction.run", trace.WithAttributes(attribute.String("requested_date", date.String())))
	defer span.End()
	logger = logger.With("requested_date", date.String())

	batch, err := s.selector.Select(ctx, date, logger)
	if err != nil {
		s.metrics.IncrementBatch("selection_failed", 0)
		return spanError(span, err)
	}
	if batch.IsEmpty() {
		logger.InfoContext(ctx, "no agreements due for redaction")
		s.metrics.IncrementBatch("empty", 0)
		return nil
	}

	logger = logger.With("batch_size", len(batch.Records))
	span.SetAttributes(attribute.Int("batch_size", len(batch.Records)))
	logger.InfoContext(ctx, "redaction batch started", "status", batch.Status.Tokens(), "state", batch.Status.State())

	progress := batch.Status
	for _, step := range s.steps {
		if progress.Has(step.Stage) {
			logger.DebugContext(ctx, "stage already complete", "stage", string(step.Stage))
			continue
		}
		if err := s.runStep(ctx, step, batch.Records, progress, logger); err != nil {
			s.metrics.IncrementBatch("failed", len(batch.Records))
			return spanError(span, err)
		}
		if progress, err = progress.Advance(step.Stage); err != nil {
			return spanError(span, err)
		}
	}

	if err := s.ledger.MarkSucceeded(ctx, batch.Records); err != nil {
		logger.ErrorContext(ctx, "failed to record redaction success", "error", err)
		s.metrics.IncrementBatch("failed", len(batch.Records))
		return spanError(span, &models.LedgerWriteError{Op: "complete", Err: err})
	}
	s.metrics.IncrementBatch("succeeded", len(batch.Records))
	logger.InfoContext(ctx, "redaction batch complete", "state", models.ProgressComplete.State())
	return nil
}

func (s *Service) runStep(ctx context.Context, step Step, records []models.RedactionRecord, progress models.Progress, logger *slog.Logger) error {
	ctx, span := s.tracer.Start(ctx, "redaction.stage."+string(step.Stage))
	defer span.End()

	start := s.now()
	err := step.Executor.Execute(ctx, records, progress, logger)
	s.metrics.ObserveStage(string(step.Stage), err, s.now().Sub(start))
	if err != nil {
		return spanError(span, err)
	}
	logger.InfoContext(ctx, "redaction stage complete", "stage", string(step.Stage))
	return nil
}

// List returns the ledger records for a date.
func (s *Service) List(ctx context.Context, requestedDate string) ([]models.RedactionRecord, error) {
	date, err := models.ParseRequestedDate(requestedDate)
	if err != nil {
		return nil, err
	}
	return s.ledger.ListByDate(ctx, date)
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
