// Package selector builds the batch of agreements due for PII redaction on a
// requested date, or resumes the unfinished batch already recorded for it.
package selector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"ahwr/internal/redaction/metrics"
	"ahwr/internal/redaction/models"
	"ahwr/pkg/platform/sentinel"
)

//go:generate mockgen -source=selector.go -destination=mocks/mocks.go -package=mocks Ledger,AgreementReader,IdentifierSource

// DefaultWorkerLimit caps concurrent per-candidate work.
const DefaultWorkerLimit = 20

// Ledger is the slice of the redaction ledger the selector needs.
type Ledger interface {
	FindUnfinished(ctx context.Context, date models.RequestedDate) ([]models.RedactionRecord, error)
	Create(ctx context.Context, record *models.RedactionRecord) error
}

// AgreementReader answers eligibility queries against the agreement store.
type AgreementReader interface {
	FindNoPayment(ctx context.Context, olderThan time.Time) ([]models.Agreement, error)
	FindRejectedPayment(ctx context.Context, lastUpdateBefore time.Time) ([]models.Agreement, error)
	FindPaidUnclaimed(ctx context.Context, lastUpdateBefore time.Time) ([]models.Agreement, error)
	FindClaims(ctx context.Context, reference string) ([]models.Claim, error)
	FindNextCreatedAt(ctx context.Context, sbi string, after time.Time) (*time.Time, error)
}

// IdentifierSource issues replacement identifiers.
type IdentifierSource interface {
	Next(ctx context.Context) (string, error)
}

// Selector computes or resumes redaction batches.
type Selector struct {
	ledger      Ledger
	agreements  AgreementReader
	identifiers IdentifierSource
	metrics     *metrics.Metrics
	workerLimit int
	now         func() time.Time
}

type Option func(*Selector)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Selector) {
		s.metrics = m
	}
}

func WithWorkerLimit(n int) Option {
	return func(s *Selector) {
		if n > 0 {
			s.workerLimit = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Selector) {
		if now != nil {
			s.now = now
		}
	}
}

func New(ledger Ledger, agreements AgreementReader, identifiers IdentifierSource, opts ...Option) *Selector {
	s := &Selector{
		ledger:      ledger,
		agreements:  agreements,
		identifiers: identifiers,
		workerLimit: DefaultWorkerLimit,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select returns the unfinished batch for date when one exists. Otherwise it
// selects every eligible agreement, records each in the ledger with no
// progress and returns the new batch. No eligible agreements is an empty
// batch, not an error.
func (s *Selector) Select(ctx context.Context, date models.RequestedDate, logger *slog.Logger) (models.Batch, error) {
	unfinished, err := s.ledger.FindUnfinished(ctx, date)
	if err != nil {
		return models.Batch{}, &models.SelectionError{Err: fmt.Errorf("find unfinished redactions: %w", err)}
	}
	if len(unfinished) > 0 {
		status := models.CommonProgress(unfinished)
		logger.InfoContext(ctx, "resuming unfinished redaction batch",
			"batch_size", len(unfinished),
			"status", status.Tokens(),
		)
		return models.Batch{Records: unfinished, Status: status}, nil
	}

	candidates, err := s.candidates(ctx, date)
	if err != nil {
		return models.Batch{}, &models.SelectionError{Err: err}
	}
	if len(candidates) == 0 {
		return models.Batch{}, nil
	}
	logger.InfoContext(ctx, "agreements eligible for redaction", "count", len(candidates))

	records, err := s.record(ctx, date, candidates, logger)
	if err != nil {
		return models.Batch{}, err
	}
	return models.Batch{Records: records, Status: models.ProgressNone}, nil
}

// candidates queries the three eligibility rules and collapses references
// that name the same agreement under different schemes. The first
// occurrence wins.
func (s *Selector) candidates(ctx context.Context, date models.RequestedDate) ([]models.Candidate, error) {
	rules := []struct {
		reason models.EligibilityReason
		find   func(context.Context, time.Time) ([]models.Agreement, error)
		before time.Time
	}{
		{models.ReasonNoPayment, s.agreements.FindNoPayment, date.YearsBefore(models.NoPaymentRetentionYears)},
		{models.ReasonRejectedPayment, s.agreements.FindRejectedPayment, date.YearsBefore(models.RejectedRetentionYears)},
		{models.ReasonPaidUnclaimed, s.agreements.FindPaidUnclaimed, date.YearsBefore(models.PaidRetentionYears)},
	}

	seen := make(map[string]struct{})
	var out []models.Candidate
	for _, rule := range rules {
		found, err := rule.find(ctx, rule.before)
		if err != nil {
			return nil, fmt.Errorf("find %s agreements: %w", rule.reason, err)
		}
		for _, a := range found {
			key := models.NormalizeReference(a.Reference)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, models.Candidate{Agreement: a, Reason: rule.reason})
		}
	}
	return out, nil
}

// record builds every candidate's record first and only then inserts the
// ledger rows, so an agreement-store or identifier failure leaves the ledger
// untouched. Both phases fan out over a bounded pool. Output keeps candidate
// order.
func (s *Selector) record(ctx context.Context, date models.RequestedDate, candidates []models.Candidate, logger *slog.Logger) ([]models.RedactionRecord, error) {
	built := make([]*models.RedactionRecord, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workerLimit)
	for i, c := range candidates {
		g.Go(func() error {
			record, err := s.newRecord(gctx, date, c.Agreement)
			if err != nil {
				return err
			}
			built[i] = record
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	created := make([]bool, len(candidates))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(s.workerLimit)
	for i, c := range candidates {
		g.Go(func() error {
			if err := s.ledger.Create(gctx, built[i]); err != nil {
				if errors.Is(err, sentinel.ErrConflict) {
					logger.WarnContext(gctx, "agreement already recorded for date, skipping",
						"reference", c.Agreement.Reference,
					)
					return nil
				}
				return &models.LedgerWriteError{Op: "create", Err: fmt.Errorf("record %s: %w", c.Agreement.Reference, err)}
			}
			s.metrics.IncrementSelected(string(c.Reason))
			created[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make([]models.RedactionRecord, 0, len(built))
	for i, r := range built {
		if created[i] {
			records = append(records, *r)
		}
	}
	return records, nil
}

func (s *Selector) newRecord(ctx context.Context, date models.RequestedDate, a models.Agreement) (*models.RedactionRecord, error) {
	claims, err := s.agreements.FindClaims(ctx, a.Reference)
	if err != nil {
		return nil, &models.SelectionError{Err: fmt.Errorf("find claims for %s: %w", a.Reference, err)}
	}
	end, err := s.agreements.FindNextCreatedAt(ctx, a.SBI, a.CreatedAt)
	if err != nil {
		return nil, &models.SelectionError{Err: fmt.Errorf("find window end for %s: %w", a.Reference, err)}
	}
	replacement, err := s.identifiers.Next(ctx)
	if err != nil {
		return nil, &models.SelectionError{Err: fmt.Errorf("replacement identifier for %s: %w", a.Reference, err)}
	}

	refs := make([]models.ClaimRef, 0, len(claims))
	for _, c := range claims {
		refs = append(refs, models.ClaimRef{Reference: c.Reference})
	}
	now := s.now()
	return &models.RedactionRecord{
		ID:                    uuid.New(),
		ApplicationReference:  a.Reference,
		RequestedDate:         date,
		Status:                models.ProgressNone,
		Success:               models.OutcomePending,
		ReplacementIdentifier: replacement,
		Snapshot: models.Snapshot{
			SBI:       a.SBI,
			Claims:    refs,
			StartDate: a.CreatedAt,
			EndDate:   end,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
