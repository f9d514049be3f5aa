package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"ahwr/internal/redaction/models"
	"ahwr/pkg/platform/sentinel"
	txcontext "ahwr/pkg/platform/tx"
)

// PostgresStore persists redaction records in the redact_pii table.
// This store is pure I/O; progress rules live in the models package.
type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

// Option configures a PostgresStore.
type Option func(*PostgresStore)

// WithClock sets the clock used for updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *PostgresStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewPostgres constructs a PostgreSQL-backed ledger.
func NewPostgres(db *sql.DB, opts ...Option) *PostgresStore {
	s := &PostgresStore{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const selectColumns = `id, reference, requested_date, status, retry_count, success, replacement_sbi, data, created_at, updated_at`

// Create inserts a new record. A record already present for the same
// reference and requested date returns sentinel.ErrConflict.
func (s *PostgresStore) Create(ctx context.Context, record *models.RedactionRecord) error {
	if record == nil {
		return fmt.Errorf("redaction record is required")
	}
	data, err := json.Marshal(record.Snapshot)
	if err != nil {
		return fmt.Errorf("marshal redaction snapshot: %w", err)
	}
	query := `
		INSERT INTO redact_pii (id, reference, requested_date, status, retry_count, success, replacement_sbi, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULL, $6, $7, $8, $8)
		ON CONFLICT (reference, requested_date) DO NOTHING
	`
	res, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, query,
		record.ID,
		record.ApplicationReference,
		record.RequestedDate.Time,
		pq.Array(record.Status.Tokens()),
		record.RetryCount,
		record.ReplacementIdentifier,
		data,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert redaction record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert redaction record: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("redaction record %s for %s: %w", record.ApplicationReference, record.RequestedDate, sentinel.ErrConflict)
	}
	return nil
}

// FindUnfinished returns records for the date that have not succeeded.
func (s *PostgresStore) FindUnfinished(ctx context.Context, date models.RequestedDate) ([]models.RedactionRecord, error) {
	query := `SELECT ` + selectColumns + `
		FROM redact_pii
		WHERE requested_date = $1 AND success IS DISTINCT FROM 'Y'
		ORDER BY created_at, reference
	`
	return s.query(ctx, "find unfinished redaction records", query, date.Time)
}

// ListByDate returns every record for the date.
func (s *PostgresStore) ListByDate(ctx context.Context, date models.RequestedDate) ([]models.RedactionRecord, error) {
	query := `SELECT ` + selectColumns + `
		FROM redact_pii
		WHERE requested_date = $1
		ORDER BY created_at, reference
	`
	return s.query(ctx, "list redaction records", query, date.Time)
}

// CheckpointFailure records a failed stage for every listed record in one
// statement. status becomes prior unless the row already records more
// stages; a checkpoint never shortens it. retry_count increments and success
// becomes 'N'. replacement_sbi is never written after insert.
func (s *PostgresStore) CheckpointFailure(ctx context.Context, records []models.RedactionRecord, prior models.Progress) error {
	if len(records) == 0 {
		return nil
	}
	query := `
		UPDATE redact_pii
		SET status = CASE
				WHEN cardinality(status) <= cardinality($1::text[]) THEN $1::text[]
				ELSE status
			END,
			retry_count = retry_count + 1, success = 'N', updated_at = $2
		WHERE id = ANY($3::uuid[])
	`
	_, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, query,
		pq.Array(prior.Tokens()),
		s.now(),
		pq.Array(recordIDs(records)),
	)
	if err != nil {
		return fmt.Errorf("checkpoint redaction failure: %w", err)
	}
	return nil
}

// MarkSucceeded writes the terminal state for each record inside one
// transaction.
func (s *PostgresStore) MarkSucceeded(ctx context.Context, records []models.RedactionRecord) error {
	query := `
		UPDATE redact_pii
		SET status = $1, success = 'Y', updated_at = $2
		WHERE id = $3
	`
	return txcontext.RunInTx(ctx, s.db, func(ctx context.Context) error {
		exec := txcontext.Executor(ctx, s.db)
		now := s.now()
		for _, r := range records {
			if _, err := exec.ExecContext(ctx, query, pq.Array(models.ProgressComplete.Tokens()), now, r.ID); err != nil {
				return fmt.Errorf("mark redaction %s succeeded: %w", r.ApplicationReference, err)
			}
		}
		return nil
	})
}

func (s *PostgresStore) query(ctx context.Context, op, query string, args ...any) ([]models.RedactionRecord, error) {
	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var records []models.RedactionRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (models.RedactionRecord, error) {
	var (
		record        models.RedactionRecord
		requestedDate time.Time
		status        []string
		success       sql.NullString
		data          []byte
	)
	err := row.Scan(
		&record.ID,
		&record.ApplicationReference,
		&requestedDate,
		pq.Array(&status),
		&record.RetryCount,
		&success,
		&record.ReplacementIdentifier,
		&data,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return record, fmt.Errorf("scan redaction record: %w", err)
	}
	record.RequestedDate = models.NewRequestedDate(requestedDate)
	record.Status, err = models.ParseProgress(status)
	if err != nil {
		return record, fmt.Errorf("redaction record %s: %w", record.ApplicationReference, err)
	}
	if success.Valid {
		record.Success = models.Outcome(success.String)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &record.Snapshot); err != nil {
			return record, fmt.Errorf("unmarshal redaction snapshot: %w", err)
		}
	}
	if record.Success == models.OutcomeSucceeded && !record.Status.IsComplete() {
		return record, fmt.Errorf("redaction record %s succeeded with partial status: %w", record.ApplicationReference, sentinel.ErrInvalidState)
	}
	return record, nil
}

func recordIDs(records []models.RedactionRecord) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID.String())
	}
	return ids
}
