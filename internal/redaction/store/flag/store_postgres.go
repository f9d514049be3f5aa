// Package flag persists agreement flags.
package flag

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ahwr/internal/redaction/models"
	txcontext "ahwr/pkg/platform/tx"
)

// PostgresStore writes to the flags table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// CreateRedacted inserts the redacted flag for an agreement. An agreement has
// at most one; when it already exists the stored flag is returned and
// created is false.
func (s *PostgresStore) CreateRedacted(ctx context.Context, f models.Flag) (models.Flag, bool, error) {
	exec := txcontext.Executor(ctx, s.db)
	err := exec.QueryRowContext(ctx, `
		INSERT INTO flags (id, application_reference, sbi, note, created_by, applies_to_mh, redacted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, true, $7)
		ON CONFLICT (application_reference) WHERE redacted DO NOTHING
		RETURNING id
	`, f.ID, f.ApplicationReference, f.SBI, f.Note, f.CreatedBy, f.AppliesToMultipleHerds, f.CreatedAt).Scan(&f.ID)
	if err == nil {
		f.Redacted = true
		return f, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Flag{}, false, fmt.Errorf("insert redacted flag for %s: %w", f.ApplicationReference, err)
	}

	existing, err := s.findRedacted(ctx, exec, f.ApplicationReference)
	if err != nil {
		return models.Flag{}, false, err
	}
	return existing, false, nil
}

func (s *PostgresStore) findRedacted(ctx context.Context, exec txcontext.Execer, reference string) (models.Flag, error) {
	var f models.Flag
	err := exec.QueryRowContext(ctx, `
		SELECT id, application_reference, sbi, note, created_by, applies_to_mh, redacted, created_at
		FROM flags
		WHERE application_reference = $1 AND redacted
	`, reference).Scan(&f.ID, &f.ApplicationReference, &f.SBI, &f.Note, &f.CreatedBy, &f.AppliesToMultipleHerds, &f.Redacted, &f.CreatedAt)
	if err != nil {
		return models.Flag{}, fmt.Errorf("find redacted flag for %s: %w", reference, err)
	}
	return f, nil
}
