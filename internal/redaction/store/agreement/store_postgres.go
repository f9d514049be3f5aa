// Package agreement reads applications and claims for redaction selection.
// It never writes; field redaction goes through the relational store.
package agreement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"ahwr/internal/redaction/models"
)

// Claim status codes that carry a payment decision.
const (
	ClaimStatusPaid     = 9
	ClaimStatusRejected = 10
)

// PostgresStore queries the applications and claims tables.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a read-only agreement store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// notYetSelected excludes agreements that already have a ledger row for any
// requested date.
const notYetSelected = `NOT EXISTS (SELECT 1 FROM redact_pii r WHERE r.reference = a.reference)`

// FindNoPayment returns agreements created before olderThan that never
// reached a payment decision and have had no claim activity since.
func (s *PostgresStore) FindNoPayment(ctx context.Context, olderThan time.Time) ([]models.Agreement, error) {
	query := `
		SELECT a.reference, a.sbi, a.created_at, a.updated_at
		FROM applications a
		WHERE a.created_at < $1
		  AND NOT EXISTS (
			SELECT 1 FROM claims c
			WHERE c.application_reference = a.reference
			  AND (c.status_id = ANY($2::int[]) OR c.updated_at >= $1)
		  )
		  AND ` + notYetSelected + `
		ORDER BY a.created_at, a.reference
	`
	return s.queryAgreements(ctx, "find no-payment agreements", query, olderThan, pq.Array([]int64{ClaimStatusPaid, ClaimStatusRejected}))
}

// FindRejectedPayment returns agreements whose claims were rejected, never
// paid, and last updated before lastUpdateBefore.
func (s *PostgresStore) FindRejectedPayment(ctx context.Context, lastUpdateBefore time.Time) ([]models.Agreement, error) {
	query := `
		SELECT a.reference, a.sbi, a.created_at, a.updated_at
		FROM applications a
		JOIN claims c ON c.application_reference = a.reference
		WHERE ` + notYetSelected + `
		GROUP BY a.reference, a.sbi, a.created_at, a.updated_at
		HAVING bool_or(c.status_id = $2)
		   AND NOT bool_or(c.status_id = $3)
		   AND max(c.updated_at) < $1
		ORDER BY a.created_at, a.reference
	`
	return s.queryAgreements(ctx, "find rejected-payment agreements", query, lastUpdateBefore, ClaimStatusRejected, ClaimStatusPaid)
}

// FindPaidUnclaimed returns paid agreements with no claim activity since
// lastUpdateBefore.
func (s *PostgresStore) FindPaidUnclaimed(ctx context.Context, lastUpdateBefore time.Time) ([]models.Agreement, error) {
	query := `
		SELECT a.reference, a.sbi, a.created_at, a.updated_at
		FROM applications a
		JOIN claims c ON c.application_reference = a.reference
		WHERE ` + notYetSelected + `
		GROUP BY a.reference, a.sbi, a.created_at, a.updated_at
		HAVING bool_or(c.status_id = $2)
		   AND max(c.updated_at) < $1
		ORDER BY a.created_at, a.reference
	`
	return s.queryAgreements(ctx, "find paid-unclaimed agreements", query, lastUpdateBefore, ClaimStatusPaid)
}

// FindClaims lists the claims made under an agreement.
func (s *PostgresStore) FindClaims(ctx context.Context, reference string) ([]models.Claim, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT reference, status_id, updated_at
		FROM claims
		WHERE application_reference = $1
		ORDER BY created_at, reference
	`, reference)
	if err != nil {
		return nil, fmt.Errorf("find claims for %s: %w", reference, err)
	}
	defer rows.Close()

	var claims []models.Claim
	for rows.Next() {
		var c models.Claim
		if err := rows.Scan(&c.Reference, &c.StatusCode, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan claim: %w", err)
		}
		claims = append(claims, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate claims: %w", err)
	}
	return claims, nil
}

// FindNextCreatedAt returns the creation time of the earliest agreement for
// sbi created after the given instant, or nil when there is none.
func (s *PostgresStore) FindNextCreatedAt(ctx context.Context, sbi string, after time.Time) (*time.Time, error) {
	var next time.Time
	err := s.db.QueryRowContext(ctx, `
		SELECT created_at
		FROM applications
		WHERE sbi = $1 AND created_at > $2
		ORDER BY created_at
		LIMIT 1
	`, sbi, after).Scan(&next)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find next agreement for sbi: %w", err)
	}
	return &next, nil
}

// SBIExists reports whether any agreement uses sbi or a ledger row has
// already reserved it as a replacement.
func (s *PostgresStore) SBIExists(ctx context.Context, sbi string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM applications WHERE sbi = $1)
			OR EXISTS (SELECT 1 FROM redact_pii WHERE replacement_sbi = $1)
	`
	var exists bool
	err := s.db.QueryRowContext(ctx, query, sbi).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check sbi exists: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) queryAgreements(ctx context.Context, op, query string, args ...any) ([]models.Agreement, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var agreements []models.Agreement
	for rows.Next() {
		var a models.Agreement
		if err := rows.Scan(&a.Reference, &a.SBI, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		agreements = append(agreements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return agreements, nil
}
