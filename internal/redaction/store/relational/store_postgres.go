// Package relational overwrites personal fields held in the agreement tables.
package relational

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"ahwr/internal/redaction/models"
	txcontext "ahwr/pkg/platform/tx"
)

// target is one personal field. A nil path addresses a plain text column;
// otherwise path is a JSON path inside a jsonb column.
type target struct {
	table  string
	scope  string
	column string
	path   []string
	token  string
}

// targets lists every personal field in the relational store. Primary keys
// and the scope columns are never rewritten.
var targets = []target{
	{table: "herds", scope: "application_reference", column: "data", path: []string{"herdName"}, token: models.RedactedHerdName},

	{table: "flags", scope: "application_reference", column: "note", token: models.RedactedNote},
	{table: "flags", scope: "application_reference", column: "deleted_note", token: models.RedactedNote},

	{table: "contact_history", scope: "application_reference", column: "data", path: []string{"email"}, token: models.RedactedEmail},
	{table: "contact_history", scope: "application_reference", column: "data", path: []string{"orgEmail"}, token: models.RedactedEmail},
	{table: "contact_history", scope: "application_reference", column: "data", path: []string{"address"}, token: models.RedactedAddress},
	{table: "contact_history", scope: "application_reference", column: "old_value", token: models.RedactedName},
	{table: "contact_history", scope: "application_reference", column: "new_value", token: models.RedactedName},

	{table: "claims", scope: "application_reference", column: "data", path: []string{"vetsName"}, token: models.RedactedVetName},
	{table: "claims", scope: "application_reference", column: "data", path: []string{"vetRCVSNumber"}, token: models.RedactedVetRCVS},
	{table: "claims", scope: "application_reference", column: "data", path: []string{"exception"}, token: models.RedactedException},

	{table: "applications", scope: "reference", column: "organisation", path: []string{"name"}, token: models.RedactedName},
	{table: "applications", scope: "reference", column: "organisation", path: []string{"farmerName"}, token: models.RedactedName},
	{table: "applications", scope: "reference", column: "organisation", path: []string{"email"}, token: models.RedactedEmail},
	{table: "applications", scope: "reference", column: "organisation", path: []string{"orgEmail"}, token: models.RedactedEmail},
	{table: "applications", scope: "reference", column: "organisation", path: []string{"address"}, token: models.RedactedAddress},
	{table: "applications", scope: "reference", column: "data", path: []string{"vetName"}, token: models.RedactedVetName},
	{table: "applications", scope: "reference", column: "data", path: []string{"vetRcvs"}, token: models.RedactedVetRCVS},
}

// statement renders the update for t. Rows already holding the token, or
// lacking the field, are not touched.
func (t target) statement() string {
	if t.path == nil {
		return fmt.Sprintf(
			`UPDATE %s SET %s = $1 WHERE %s = ANY($2) AND %s IS NOT NULL AND %s <> $1`,
			t.table, t.column, t.scope, t.column, t.column,
		)
	}
	path := "{" + strings.Join(t.path, ",") + "}"
	return fmt.Sprintf(
		`UPDATE %s SET %s = jsonb_set(%s, '%s', to_jsonb($1::text), false) WHERE %s = ANY($2) AND %s #> '%s' IS NOT NULL AND %s #>> '%s' IS DISTINCT FROM $1`,
		t.table, t.column, t.column, path, t.scope, t.column, path, t.column, path,
	)
}

// PostgresStore applies field redactions in one transaction.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// RedactAgreements overwrites every personal field belonging to the given
// agreement references. Either every target is rewritten or none is.
func (s *PostgresStore) RedactAgreements(ctx context.Context, references []string) error {
	if len(references) == 0 {
		return nil
	}
	return txcontext.RunInTx(ctx, s.db, func(ctx context.Context) error {
		exec := txcontext.Executor(ctx, s.db)
		for _, t := range targets {
			if _, err := exec.ExecContext(ctx, t.statement(), t.token, pq.Array(references)); err != nil {
				return fmt.Errorf("redact %s.%s: %w", t.table, t.column, err)
			}
		}
		return nil
	})
}
