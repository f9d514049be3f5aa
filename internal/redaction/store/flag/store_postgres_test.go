package flag

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ahwr/internal/redaction/models"
)

func TestPostgresStore_CreateRedacted(t *testing.T) {
	now := time.Date(2025, 8, 5, 10, 0, 0, 0, time.UTC)
	record := models.RedactionRecord{ApplicationReference: "REF-001", ReplacementIdentifier: "987654321"}

	t.Run("inserts a new flag", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		f := models.NewRedactedFlag(record, now)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO flags")).
			WithArgs(f.ID, "REF-001", "987654321", models.RedactedFlagNote, models.RedactedFlagCreatedBy, false, now).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(f.ID.String()))

		got, created, err := NewPostgres(db).CreateRedacted(context.Background(), f)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, f.ID, got.ID)
		assert.Equal(t, "987654321", got.SBI)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns the existing flag", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		existingID := uuid.New()
		created := now.Add(-time.Hour)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO flags")).WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(regexp.QuoteMeta("FROM flags")).
			WithArgs("REF-001").
			WillReturnRows(sqlmock.NewRows([]string{"id", "application_reference", "sbi", "note", "created_by", "applies_to_mh", "redacted", "created_at"}).
				AddRow(existingID.String(), "REF-001", "987654321", models.RedactedFlagNote, "admin", false, true, created))

		got, wasCreated, err := NewPostgres(db).CreateRedacted(context.Background(), models.NewRedactedFlag(record, now))
		require.NoError(t, err)
		assert.False(t, wasCreated)
		assert.Equal(t, existingID, got.ID)
		assert.Equal(t, created, got.CreatedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
