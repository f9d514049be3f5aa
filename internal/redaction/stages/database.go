package stages

import (
	"context"
	"log/slog"

	"ahwr/internal/redaction/models"
)

// Database redacts the relational store.
type Database struct {
	store  RelationalRedactor
	ledger Checkpointer
}

func NewDatabase(store RelationalRedactor, ledger Checkpointer) *Database {
	return &Database{store: store, ledger: ledger}
}

func (s *Database) Execute(ctx context.Context, records []models.RedactionRecord, prior models.Progress, logger *slog.Logger) error {
	if err := s.store.RedactAgreements(ctx, models.References(records)); err != nil {
		return checkpoint(ctx, s.ledger, models.StageDatabaseTables, records, prior, logger, err)
	}
	return nil
}
