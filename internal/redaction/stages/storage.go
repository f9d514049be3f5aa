package stages

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"ahwr/internal/redaction/models"
	"ahwr/internal/tabular"
)

// Tabular store tables touched by redaction.
const (
	TableEventStore    = "ahwreventstore"
	TableIneligibility = "ahwrineligibility"
	TableStatus        = "ahwrstatus"

	PayloadProperty   = "Payload"
	SBIProperty       = "Sbi"
	ChangedByProperty = "ChangedBy"
)

// rekeyedTables are partitioned by SBI. Their rows move to the replacement
// identifier's partition once redacted.
var rekeyedTables = []string{TableEventStore, TableIneligibility}

// Storage redacts the partitioned tabular store. It is not transactional:
// each row is rewritten on its own, and a retry picks up the rows still
// under the real SBI.
type Storage struct {
	store  tabular.Store
	ledger Checkpointer
}

func NewStorage(store tabular.Store, ledger Checkpointer) *Storage {
	return &Storage{store: store, ledger: ledger}
}

func (s *Storage) Execute(ctx context.Context, records []models.RedactionRecord, prior models.Progress, logger *slog.Logger) error {
	for _, r := range records {
		if err := s.redactRecord(ctx, r, logger); err != nil {
			return checkpoint(ctx, s.ledger, models.StageStorageAccounts, records, prior, logger, err)
		}
	}
	return nil
}

func (s *Storage) redactRecord(ctx context.Context, r models.RedactionRecord, logger *slog.Logger) error {
	replacements := maps.Clone(models.PayloadRedactions)
	replacements["sbi"] = r.ReplacementIdentifier

	moved := 0
	for _, table := range rekeyedTables {
		rows, err := s.store.Query(ctx, table, r.Snapshot.SBI)
		if err != nil {
			return fmt.Errorf("query %s for %s: %w", table, r.ApplicationReference, err)
		}
		for _, row := range rows {
			if !r.Snapshot.InWindow(row.Timestamp) {
				continue
			}
			if err := redactProperties(&row, replacements); err != nil {
				return fmt.Errorf("%s/%s: %w", table, row.RowKey, err)
			}
			if _, ok := row.Properties[SBIProperty]; ok {
				row.Properties[SBIProperty] = r.ReplacementIdentifier
			}
			if err := s.store.Rekey(ctx, table, row, r.ReplacementIdentifier); err != nil {
				return err
			}
			moved++
		}
	}

	redacted := 0
	for _, claim := range r.Snapshot.ClaimReferences() {
		rows, err := s.store.Query(ctx, TableStatus, claim)
		if err != nil {
			return fmt.Errorf("query %s for claim %s: %w", TableStatus, claim, err)
		}
		for _, row := range rows {
			before := maps.Clone(row.Properties)
			if err := redactProperties(&row, replacements); err != nil {
				return fmt.Errorf("%s/%s: %w", TableStatus, row.RowKey, err)
			}
			if _, ok := row.Properties[ChangedByProperty]; ok {
				row.Properties[ChangedByProperty] = models.RedactedName
			}
			changed := changedProperties(before, row.Properties)
			if len(changed) == 0 {
				continue
			}
			if err := s.store.Merge(ctx, TableStatus, tabular.Entity{PartitionKey: row.PartitionKey, RowKey: row.RowKey, Properties: changed}); err != nil {
				return err
			}
			redacted++
		}
	}

	logger.DebugContext(ctx, "tabular rows redacted",
		"reference", r.ApplicationReference,
		"rekeyed", moved,
		"status_rows", redacted,
	)
	return nil
}

func redactProperties(row *tabular.Entity, replacements map[string]string) error {
	payload, ok := row.Properties[PayloadProperty]
	if !ok {
		return nil
	}
	out, changed, err := tabular.RedactJSON(payload, replacements)
	if err != nil {
		return err
	}
	if changed {
		row.Properties[PayloadProperty] = out
	}
	return nil
}

func changedProperties(before, after map[string]string) map[string]string {
	changed := make(map[string]string)
	for k, v := range after {
		if before[k] != v {
			changed[k] = v
		}
	}
	return changed
}
