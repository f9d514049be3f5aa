package stages

import (
	"context"
	"log/slog"

	"ahwr/internal/redaction/adapters/piiclient"
	"ahwr/internal/redaction/models"
)

// Documents redacts generated agreement documents. The document store is
// still keyed by the real SBI, so the real identifier is sent.
type Documents struct {
	service PIIRedactor
	ledger  Checkpointer
}

func NewDocuments(service PIIRedactor, ledger Checkpointer) *Documents {
	return &Documents{service: service, ledger: ledger}
}

func (s *Documents) Execute(ctx context.Context, records []models.RedactionRecord, prior models.Progress, logger *slog.Logger) error {
	agreements := make([]piiclient.AgreementToRedact, 0, len(records))
	for _, r := range records {
		agreements = append(agreements, piiclient.AgreementToRedact{Reference: r.ApplicationReference, SBI: r.Snapshot.SBI})
	}
	if err := s.service.RedactPII(ctx, agreements); err != nil {
		return checkpoint(ctx, s.ledger, models.StageDocuments, records, prior, logger, err)
	}
	return nil
}

// Messages redacts the message delivery audit, which is keyed by reference.
type Messages struct {
	service PIIRedactor
	ledger  Checkpointer
}

func NewMessages(service PIIRedactor, ledger Checkpointer) *Messages {
	return &Messages{service: service, ledger: ledger}
}

func (s *Messages) Execute(ctx context.Context, records []models.RedactionRecord, prior models.Progress, logger *slog.Logger) error {
	agreements := make([]piiclient.AgreementToRedact, 0, len(records))
	for _, r := range records {
		agreements = append(agreements, piiclient.AgreementToRedact{Reference: r.ApplicationReference})
	}
	if err := s.service.RedactPII(ctx, agreements); err != nil {
		return checkpoint(ctx, s.ledger, models.StageMessages, records, prior, logger, err)
	}
	return nil
}
