package stages

import (
	"context"

	"ahwr/internal/redaction/adapters/piiclient"
	"ahwr/internal/redaction/events"
	"ahwr/internal/redaction/models"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks Checkpointer,PIIRedactor,RelationalRedactor,FlagStore,EventPublisher

// Checkpointer records a failed stage against every record of a batch.
type Checkpointer interface {
	CheckpointFailure(ctx context.Context, records []models.RedactionRecord, prior models.Progress) error
}

// PIIRedactor is a remote service that redacts agreements it holds.
type PIIRedactor interface {
	RedactPII(ctx context.Context, agreements []piiclient.AgreementToRedact) error
}

// RelationalRedactor overwrites personal fields in the agreement tables in
// one transaction.
type RelationalRedactor interface {
	RedactAgreements(ctx context.Context, references []string) error
}

// FlagStore persists the redacted flag; an existing one is returned.
type FlagStore interface {
	CreateRedacted(ctx context.Context, f models.Flag) (models.Flag, bool, error)
}

// EventPublisher raises agreement domain events.
type EventPublisher interface {
	PublishFlagCreated(ctx context.Context, event events.FlagCreated) error
}
