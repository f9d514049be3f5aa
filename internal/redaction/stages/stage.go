// Package stages holds the executors of the redaction pipeline. Each acts
// on a whole batch against one system. On failure it checkpoints every
// record of the batch at the progress held before the stage started and
// returns a *models.StageError.
package stages

import (
	"context"
	"log/slog"

	"ahwr/internal/redaction/models"
)

// Executor runs one stage for a batch. prior is the batch progress before
// the stage; the executor never advances it.
type Executor interface {
	Execute(ctx context.Context, records []models.RedactionRecord, prior models.Progress, logger *slog.Logger) error
}

// checkpoint binds the failure to the logger, writes the batch checkpoint
// and returns the error the orchestrator propagates.
func checkpoint(ctx context.Context, ledger Checkpointer, stage models.Stage, records []models.RedactionRecord, prior models.Progress, logger *slog.Logger, err error) error {
	logger = logger.With("stage", string(stage), "error", err)
	logger.ErrorContext(ctx, "redaction stage failed",
		"batch_size", len(records),
		"status", prior.Tokens(),
	)

	stageErr := &models.StageError{Stage: stage, Err: err}
	if cpErr := ledger.CheckpointFailure(ctx, records, prior); cpErr != nil {
		logger.ErrorContext(ctx, "failed to checkpoint redaction failure", "checkpoint_error", cpErr)
		return &models.LedgerWriteError{Op: "checkpoint", Err: cpErr, Cause: stageErr}
	}
	return stageErr
}
