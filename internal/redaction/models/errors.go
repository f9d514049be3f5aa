package models

import (
	"errors"
	"fmt"

	dErrors "ahwr/pkg/domain-errors"
)

// SelectionError wraps a failure to read agreements while building a batch.
// No ledger row has been written when it is returned.
type SelectionError struct {
	Err error
}

func (e *SelectionError) Error() string { return fmt.Sprintf("select agreements: %v", e.Err) }
func (e *SelectionError) Unwrap() error { return e.Err }

// StageError wraps a stage failure after the ledger has been checkpointed at
// the progress held before the stage started.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("stage %s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// LedgerWriteError wraps a failure to persist ledger state. Cause carries the
// stage error being checkpointed, when there was one.
type LedgerWriteError struct {
	Op    string
	Err   error
	Cause error
}

func (e *LedgerWriteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ledger %s: %v (while recording: %v)", e.Op, e.Err, e.Cause)
	}
	return fmt.Sprintf("ledger %s: %v", e.Op, e.Err)
}

func (e *LedgerWriteError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// AsDomainError assigns a transport code to pipeline errors. Errors that
// already carry a code (validation) pass through unchanged.
func AsDomainError(err error) error {
	if err == nil {
		return nil
	}
	var (
		de  *dErrors.Error
		sel *SelectionError
		st  *StageError
		lw  *LedgerWriteError
	)
	switch {
	case errors.As(err, &de):
		return err
	case errors.As(err, &lw):
		return dErrors.Wrap(err, dErrors.CodeInternal, "redaction ledger write failed")
	case errors.As(err, &st):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "redaction stage failed")
	case errors.As(err, &sel):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "agreement selection failed")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "redaction failed")
}
