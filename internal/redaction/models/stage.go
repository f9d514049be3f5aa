package models

import (
	"fmt"

	"ahwr/pkg/platform/sentinel"
)

// Stage is one step of the redaction pipeline. The string value is the token
// persisted in the ledger.
type Stage string

const (
	StageDocuments       Stage = "documents"
	StageMessages        Stage = "messages"
	StageStorageAccounts Stage = "storage-accounts"
	StageDatabaseTables  Stage = "database-tables"
	StageRedactedFlag    Stage = "redacted-flag"
)

// Pipeline is the fixed stage order. A Progress value indexes into it.
var Pipeline = [...]Stage{
	StageDocuments,
	StageMessages,
	StageStorageAccounts,
	StageDatabaseTables,
	StageRedactedFlag,
}

func (s Stage) index() int {
	for i, st := range Pipeline {
		if st == s {
			return i
		}
	}
	return -1
}

// IsValid reports whether s is one of the pipeline stages.
func (s Stage) IsValid() bool { return s.index() >= 0 }

// Progress counts completed stages. Because stages complete strictly in
// pipeline order, a count is enough to describe the completed set and any
// out-of-order state is unrepresentable.
type Progress int

const (
	ProgressNone     Progress = 0
	ProgressComplete Progress = Progress(len(Pipeline))
)

// ParseProgress validates persisted tokens and converts them to a Progress.
// The tokens must be exactly a prefix of Pipeline.
func ParseProgress(tokens []string) (Progress, error) {
	if len(tokens) > len(Pipeline) {
		return ProgressNone, fmt.Errorf("%w: %d stage tokens exceeds pipeline length", sentinel.ErrInvalidState, len(tokens))
	}
	for i, tok := range tokens {
		if Stage(tok) != Pipeline[i] {
			return ProgressNone, fmt.Errorf("%w: stage token %q at position %d, expected %q", sentinel.ErrInvalidState, tok, i, Pipeline[i])
		}
	}
	return Progress(len(tokens)), nil
}

// Stages returns the completed stages in order.
func (p Progress) Stages() []Stage {
	out := make([]Stage, 0, int(p))
	out = append(out, Pipeline[:p]...)
	return out
}

// Tokens returns the completed stages as persisted strings.
func (p Progress) Tokens() []string {
	out := make([]string, 0, int(p))
	for _, s := range Pipeline[:p] {
		out = append(out, string(s))
	}
	return out
}

// Has reports whether stage s is already complete.
func (p Progress) Has(s Stage) bool {
	i := s.index()
	return i >= 0 && i < int(p)
}

// Next returns the stage that must run next, or false when complete.
func (p Progress) Next() (Stage, bool) {
	if p >= ProgressComplete {
		return "", false
	}
	return Pipeline[p], true
}

// Advance marks s complete. Only the next stage in order may be advanced.
func (p Progress) Advance(s Stage) (Progress, error) {
	next, ok := p.Next()
	if !ok || next != s {
		return p, fmt.Errorf("%w: cannot complete %q after %v", sentinel.ErrInvalidState, s, p.Tokens())
	}
	return p + 1, nil
}

// IsComplete reports whether every stage has run.
func (p Progress) IsComplete() bool { return p >= ProgressComplete }

// State names the lifecycle state for logs and the admin API.
func (p Progress) State() string {
	switch p {
	case 0:
		return "SELECTED"
	case 1:
		return "DOCS_DONE"
	case 2:
		return "MESSAGES_DONE"
	case 3:
		return "STORAGE_DONE"
	case 4:
		return "DB_DONE"
	default:
		return "FLAGGED"
	}
}
