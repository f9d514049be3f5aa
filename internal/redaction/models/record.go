package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Outcome is the tri-state success marker on a ledger record.
type Outcome string

const (
	OutcomePending   Outcome = ""
	OutcomeSucceeded Outcome = "Y"
	OutcomeFailed    Outcome = "N"
)

// ClaimRef identifies a claim captured at selection time.
type ClaimRef struct {
	Reference string `json:"reference"`
}

// Snapshot is the agreement data captured when a record is created. Stages
// read it instead of the agreement tables, which are redacted part-way through.
type Snapshot struct {
	SBI       string     `json:"sbi"`
	Claims    []ClaimRef `json:"claims"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// InWindow reports whether t falls in [StartDate, EndDate).
func (s Snapshot) InWindow(t time.Time) bool {
	if t.Before(s.StartDate) {
		return false
	}
	return s.EndDate == nil || t.Before(*s.EndDate)
}

// ClaimReferences lists the captured claim references.
func (s Snapshot) ClaimReferences() []string {
	refs := make([]string, 0, len(s.Claims))
	for _, c := range s.Claims {
		refs = append(refs, c.Reference)
	}
	return refs
}

// RedactionRecord is one agreement's ledger entry for a requested date.
type RedactionRecord struct {
	ID                    uuid.UUID
	ApplicationReference  string
	RequestedDate         RequestedDate
	Status                Progress
	RetryCount            int
	Success               Outcome
	ReplacementIdentifier string
	Snapshot              Snapshot
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// IsTerminal reports whether the record has finished every stage.
func (r RedactionRecord) IsTerminal() bool {
	return r.Success == OutcomeSucceeded
}

// Batch is the working set for one orchestrator run.
type Batch struct {
	Records []RedactionRecord
	Status  Progress
}

// IsEmpty reports whether there is nothing to redact.
func (b Batch) IsEmpty() bool { return len(b.Records) == 0 }

// References lists the application references in the batch.
func (b Batch) References() []string {
	return References(b.Records)
}

// References lists the application references of records.
func References(records []RedactionRecord) []string {
	refs := make([]string, 0, len(records))
	for _, r := range records {
		refs = append(refs, r.ApplicationReference)
	}
	return refs
}

// CommonProgress returns the least progress across records. Failure
// checkpoints and the final write cover the whole batch, so records normally
// agree; when they do not, resuming from the earliest point is safe because
// every stage is idempotent.
func CommonProgress(records []RedactionRecord) Progress {
	if len(records) == 0 {
		return ProgressNone
	}
	p := records[0].Status
	for _, r := range records[1:] {
		if r.Status < p {
			p = r.Status
		}
	}
	return p
}

// Reference prefixes used by the legacy and current application schemes.
// The same agreement can surface under both.
var referencePrefixes = []string{"AHWR-", "IAHW-"}

// NormalizeReference returns the scheme-independent key for a reference.
func NormalizeReference(ref string) string {
	key := strings.ToUpper(strings.TrimSpace(ref))
	for _, p := range referencePrefixes {
		if strings.HasPrefix(key, p) {
			return strings.TrimPrefix(key, p)
		}
	}
	return key
}
