package models

import (
	"time"

	"github.com/google/uuid"
)

// Redacted flag attributes. The flag marks an agreement whose personal data
// has been removed and is never deleted.
const (
	RedactedFlagNote      = "Agreement PII redacted"
	RedactedFlagCreatedBy = "admin"
)

// Flag is an audit marker attached to an agreement.
type Flag struct {
	ID                     uuid.UUID
	ApplicationReference   string
	SBI                    string
	Note                   string
	CreatedBy              string
	AppliesToMultipleHerds bool
	Redacted               bool
	CreatedAt              time.Time
}

// NewRedactedFlag builds the completion flag for a record. The flag carries
// the replacement identifier, never the real one.
func NewRedactedFlag(r RedactionRecord, now time.Time) Flag {
	return Flag{
		ID:                   uuid.New(),
		ApplicationReference: r.ApplicationReference,
		SBI:                  r.ReplacementIdentifier,
		Note:                 RedactedFlagNote,
		CreatedBy:            RedactedFlagCreatedBy,
		Redacted:             true,
		CreatedAt:            now,
	}
}
