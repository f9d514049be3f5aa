package models

import (
	"fmt"
	"time"

	dErrors "ahwr/pkg/domain-errors"
)

// EligibilityReason explains why an agreement was selected.
type EligibilityReason string

const (
	ReasonNoPayment       EligibilityReason = "no-payment"
	ReasonRejectedPayment EligibilityReason = "rejected-payment"
	ReasonPaidUnclaimed   EligibilityReason = "paid-unclaimed"
)

// Retention thresholds, in years before the requested date.
const (
	NoPaymentRetentionYears = 3
	RejectedRetentionYears  = 3
	PaidRetentionYears      = 7
)

// Claim is a claim made under an agreement.
type Claim struct {
	Reference  string
	StatusCode int
	UpdatedAt  time.Time
}

// Agreement is the read-only view of an application the selector works from.
type Agreement struct {
	Reference string
	SBI       string
	CreatedAt time.Time
	UpdatedAt time.Time
	Claims    []Claim
}

// Candidate is an eligible agreement and the rule that selected it.
type Candidate struct {
	Agreement Agreement
	Reason    EligibilityReason
}

// RequestedDate is the calendar day a redaction batch is keyed by.
type RequestedDate struct {
	time.Time
}

const requestedDateLayout = "2006-01-02"

// ParseRequestedDate validates a YYYY-MM-DD date.
func ParseRequestedDate(s string) (RequestedDate, error) {
	t, err := time.Parse(requestedDateLayout, s)
	if err != nil {
		return RequestedDate{}, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("requestedDate %q must be YYYY-MM-DD", s))
	}
	return RequestedDate{Time: t.UTC()}, nil
}

// NewRequestedDate truncates t to its UTC calendar day.
func NewRequestedDate(t time.Time) RequestedDate {
	y, m, d := t.UTC().Date()
	return RequestedDate{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d RequestedDate) String() string {
	return d.Format(requestedDateLayout)
}

// YearsBefore returns the threshold instant n years before the date.
func (d RequestedDate) YearsBefore(n int) time.Time {
	return d.AddDate(-n, 0, 0)
}
