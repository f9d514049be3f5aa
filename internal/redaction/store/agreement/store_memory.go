package agreement

import (
	"context"
	"slices"
	"sync"
	"time"

	"ahwr/internal/redaction/models"
)

// SelectedFunc reports whether a reference already has a ledger row.
type SelectedFunc func(reference string) bool

// ReservedFunc reports whether a ledger row already holds sbi as its
// replacement.
type ReservedFunc func(sbi string) bool

// InMemoryStore applies the same eligibility rules as the Postgres queries
// over agreements held in memory.
type InMemoryStore struct {
	mu         sync.RWMutex
	agreements []models.Agreement
	selected   SelectedFunc
	reserved   ReservedFunc
}

// NewInMemory builds a store. selected may be nil.
func NewInMemory(selected SelectedFunc, agreements ...models.Agreement) *InMemoryStore {
	if selected == nil {
		selected = func(string) bool { return false }
	}
	return &InMemoryStore{agreements: agreements, selected: selected, reserved: func(string) bool { return false }}
}

// WithReserved makes SBIExists also consult reserved replacements.
func (s *InMemoryStore) WithReserved(reserved ReservedFunc) *InMemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reserved = reserved
	return s
}

// Add appends an agreement.
func (s *InMemoryStore) Add(a models.Agreement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agreements = append(s.agreements, a)
}

func (s *InMemoryStore) FindNoPayment(_ context.Context, olderThan time.Time) ([]models.Agreement, error) {
	return s.filter(func(a models.Agreement) bool {
		if !a.CreatedAt.Before(olderThan) {
			return false
		}
		for _, c := range a.Claims {
			if isDecision(c.StatusCode) || !c.UpdatedAt.Before(olderThan) {
				return false
			}
		}
		return true
	}), nil
}

func (s *InMemoryStore) FindRejectedPayment(_ context.Context, lastUpdateBefore time.Time) ([]models.Agreement, error) {
	return s.filter(func(a models.Agreement) bool {
		return hasStatus(a, ClaimStatusRejected) && !hasStatus(a, ClaimStatusPaid) && lastClaimUpdate(a).Before(lastUpdateBefore)
	}), nil
}

func (s *InMemoryStore) FindPaidUnclaimed(_ context.Context, lastUpdateBefore time.Time) ([]models.Agreement, error) {
	return s.filter(func(a models.Agreement) bool {
		return hasStatus(a, ClaimStatusPaid) && lastClaimUpdate(a).Before(lastUpdateBefore)
	}), nil
}

func (s *InMemoryStore) FindClaims(_ context.Context, reference string) ([]models.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.agreements {
		if a.Reference == reference {
			return slices.Clone(a.Claims), nil
		}
	}
	return nil, nil
}

func (s *InMemoryStore) FindNextCreatedAt(_ context.Context, sbi string, after time.Time) (*time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var next *time.Time
	for _, a := range s.agreements {
		if a.SBI != sbi || !a.CreatedAt.After(after) {
			continue
		}
		if next == nil || a.CreatedAt.Before(*next) {
			t := a.CreatedAt
			next = &t
		}
	}
	return next, nil
}

func (s *InMemoryStore) SBIExists(_ context.Context, sbi string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.agreements {
		if a.SBI == sbi {
			return true, nil
		}
	}
	return s.reserved(sbi), nil
}

func (s *InMemoryStore) filter(keep func(models.Agreement) bool) []models.Agreement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Agreement
	for _, a := range s.agreements {
		if s.selected(a.Reference) || !keep(a) {
			continue
		}
		found := a
		found.Claims = nil
		out = append(out, found)
	}
	return out
}

func isDecision(code int) bool {
	return code == ClaimStatusPaid || code == ClaimStatusRejected
}

func hasStatus(a models.Agreement, code int) bool {
	for _, c := range a.Claims {
		if c.StatusCode == code {
			return true
		}
	}
	return false
}

func lastClaimUpdate(a models.Agreement) time.Time {
	var last time.Time
	for _, c := range a.Claims {
		if c.UpdatedAt.After(last) {
			last = c.UpdatedAt
		}
	}
	return last
}
