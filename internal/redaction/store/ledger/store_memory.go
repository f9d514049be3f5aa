package ledger

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"ahwr/internal/redaction/models"
	"ahwr/pkg/platform/sentinel"
)

// InMemoryStore is a ledger for tests and local runs. It mirrors the Postgres
// store's uniqueness and immutability rules.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]models.RedactionRecord
	order   []uuid.UUID
	now     func() time.Time

	// FailCheckpoint and FailComplete inject write failures.
	FailCheckpoint error
	FailComplete   error
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[uuid.UUID]models.RedactionRecord),
		now:     time.Now,
	}
}

func (s *InMemoryStore) Create(_ context.Context, record *models.RedactionRecord) error {
	if record == nil {
		return fmt.Errorf("redaction record is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.records {
		if existing.ApplicationReference == record.ApplicationReference && existing.RequestedDate.Equal(record.RequestedDate.Time) {
			return fmt.Errorf("redaction record %s for %s: %w", record.ApplicationReference, record.RequestedDate, sentinel.ErrConflict)
		}
	}
	s.records[record.ID] = *record
	s.order = append(s.order, record.ID)
	return nil
}

func (s *InMemoryStore) FindUnfinished(_ context.Context, date models.RequestedDate) ([]models.RedactionRecord, error) {
	return s.filter(func(r models.RedactionRecord) bool {
		return r.RequestedDate.Equal(date.Time) && r.Success != models.OutcomeSucceeded
	}), nil
}

func (s *InMemoryStore) ListByDate(_ context.Context, date models.RequestedDate) ([]models.RedactionRecord, error) {
	return s.filter(func(r models.RedactionRecord) bool { return r.RequestedDate.Equal(date.Time) }), nil
}

// All returns every record in insertion order.
func (s *InMemoryStore) All() []models.RedactionRecord {
	return s.filter(func(models.RedactionRecord) bool { return true })
}

// HasReference reports whether any record exists for the reference.
func (s *InMemoryStore) HasReference(ref string) bool {
	return len(s.filter(func(r models.RedactionRecord) bool { return r.ApplicationReference == ref })) > 0
}

// HasReplacement reports whether any record holds sbi as its replacement.
func (s *InMemoryStore) HasReplacement(sbi string) bool {
	return len(s.filter(func(r models.RedactionRecord) bool { return r.ReplacementIdentifier == sbi })) > 0
}

func (s *InMemoryStore) CheckpointFailure(_ context.Context, records []models.RedactionRecord, prior models.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailCheckpoint != nil {
		return s.FailCheckpoint
	}
	for _, r := range records {
		stored, ok := s.records[r.ID]
		if !ok {
			continue
		}
		if stored.Status <= prior {
			stored.Status = prior
		}
		stored.RetryCount++
		stored.Success = models.OutcomeFailed
		stored.UpdatedAt = s.now()
		s.records[r.ID] = stored
	}
	return nil
}

func (s *InMemoryStore) MarkSucceeded(_ context.Context, records []models.RedactionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailComplete != nil {
		return s.FailComplete
	}
	for _, r := range records {
		if _, ok := s.records[r.ID]; !ok {
			return fmt.Errorf("mark redaction %s succeeded: %w", r.ApplicationReference, sentinel.ErrNotFound)
		}
	}
	for _, r := range records {
		stored := s.records[r.ID]
		stored.Status = models.ProgressComplete
		stored.Success = models.OutcomeSucceeded
		stored.UpdatedAt = s.now()
		s.records[r.ID] = stored
	}
	return nil
}

func (s *InMemoryStore) filter(keep func(models.RedactionRecord) bool) []models.RedactionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.RedactionRecord
	for _, id := range s.order {
		if r := s.records[id]; keep(r) {
			out = append(out, r)
		}
	}
	return slices.Clip(out)
}
