package flag

import (
	"context"
	"sync"

	"ahwr/internal/redaction/models"
)

// InMemoryStore keeps flags in memory for tests and local runs.
type InMemoryStore struct {
	mu    sync.RWMutex
	flags map[string]models.Flag

	// FailFor makes CreateRedacted fail for the listed references.
	FailFor map[string]error
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{flags: make(map[string]models.Flag)}
}

func (s *InMemoryStore) CreateRedacted(_ context.Context, f models.Flag) (models.Flag, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.FailFor[f.ApplicationReference]; err != nil {
		return models.Flag{}, false, err
	}
	if existing, ok := s.flags[f.ApplicationReference]; ok {
		return existing, false, nil
	}
	f.Redacted = true
	s.flags[f.ApplicationReference] = f
	return f, true, nil
}

// Get returns the redacted flag for a reference.
func (s *InMemoryStore) Get(reference string) (models.Flag, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.flags[reference]
	return f, ok
}

func (s *InMemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.flags)
}
