package tabular

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
)

type address struct {
	table, partition, row string
}

// InMemoryStore backs tests and local runs.
type InMemoryStore struct {
	mu       sync.RWMutex
	entities map[address]Entity

	// FailRekey, when set, is returned by Rekey.
	FailRekey error
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{entities: make(map[address]Entity)}
}

func (s *InMemoryStore) Query(_ context.Context, table, partition string) ([]Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Entity
	for addr, e := range s.entities {
		if addr.table == table && addr.partition == partition {
			out = append(out, e.Clone())
		}
	}
	slices.SortFunc(out, func(a, b Entity) int { return cmp.Compare(a.RowKey, b.RowKey) })
	return out, nil
}

func (s *InMemoryStore) Put(_ context.Context, table string, e Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities[address{table, e.PartitionKey, e.RowKey}] = e.Clone()
	return nil
}

func (s *InMemoryStore) Merge(_ context.Context, table string, e Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	addr := address{table, e.PartitionKey, e.RowKey}
	stored, ok := s.entities[addr]
	if !ok {
		return fmt.Errorf("merge %s/%s/%s: %w", table, e.PartitionKey, e.RowKey, ErrNotFound)
	}
	if stored.Properties == nil {
		stored.Properties = make(map[string]string, len(e.Properties))
	}
	maps.Copy(stored.Properties, e.Properties)
	s.entities[addr] = stored
	return nil
}

func (s *InMemoryStore) Rekey(_ context.Context, table string, e Entity, newPartition string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailRekey != nil {
		return s.FailRekey
	}
	delete(s.entities, address{table, e.PartitionKey, e.RowKey})
	moved := e.Clone()
	moved.PartitionKey = newPartition
	s.entities[address{table, newPartition, e.RowKey}] = moved
	return nil
}
