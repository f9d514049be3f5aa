// Package tabular is a partitioned entity store: every entity lives under a
// table, a partition key and a row key, and carries a flat set of string
// properties. Partition keys are immutable; moving an entity to another
// partition is a delete plus a create.
package tabular

import (
	"context"
	"errors"
	"maps"
	"time"
)

// ErrNotFound is returned when an addressed entity does not exist.
var ErrNotFound = errors.New("tabular entity not found")

// Entity is one row.
type Entity struct {
	PartitionKey string
	RowKey       string
	Timestamp    time.Time
	Properties   map[string]string
}

// Clone returns a copy that shares no map with e.
func (e Entity) Clone() Entity {
	e.Properties = maps.Clone(e.Properties)
	return e
}

// Store is implemented by the Redis and in-memory backends.
type Store interface {
	// Query lists every entity in a partition, ordered by row key.
	Query(ctx context.Context, table, partition string) ([]Entity, error)
	// Put creates or replaces an entity.
	Put(ctx context.Context, table string, e Entity) error
	// Merge sets the given properties on an existing entity and leaves the
	// others untouched.
	Merge(ctx context.Context, table string, e Entity) error
	// Rekey moves e to newPartition atomically, writing e's properties at the
	// new address.
	Rekey(ctx context.Context, table string, e Entity, newPartition string) error
}
