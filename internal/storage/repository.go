// Package storage contains the sink-agnostic contracts for the ingestion
// pipeline: the Repository interface every backend implements, a kind-keyed
// factory that backends register themselves with, and the batched loader
// that drives inserts.
//
// Concrete backends live in subpackages (trino, postgres, sqlite) and are
// wired in via the blank-import package storage/all.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Repository is the minimal sink contract used by the pipeline.
type Repository interface {
	// Exec runs a statement that returns no rows (typically DDL).
	Exec(ctx context.Context, stmt string) error

	// InsertBatch inserts one batch of rows, aligned to columns order, into
	// table. It returns the number of rows inserted. Implementations must
	// fully consume any result the engine returns before the next statement
	// is issued on the same connection.
	InsertBatch(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)

	// Close releases the underlying connection. The connection is opened per
	// run and never reused across runs.
	Close()
}

// Snapshot is one storage-engine snapshot of a table.
type Snapshot struct {
	ID          int64
	Operation   string
	CommittedAt time.Time
}

// SnapshotReporter is an optional Repository capability for table formats
// that version table state (Iceberg). Both methods are read-only.
type SnapshotReporter interface {
	// SnapshotCount returns the number of snapshots recorded for table.
	SnapshotCount(ctx context.Context, table string) (int64, error)

	// Snapshots returns all snapshots for table ordered by commit time
	// ascending.
	Snapshots(ctx context.Context, table string) ([]Snapshot, error)
}

// TrinoConfig carries the connection parameters for the trino backend.
// Nothing is read from the environment; callers supply every field.
type TrinoConfig struct {
	Host    string
	Port    int
	User    string
	Catalog string
	Schema  string
}

// Config selects and configures a storage backend.
type Config struct {
	// Kind selects the registered backend ("trino", "postgres", "sqlite").
	Kind string

	// Table is the destination table name, unqualified; backends scope the
	// connection to the target schema themselves.
	Table string

	// DSN configures the postgres and sqlite backends.
	DSN string

	// Trino configures the trino backend.
	Trino TrinoConfig
}

// Factory constructs a Repository for a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for a backend kind. It is
// called from backend init functions and from tests.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository for cfg.Kind using the registered factory.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered backend kinds, sorted.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
