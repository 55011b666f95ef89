// Package trino implements the Trino-backed storage.Repository used to load
// rows into Iceberg tables. Batches are submitted as single multi-row INSERT
// statements with inline literals (see sqlgen), and Iceberg snapshot
// accounting is exposed through the reserved "$snapshots" metadata view.
package trino

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/trinodb/trino-go-client/trino"

	"lakeingest/internal/sqlgen"
	"lakeingest/internal/storage"
)

// Config holds Trino connection parameters. All fields are required except
// Catalog and Schema, which default to "iceberg" and "raw" when empty.
type Config struct {
	Host    string
	Port    int
	User    string
	Catalog string
	Schema  string
}

// Repository is a Trino-backed implementation of storage.Repository and
// storage.SnapshotReporter.
type Repository struct {
	db  *sql.DB
	cfg Config
}

var _ storage.SnapshotReporter = (*Repository)(nil)

// NewRepository opens a Trino connection scoped to the configured catalog and
// schema and returns a Repository plus a Close function for cleanup. The
// connection belongs to a single run; it is not pooled across runs.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, nil, fmt.Errorf("trino: Host must not be empty")
	}
	if cfg.Port <= 0 {
		return nil, nil, fmt.Errorf("trino: Port must be > 0")
	}
	if strings.TrimSpace(cfg.User) == "" {
		return nil, nil, fmt.Errorf("trino: User must not be empty")
	}
	if cfg.Catalog == "" {
		cfg.Catalog = "iceberg"
	}
	if cfg.Schema == "" {
		cfg.Schema = "raw"
	}

	dsn, err := (&trino.Config{
		ServerURI: serverURI(cfg),
		Catalog:   cfg.Catalog,
		Schema:    cfg.Schema,
		Source:    "lakeingest",
	}).FormatDSN()
	if err != nil {
		return nil, nil, fmt.Errorf("trino: format dsn: %w", err)
	}

	db, err := sql.Open("trino", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("trino: open: %w", err)
	}

	// One logical thread of control, one connection.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("trino: ping %s: %w", cfg.Host, err)
	}

	closeFn := func() { db.Close() }
	return &Repository{db: db, cfg: cfg}, closeFn, nil
}

// serverURI builds the HTTP server URI carrying the user, e.g.
// "http://admin@localhost:8085".
func serverURI(cfg Config) string {
	return fmt.Sprintf("http://%s@%s:%d", cfg.User, cfg.Host, cfg.Port)
}

// Exec runs a statement that returns no meaningful rows (DDL). The result is
// still drained so the connection is clean for the next statement.
func (r *Repository) Exec(ctx context.Context, stmt string) error {
	if strings.TrimSpace(stmt) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("trino: exec: %w", err)
	}
	return nil
}

// InsertBatch builds one multi-row INSERT statement for the batch and submits
// it on the run's connection. The statement's result set is drained before
// returning; an undrained result can leave the protocol mid-page for the next
// statement.
//
// Errors are returned to the caller untouched apart from wrapping; there is
// no retry and no rollback of previously committed batches.
func (r *Repository) InsertBatch(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("trino: InsertBatch: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	stmt := sqlgen.BuildInsert(table, columns, rows)

	res, err := r.db.QueryContext(ctx, stmt)
	if err != nil {
		return 0, fmt.Errorf("trino: insert into %s: %w", table, err)
	}
	defer res.Close()
	for res.Next() {
		// discard
	}
	if err := res.Err(); err != nil {
		return 0, fmt.Errorf("trino: insert into %s: drain: %w", table, err)
	}
	return int64(len(rows)), nil
}

// SnapshotCount reports how many Iceberg snapshots exist for table.
func (r *Repository) SnapshotCount(ctx context.Context, table string) (int64, error) {
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s", snapshotsRelation(r.cfg.Catalog, r.cfg.Schema, table))
	var n int64
	if err := r.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("trino: snapshot count for %s: %w", table, err)
	}
	return n, nil
}

// Snapshots returns every Iceberg snapshot for table ordered by commit time
// ascending.
func (r *Repository) Snapshots(ctx context.Context, table string) ([]storage.Snapshot, error) {
	q := fmt.Sprintf(
		"SELECT snapshot_id, operation, committed_at FROM %s ORDER BY committed_at",
		snapshotsRelation(r.cfg.Catalog, r.cfg.Schema, table),
	)
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("trino: snapshots for %s: %w", table, err)
	}
	defer rows.Close()

	var snaps []storage.Snapshot
	for rows.Next() {
		var s storage.Snapshot
		if err := rows.Scan(&s.ID, &s.Operation, &s.CommittedAt); err != nil {
			return nil, fmt.Errorf("trino: scan snapshot: %w", err)
		}
		snaps = append(snaps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trino: snapshots for %s: %w", table, err)
	}
	return snaps, nil
}

// snapshotsRelation qualifies the engine-provided "$snapshots" view for a
// table, e.g. iceberg.raw."yellow_trips$snapshots".
func snapshotsRelation(catalog, schema, table string) string {
	return fmt.Sprintf("%s.%s.\"%s$snapshots\"", catalog, schema, table)
}
