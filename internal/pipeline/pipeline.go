// Package pipeline orchestrates one ingestion run end to end: fetch the
// parquet dataset, sample rows, load them into the configured sink, report
// table snapshots, and optionally trigger a dbt build.
//
// Every step is timed and recorded through the metrics package under the
// configured job name. Steps run strictly in order; the first failure aborts
// the run and is returned wrapped with the step name.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"lakeingest/internal/config"
	"lakeingest/internal/datasource/file"
	"lakeingest/internal/datasource/httpds"
	"lakeingest/internal/dbt"
	"lakeingest/internal/metrics"
	"lakeingest/internal/schema"
	"lakeingest/internal/storage"
	"lakeingest/internal/tabular"
)

// Summary reports what a completed run did.
type Summary struct {
	SourcePath   string
	Downloaded   bool
	BytesFetched int64

	RowsRead     int
	RowsSampled  int
	RowsInserted int64
	Batches      int64

	Snapshots int64 // -1 when the sink does not report snapshots

	Duration time.Duration
}

// Test seams. Production code never reassigns these.
var (
	openRepository = storage.New
	runDBT         = dbt.Build
)

// Run executes the full pipeline for cfg and returns a Summary. On error the
// Summary still carries the counters accumulated up to the failing step.
func Run(ctx context.Context, cfg config.Pipeline) (Summary, error) {
	var (
		sum   Summary
		start = time.Now()
	)
	defer func() { sum.Duration = time.Since(start) }()

	if err := step(cfg.Job, "fetch", func() error {
		return fetchDataset(ctx, cfg, &sum)
	}); err != nil {
		return sum, err
	}
	metrics.RecordBytes(cfg.Job, sum.BytesFetched)

	repo, err := openRepository(ctx, storage.Config{
		Kind:  cfg.Storage.Kind,
		Table: cfg.Storage.Table,
		DSN:   cfg.Storage.DSN,
		Trino: storage.TrinoConfig{
			Host:    cfg.Storage.Trino.Host,
			Port:    cfg.Storage.Trino.Port,
			User:    cfg.Storage.Trino.User,
			Catalog: cfg.Storage.Trino.Catalog,
			Schema:  cfg.Storage.Trino.Schema,
		},
	})
	if err != nil {
		return sum, fmt.Errorf("open storage: %w", err)
	}
	defer repo.Close()

	if err := step(cfg.Job, "schema", func() error {
		return ensureSchema(ctx, cfg, repo)
	}); err != nil {
		return sum, err
	}

	var sample *tabular.Table
	if err := step(cfg.Job, "sample", func() error {
		table, err := tabular.ReadParquet(ctx, sum.SourcePath)
		if err != nil {
			return err
		}
		sum.RowsRead = table.NumRows()
		sample = table.Head(cfg.Sample.SampleSize)
		sum.RowsSampled = sample.NumRows()
		return sample.Validate()
	}); err != nil {
		return sum, err
	}
	metrics.RecordRows(cfg.Job, "read", int64(sum.RowsRead))
	metrics.RecordRows(cfg.Job, "sampled", int64(sum.RowsSampled))
	log.Printf("pipeline: read %d rows, sampling %d into %s",
		sum.RowsRead, sum.RowsSampled, cfg.Storage.Table)

	if err := step(cfg.Job, "load", func() error {
		res, err := storage.LoadBatches(ctx, repo, cfg.Storage.Table,
			sample.Columns, sample.NumRows(), sample.Batches(cfg.Sample.BatchSize))
		sum.RowsInserted = res.Rows
		sum.Batches = res.Batches
		return err
	}); err != nil {
		return sum, err
	}
	metrics.RecordRows(cfg.Job, "inserted", sum.RowsInserted)
	metrics.RecordBatches(cfg.Job, sum.Batches)

	if err := step(cfg.Job, "snapshots", func() error {
		return reportSnapshots(ctx, cfg, repo, &sum)
	}); err != nil {
		return sum, err
	}

	if cfg.DBT.Enabled {
		if err := step(cfg.Job, "dbt", func() error {
			return runDBT(ctx, dbt.Options{
				ProjectDir:  cfg.DBT.ProjectDir,
				ProfilesDir: cfg.DBT.ProfilesDir,
				Args:        cfg.DBT.Args,
			})
		}); err != nil {
			return sum, err
		}
	}

	return sum, nil
}

// step times f and records its outcome under the job and step name.
func step(job, name string, f func() error) error {
	start := time.Now()
	err := f()
	metrics.RecordStep(job, name, err, time.Since(start))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	log.Printf("pipeline: step %s done in %s", name, time.Since(start).Truncate(time.Millisecond))
	return nil
}

// fetchDataset resolves the parquet file onto local disk, downloading it when
// no local copy exists yet.
func fetchDataset(ctx context.Context, cfg config.Pipeline, sum *Summary) error {
	if cfg.Source.Path != "" {
		// Open and close once so a bad path fails here, not mid-read.
		rc, err := file.NewLocal(cfg.Source.Path).Open(ctx)
		if err != nil {
			return err
		}
		rc.Close()
		sum.SourcePath = cfg.Source.Path
		return nil
	}

	url := cfg.Source.URL()
	client := httpds.NewClient(httpds.Config{Timeout: 10 * time.Minute})
	if cfg.Source.VerifyRemote {
		if err := client.VerifyParquetURL(ctx, url); err != nil {
			return err
		}
	}

	dest := filepath.Join(cfg.Source.DataDir, httpds.BaseFilenameFromURL(url))
	res, err := client.DownloadFile(ctx, url, dest)
	if err != nil {
		return err
	}
	sum.SourcePath = res.Path
	sum.Downloaded = res.Downloaded
	if res.Downloaded {
		sum.BytesFetched = res.Size
		log.Printf("pipeline: downloaded %s (%d bytes, digest %016x)", res.Path, res.Size, res.Digest)
	} else {
		log.Printf("pipeline: reusing %s (%d bytes, digest %016x)", res.Path, res.Size, res.Digest)
	}
	return nil
}

// ensureSchema creates the lakehouse schemas and the trips table. Only the
// trino sink carries the managed DDL; other sinks are expected to have their
// destination table prepared out of band.
func ensureSchema(ctx context.Context, cfg config.Pipeline, repo storage.Repository) error {
	if cfg.Storage.Kind != "trino" {
		log.Printf("pipeline: skipping managed DDL for storage.kind=%s", cfg.Storage.Kind)
		return nil
	}
	for _, stmt := range schema.Statements(cfg.Storage.Trino.Catalog) {
		if err := repo.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// reportSnapshots logs the sink's snapshot history when it has one.
func reportSnapshots(ctx context.Context, cfg config.Pipeline, repo storage.Repository, sum *Summary) error {
	sr, ok := repo.(storage.SnapshotReporter)
	if !ok {
		sum.Snapshots = -1
		log.Printf("pipeline: storage.kind=%s does not report snapshots", cfg.Storage.Kind)
		return nil
	}

	count, err := sr.SnapshotCount(ctx, cfg.Storage.Table)
	if err != nil {
		return err
	}
	sum.Snapshots = count

	snaps, err := sr.Snapshots(ctx, cfg.Storage.Table)
	if err != nil {
		return err
	}
	log.Printf("pipeline: table %s has %d snapshots", cfg.Storage.Table, count)
	for _, s := range snaps {
		log.Printf("pipeline: snapshot id=%d operation=%s committed_at=%s",
			s.ID, s.Operation, s.CommittedAt.Format(time.RFC3339))
	}
	return nil
}
