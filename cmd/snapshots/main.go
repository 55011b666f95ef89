package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"lakeingest/internal/config"
	"lakeingest/internal/storage"

	_ "lakeingest/internal/storage/all"
)

// main lists the snapshot history of the destination table for sinks that
// version table state. It reuses the pipeline config so the connection
// settings live in exactly one place.
func main() {
	cfgPath := flag.String("config", "configs/pipelines/yellow_trips.json", "pipeline config JSON path")
	table := flag.String("table", "", "override the table from the config")
	flag.Parse()

	p, err := config.Load(*cfgPath)
	if err != nil {
		fatalf("%v", err)
	}
	if *table != "" {
		p.Storage.Table = *table
	}

	ctx := context.Background()
	repo, err := storage.New(ctx, storage.Config{
		Kind:  p.Storage.Kind,
		Table: p.Storage.Table,
		DSN:   p.Storage.DSN,
		Trino: storage.TrinoConfig{
			Host:    p.Storage.Trino.Host,
			Port:    p.Storage.Trino.Port,
			User:    p.Storage.Trino.User,
			Catalog: p.Storage.Trino.Catalog,
			Schema:  p.Storage.Trino.Schema,
		},
	})
	if err != nil {
		fatalf("open storage: %v", err)
	}
	defer repo.Close()

	sr, ok := repo.(storage.SnapshotReporter)
	if !ok {
		fatalf("storage.kind=%s does not report snapshots", p.Storage.Kind)
	}

	snaps, err := sr.Snapshots(ctx, p.Storage.Table)
	if err != nil {
		log.Fatalf("list snapshots: %v", err)
	}

	fmt.Printf("%d snapshots for %s\n", len(snaps), p.Storage.Table)
	for _, s := range snaps {
		fmt.Printf("%d | %s | %s\n", s.ID, s.Operation, s.CommittedAt.Format(time.RFC3339))
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
