package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"lakeingest/internal/config"
	"lakeingest/internal/datasource/file"
	"lakeingest/internal/metrics"
	"lakeingest/internal/metrics/datadog"
	"lakeingest/internal/metrics/prompush"
	"lakeingest/internal/pipeline"

	// register all backends with the storage factory.
	// config specifies which to use but we need to build in support for all of them.
	_ "lakeingest/internal/storage/all"
)

// main is the entry point for the ingest binary. It loads the pipeline
// config, optionally initializes a metrics backend, and executes the run for
// one or more monthly partitions.
func main() {
	var (
		cfgPath           string
		monthsFile        string
		metricsBackendFlg string
		pushGatewayURLFlg string
		dogstatsdAddrFlg  string
		validate          bool
	)

	flag.StringVar(&cfgPath, "config", "configs/pipelines/yellow_trips.json", "pipeline config JSON path")
	flag.StringVar(&monthsFile, "months-file", "", "optional file listing extra YYYY-MM partitions to ingest, one per line")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "none", "metrics backend to use (pushgateway, datadog, none)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "http://localhost:9091", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.StringVar(&dogstatsdAddrFlg, "dogstatsd-addr", "127.0.0.1:8125", "DogStatsD address for the datadog backend")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	p, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}

	// Validate pipeline config.
	issues := config.ValidatePipeline(p)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		log.Printf("Configuration is invalid: %v", cfgPath)
		os.Exit(1)
	}

	// If validate flag is set, only validate the configuration and exit
	if validate {
		log.Printf("Configuration is valid: %v", cfgPath)
		os.Exit(0)
	}

	initMetrics(p.Job, metricsBackendFlg, pushGatewayURLFlg, dogstatsdAddrFlg, *verbose)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	months := []string{p.Source.Month}
	if monthsFile != "" {
		extra, err := file.ReadList(monthsFile)
		if err != nil {
			fatalf("read months file: %v", err)
		}
		months = append(months, extra...)
	}

	ctx := context.Background()
	start := time.Now()

	for _, month := range months {
		run := p
		run.Source.Month = month

		if *verbose {
			log.Printf("pipeline: job=%s month=%s storage=%s table=%s",
				run.Job, month, run.Storage.Kind, run.Storage.Table)
		}

		sum, err := pipeline.Run(ctx, run)
		if err != nil {
			log.Fatalf("month %s: %v", month, err)
		}
		log.Printf("month %s: read=%d sampled=%d inserted=%d batches=%d snapshots=%d in %s",
			month, sum.RowsRead, sum.RowsSampled, sum.RowsInserted, sum.Batches,
			sum.Snapshots, sum.Duration.Truncate(time.Millisecond))
	}

	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}

// initMetrics wires the selected metrics backend: flag → env → nop.
func initMetrics(job, backendName, gwURL, ddAddr string, verbose bool) {
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	if job == "" {
		job = "ingest_job"
	}

	switch backendName {
	case "pushgateway":
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend(job, gwURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: url=%v, backend=%v, job_name=%v", gwURL, backendName, job)
		metrics.SetBackend(b)

	case "datadog":
		if ddAddr == "" {
			ddAddr = os.Getenv("DOGSTATSD_ADDR")
		}
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       ddAddr,
			Namespace:  "ingest.",
			GlobalTags: []string{"job:" + job},
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: addr=%v, backend=%v, job_name=%v", ddAddr, backendName, job)
		metrics.SetBackend(b)

	case "none":
		// metrics disabled; nop backend remains
		if verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
