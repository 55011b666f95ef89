// Package config defines the canonical, JSON-serializable configuration model
// for the ingestion application. It is intentionally small, explicit, and
// dependency-free so that pipelines can be loaded from disk (or other sources)
// and passed through the program without additional glue code.
//
// Design goals:
//
//  1. Stability: Changes to this package should be additive and backwards-
//     compatible whenever possible.
//  2. Clarity: Field names in Go mirror the JSON structure used in pipeline
//     files under configs/pipelines/*.json.
//  3. Minimalism: No third-party config libraries; decoding is performed by the
//     standard library.
//
// Example (trimmed):
//
//	{
//	  "job":     "yellow_trips",
//	  "source":  { "dataset": "yellow_tripdata", "month": "2024-01" },
//	  "sample":  { "sample_size": 10000, "batch_size": 500 },
//	  "storage": { "kind": "trino", "table": "yellow_trips",
//	               "trino": { "host": "localhost", "port": 8085, "user": "admin" } },
//	  "dbt":     { "enabled": true, "project_dir": "dbt" }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Default endpoint and sizing values applied by ApplyDefaults. They match the
// local lakehouse compose stack and keep small configs terse.
const (
	DefaultBaseURL = "https://d37ci6vzurychx.cloudfront.net/trip-data"
	DefaultDataset = "yellow_tripdata"
	DefaultDataDir = "data"

	DefaultSampleSize = 10000
	DefaultBatchSize  = 500

	DefaultTrinoHost    = "localhost"
	DefaultTrinoPort    = 8085
	DefaultTrinoUser    = "admin"
	DefaultTrinoCatalog = "iceberg"
	DefaultTrinoSchema  = "raw"
)

// Pipeline describes a full ingestion run in JSON. It is the top-level object
// decoded from a pipeline file (e.g., configs/pipelines/*.json).
type Pipeline struct {
	// Job names the run. It is used for metrics labeling and log prefixes.
	Job string `json:"job"`

	// Source describes where the parquet dataset comes from.
	Source Source `json:"source"`

	// Sample controls how many rows are taken from the dataset and how they
	// are chunked for insertion.
	Sample Sample `json:"sample"`

	// Storage describes where sampled rows are written (e.g., Trino/Iceberg).
	Storage Storage `json:"storage"`

	// DBT optionally triggers a dbt build after a successful load.
	DBT DBT `json:"dbt"`
}

// Source identifies the parquet dataset to ingest. Either a remote dataset
// (base_url + dataset + month) or a local file path may be given; a non-empty
// Path wins and skips the download entirely.
type Source struct {
	// BaseURL is the directory-style URL prefix holding monthly dataset files.
	BaseURL string `json:"base_url"`

	// Dataset is the dataset file stem, e.g. "yellow_tripdata".
	Dataset string `json:"dataset"`

	// Month selects the monthly partition in "YYYY-MM" form.
	Month string `json:"month"`

	// Path points at an already-downloaded parquet file. When set, no HTTP
	// request is made.
	Path string `json:"path"`

	// DataDir is the local cache directory for downloaded files.
	DataDir string `json:"data_dir"`

	// VerifyRemote, when true, peeks at the remote file's leading bytes and
	// rejects URLs that do not serve parquet before starting the download.
	VerifyRemote bool `json:"verify_remote"`
}

// URL returns the full dataset URL for the configured month, e.g.
// ".../yellow_tripdata_2024-01.parquet". It assumes defaults were applied.
func (s Source) URL() string {
	return fmt.Sprintf("%s/%s_%s.parquet",
		strings.TrimRight(s.BaseURL, "/"), s.Dataset, s.Month)
}

// Sample controls row sampling and insert chunking.
type Sample struct {
	// SampleSize caps how many rows are taken from the head of the dataset.
	// Zero means the default; a dataset smaller than the cap is used whole.
	SampleSize int `json:"sample_size"`

	// BatchSize is the number of rows per INSERT statement.
	BatchSize int `json:"batch_size"`
}

// Storage selects the sink used to persist sampled rows.
type Storage struct {
	// Kind selects the storage implementation: "trino", "postgres" or
	// "sqlite".
	Kind string `json:"kind"`

	// Table is the destination table name. For Trino it is unqualified; the
	// catalog and schema come from the Trino block.
	Table string `json:"table"`

	// DSN is the connection string for the "postgres" and "sqlite" kinds.
	DSN string `json:"dsn"`

	// Trino carries options for the "trino" storage kind.
	Trino Trino `json:"trino"`
}

// Trino holds coordinator connection settings for the "trino" storage kind.
type Trino struct {
	Host    string `json:"host"`
	Port    int    `json:"port"`
	User    string `json:"user"`
	Catalog string `json:"catalog"`
	Schema  string `json:"schema"`
}

// DBT configures the optional post-load dbt build step.
type DBT struct {
	// Enabled gates the step. A failed load never triggers dbt.
	Enabled bool `json:"enabled"`

	// ProjectDir is passed as --project-dir.
	ProjectDir string `json:"project_dir"`

	// ProfilesDir is passed as --profiles-dir. Empty means dbt's own lookup.
	ProfilesDir string `json:"profiles_dir"`

	// Args appends extra arguments to the dbt invocation, e.g. ["--select",
	// "staging"].
	Args []string `json:"args"`
}

// ApplyDefaults fills zero-valued fields with the package defaults. It is
// called by Load; callers constructing a Pipeline in code may invoke it
// directly.
func (p *Pipeline) ApplyDefaults() {
	if p.Source.BaseURL == "" {
		p.Source.BaseURL = DefaultBaseURL
	}
	if p.Source.Dataset == "" {
		p.Source.Dataset = DefaultDataset
	}
	if p.Source.DataDir == "" {
		p.Source.DataDir = DefaultDataDir
	}
	if p.Sample.SampleSize == 0 {
		p.Sample.SampleSize = DefaultSampleSize
	}
	if p.Sample.BatchSize == 0 {
		p.Sample.BatchSize = DefaultBatchSize
	}
	if p.Storage.Trino.Host == "" {
		p.Storage.Trino.Host = DefaultTrinoHost
	}
	if p.Storage.Trino.Port == 0 {
		p.Storage.Trino.Port = DefaultTrinoPort
	}
	if p.Storage.Trino.User == "" {
		p.Storage.Trino.User = DefaultTrinoUser
	}
	if p.Storage.Trino.Catalog == "" {
		p.Storage.Trino.Catalog = DefaultTrinoCatalog
	}
	if p.Storage.Trino.Schema == "" {
		p.Storage.Trino.Schema = DefaultTrinoSchema
	}
}

// Load reads a pipeline file from disk, decodes it strictly (unknown fields
// are rejected to catch typos early), and applies defaults.
func Load(path string) (Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	var p Pipeline
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Pipeline{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	p.ApplyDefaults()
	return p, nil
}
