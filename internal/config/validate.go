// Package config provides configuration models and helpers for ingestion
// pipelines.
//
// This file adds a lightweight linter/validator for Pipeline values. It
// performs static checks over a decoded Pipeline and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"regexp"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "storage.kind",
// "source.month"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// monthPattern matches the "YYYY-MM" partition form used by dataset filenames.
var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidatePipeline performs static validation / linting of a Pipeline.
//
// It does not mutate the pipeline. Instead it returns a slice of Issue values.
// Callers may decide whether to treat warnings as fatal or not.
//
// Example:
//
//	p, err := config.Load(path)
//	if err != nil { ... }
//	issues := config.ValidatePipeline(p)
//	for _, iss := range issues {
//	    fmt.Printf("%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
//	}
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	// Top-level pipeline checks.
	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}
	issues = append(issues, validateSource(p.Source)...)
	issues = append(issues, validateSample(p.Sample)...)
	issues = append(issues, validateStorage(p.Storage)...)
	issues = append(issues, validateDBT(p.DBT)...)

	return issues
}

// validateSource validates Source configuration.
func validateSource(s Source) []Issue {
	var issues []Issue

	// A local path supersedes the remote settings entirely.
	if strings.TrimSpace(s.Path) != "" {
		if s.VerifyRemote {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "source.verify_remote",
				Message:  "verify_remote has no effect when source.path is set",
			})
		}
		return issues
	}

	if strings.TrimSpace(s.BaseURL) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.base_url",
			Message:  "source.base_url must not be empty when no local path is given",
		})
	}
	if strings.TrimSpace(s.Dataset) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.dataset",
			Message:  "source.dataset must not be empty when no local path is given",
		})
	}
	if strings.TrimSpace(s.Month) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.month",
			Message:  "source.month must not be empty when no local path is given",
		})
	} else if !monthPattern.MatchString(s.Month) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.month",
			Message:  fmt.Sprintf("month %q does not match YYYY-MM", s.Month),
		})
	}

	return issues
}

// validateSample validates sampling and batching sizes.
func validateSample(s Sample) []Issue {
	var issues []Issue

	if s.SampleSize < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "sample.sample_size",
			Message:  "sample_size must not be negative",
		})
	}
	if s.BatchSize < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "sample.batch_size",
			Message:  "batch_size must not be negative",
		})
	}
	if s.BatchSize > 0 && s.BatchSize > 10000 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "sample.batch_size",
			Message:  fmt.Sprintf("batch_size=%d; very large multi-row INSERT statements may exceed server limits", s.BatchSize),
		})
	}

	return issues
}

// validateStorage validates storage configuration and sink settings.
func validateStorage(s Storage) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  "storage.kind must not be empty",
		})
		return issues
	}

	// Known storage kinds. Unknown kinds are warnings (for forward
	// compatibility); the registry rejects them with a hard error at open.
	known := map[string]struct{}{
		"trino":    {},
		"postgres": {},
		"sqlite":   {},
	}
	if _, ok := known[s.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", s.Kind),
		})
	}

	if strings.TrimSpace(s.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.table",
			Message:  "storage.table must not be empty",
		})
	}

	// Kind-specific checks.
	switch s.Kind {
	case "trino":
		if strings.TrimSpace(s.Trino.Host) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "storage.trino.host",
				Message:  "trino storage requires a non-empty host",
			})
		}
		if s.Trino.Port <= 0 || s.Trino.Port > 65535 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "storage.trino.port",
				Message:  fmt.Sprintf("port %d is outside 1-65535", s.Trino.Port),
			})
		}
		if strings.TrimSpace(s.Trino.User) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "storage.trino.user",
				Message:  "trino storage requires a non-empty user",
			})
		}
	case "postgres", "sqlite":
		if strings.TrimSpace(s.DSN) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "storage.dsn",
				Message:  fmt.Sprintf("%s storage requires a non-empty dsn", s.Kind),
			})
		}
	}

	return issues
}

// validateDBT validates the post-load dbt step.
func validateDBT(d DBT) []Issue {
	var issues []Issue

	if !d.Enabled {
		return issues
	}
	if strings.TrimSpace(d.ProjectDir) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "dbt.project_dir",
			Message:  "dbt is enabled but project_dir is empty",
		})
	}

	return issues
}
