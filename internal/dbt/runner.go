// Package dbt shells out to the dbt CLI to build downstream models after a
// successful load.
//
// The package deliberately treats dbt as an external black box: it constructs
// the argument list, runs the binary with the caller's context, and streams
// dbt's own output line by line into the process log so a single run produces
// one interleaved, timestamped log. Parsing dbt's run results is out of scope.
package dbt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os/exec"

	"golang.org/x/sync/errgroup"
)

// Options configures a dbt invocation.
type Options struct {
	// Bin is the dbt executable. Empty means "dbt" resolved via PATH.
	Bin string

	// ProjectDir is passed as --project-dir and is required.
	ProjectDir string

	// ProfilesDir is passed as --profiles-dir when non-empty.
	ProfilesDir string

	// Args appends extra arguments after the standard ones, e.g.
	// []string{"--select", "staging"}.
	Args []string
}

// BuildArgs returns the full argument list for "dbt build" under the given
// options, excluding the binary itself.
func BuildArgs(o Options) []string {
	args := []string{"build", "--project-dir", o.ProjectDir}
	if o.ProfilesDir != "" {
		args = append(args, "--profiles-dir", o.ProfilesDir)
	}
	return append(args, o.Args...)
}

// Build runs "dbt build" and blocks until it exits. Both stdout and stderr
// are forwarded to the process log with a "dbt:" prefix. A non-zero exit
// status or a canceled context yields an error.
func Build(ctx context.Context, o Options) error {
	if o.ProjectDir == "" {
		return fmt.Errorf("dbt: ProjectDir is required")
	}
	bin := o.Bin
	if bin == "" {
		bin = "dbt"
	}

	args := BuildArgs(o)
	cmd := exec.CommandContext(ctx, bin, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("dbt: stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("dbt: stderr pipe: %w", err)
	}

	log.Printf("dbt: running %s %v", bin, args)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("dbt: start %s: %w", bin, err)
	}

	// Both pipes must be drained before Wait, and concurrently with each
	// other so a full stderr buffer cannot stall stdout.
	var g errgroup.Group
	g.Go(func() error { return forwardLines(stdout, "dbt") })
	g.Go(func() error { return forwardLines(stderr, "dbt!") })
	streamErr := g.Wait()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("dbt: build failed: %w", err)
	}
	if streamErr != nil {
		return fmt.Errorf("dbt: read output: %w", streamErr)
	}
	return nil
}

// forwardLines copies r into the process log one line at a time.
func forwardLines(r io.Reader, prefix string) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		log.Printf("%s %s", prefix, sc.Text())
	}
	return sc.Err()
}
