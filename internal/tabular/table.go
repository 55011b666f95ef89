// Package tabular holds the in-memory table model used by the ingestion
// pipeline: an ordered column schema, rows of scalar values, and index-based
// batching over those rows.
//
// A Table is read once from a source file, carried through the pipeline, and
// discarded after all batches are submitted; nothing here persists across
// runs.
package tabular

import (
	"fmt"
	"iter"
)

// Table is an ordered sequence of rows sharing one column schema. Every row
// must have exactly len(Columns) values, aligned to column order.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Batch is a contiguous slice of a Table's rows. Start is the index of the
// first row within the parent table; Rows aliases the table's backing array.
type Batch struct {
	Start int
	Rows  [][]any
}

// NumRows returns the number of rows in the table.
func (t *Table) NumRows() int { return len(t.Rows) }

// Validate checks the row/column alignment invariant.
func (t *Table) Validate() error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("tabular: table has no columns")
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("tabular: row %d has %d values, want %d", i, len(row), len(t.Columns))
		}
	}
	return nil
}

// Head returns a table sharing t's columns and holding at most n leading
// rows. It slices without copying.
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return &Table{Columns: t.Columns, Rows: t.Rows[:n]}
}

// NumBatches returns ceil(NumRows / size) for a positive size.
func (t *Table) NumBatches(size int) int {
	if size <= 0 {
		return 0
	}
	return (len(t.Rows) + size - 1) / size
}

// Batches partitions the table's rows into contiguous chunks of at most size
// rows, in order, with the final chunk holding the remainder. The sequence is
// lazy and restartable; batching is pure index slicing, no filtering or
// reordering.
//
// A non-positive size yields an empty sequence.
func (t *Table) Batches(size int) iter.Seq[Batch] {
	return func(yield func(Batch) bool) {
		if size <= 0 {
			return
		}
		for start := 0; start < len(t.Rows); start += size {
			end := start + size
			if end > len(t.Rows) {
				end = len(t.Rows)
			}
			if !yield(Batch{Start: start, Rows: t.Rows[start:end]}) {
				return
			}
		}
	}
}
