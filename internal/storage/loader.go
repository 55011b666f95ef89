// Batched loader: drives a sequence of row batches through a Repository,
// strictly in order, one statement at a time.
//
// Logging: on every flushed batch, a concise progress line is emitted with
// running totals and instantaneous rows/sec since the previous flush.
package storage

import (
	"context"
	"fmt"
	"iter"
	"log"
	"time"

	"lakeingest/internal/tabular"
)

// LoadResult summarizes a completed (or aborted) load.
type LoadResult struct {
	Rows    int64 // rows reported inserted
	Batches int64 // batches flushed successfully
}

// LoadBatches submits every batch to repo.InsertBatch in batching order and
// returns running totals. Each batch is awaited to completion before the next
// begins; there is no parallelism and no retry.
//
// The first insert error aborts the remaining batches and is returned as-is;
// rows from earlier batches stay committed, so a partial failure leaves the
// destination with a prefix of the intended rows.
func LoadBatches(
	ctx context.Context,
	repo Repository,
	table string,
	columns []string,
	totalRows int,
	batches iter.Seq[tabular.Batch],
) (LoadResult, error) {
	if repo == nil {
		return LoadResult{}, fmt.Errorf("storage: repo must not be nil")
	}
	if len(columns) == 0 {
		return LoadResult{}, fmt.Errorf("storage: columns must not be empty")
	}

	var (
		res         LoadResult
		start       = time.Now()
		lastFlushTS = start
		lastTotal   int64
	)

	for b := range batches {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		n, err := repo.InsertBatch(ctx, table, columns, b.Rows)
		res.Rows += n
		if err != nil {
			log.Printf("loader: insert failed batch=%d start=%d total_inserted=%d err=%v",
				res.Batches+1, b.Start, res.Rows, err)
			return res, err
		}

		res.Batches++
		now := time.Now()
		sinceLast := now.Sub(lastFlushTS)
		rps := float64(0)
		if sinceLast > 0 {
			rps = float64(res.Rows-lastTotal) / sinceLast.Seconds()
		}
		log.Printf(
			"batch #%d: rps=%.0f inserted=%d total_inserted=%d/%d elapsed=%s since_last=%s",
			res.Batches,
			rps,
			n,
			res.Rows,
			totalRows,
			now.Sub(start).Truncate(time.Millisecond),
			sinceLast.Truncate(time.Millisecond),
		)
		lastFlushTS = now
		lastTotal = res.Rows
	}

	log.Printf("loader: done batches=%d total_inserted=%d elapsed=%s",
		res.Batches, res.Rows, time.Since(start).Truncate(time.Millisecond))
	return res, nil
}
