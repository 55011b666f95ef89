package tabular

import (
	"context"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// ReadParquet reads an entire parquet file into a Table. Column names are
// normalized with NormalizeColumn so they line up with the destination
// schema regardless of the source file's header casing.
//
// The whole file is materialized in memory; callers ingesting a sample
// should follow up with Head.
func ReadParquet(ctx context.Context, path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tabular: open %s: %w", path, err)
	}
	defer f.Close()

	pf, err := file.NewParquetReader(f, file.WithReadProps(&parquet.ReaderProperties{}))
	if err != nil {
		return nil, fmt.Errorf("tabular: parquet reader for %s: %w", path, err)
	}
	defer pf.Close()

	mem := memory.NewGoAllocator()
	ar, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, fmt.Errorf("tabular: arrow reader for %s: %w", path, err)
	}

	at, err := ar.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("tabular: read %s: %w", path, err)
	}
	defer at.Release()

	return fromArrow(at), nil
}

// fromArrow materializes an arrow table into Go scalars, column by column
// across each column's chunks.
func fromArrow(at arrow.Table) *Table {
	nRows := int(at.NumRows())
	nCols := int(at.NumCols())

	cols := make([]string, nCols)
	rows := make([][]any, nRows)
	for i := range rows {
		rows[i] = make([]any, nCols)
	}

	for j := 0; j < nCols; j++ {
		col := at.Column(j)
		cols[j] = NormalizeColumn(col.Name())

		i := 0
		for _, chunk := range col.Data().Chunks() {
			for k := 0; k < chunk.Len(); k++ {
				rows[i][j] = cellValue(chunk, k)
				i++
			}
		}
	}
	return &Table{Columns: cols, Rows: rows}
}

// cellValue converts one arrow cell into the Go scalar the formatter and the
// SQL drivers understand. Nulls map to nil; types outside the expected set
// fall back to the array's text representation.
func cellValue(a arrow.Array, i int) any {
	if a.IsNull(i) {
		return nil
	}
	switch arr := a.(type) {
	case *array.Boolean:
		return arr.Value(i)
	case *array.Int8:
		return int64(arr.Value(i))
	case *array.Int16:
		return int64(arr.Value(i))
	case *array.Int32:
		return int64(arr.Value(i))
	case *array.Int64:
		return arr.Value(i)
	case *array.Uint8:
		return uint64(arr.Value(i))
	case *array.Uint16:
		return uint64(arr.Value(i))
	case *array.Uint32:
		return uint64(arr.Value(i))
	case *array.Uint64:
		return arr.Value(i)
	case *array.Float32:
		return arr.Value(i)
	case *array.Float64:
		return arr.Value(i)
	case *array.String:
		return arr.Value(i)
	case *array.LargeString:
		return arr.Value(i)
	case *array.Timestamp:
		tt := arr.DataType().(*arrow.TimestampType)
		return arr.Value(i).ToTime(tt.Unit)
	case *array.Date32:
		return arr.Value(i).ToTime()
	case *array.Date64:
		return arr.Value(i).ToTime()
	default:
		return a.ValueStr(i)
	}
}
