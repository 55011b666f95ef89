package sqlgen

import "strings"

// BuildInsert assembles one multi-row INSERT statement for a batch of rows:
//
//	INSERT INTO <table> (<c1>, <c2>, ...) VALUES (v, v, ...), (v, v, ...)
//
// Values are rendered with FormatValue in per-row column order. The caller is
// responsible for rows being aligned to columns; a short row simply produces
// a short tuple and the engine will reject the statement.
func BuildInsert(table string, columns []string, rows [][]any) string {
	var b strings.Builder

	// Rough pre-size: column header plus ~16 bytes per value.
	b.Grow(len(table) + 32 + len(rows)*len(columns)*16)

	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(") VALUES ")

	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for j, v := range row {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(FormatValue(v))
		}
		b.WriteByte(')')
	}
	return b.String()
}
