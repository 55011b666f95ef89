// Package sqlgen renders in-memory row values as Trino SQL text.
//
// It covers the two pieces the ingestion path needs: formatting a single
// scalar as a SQL literal, and assembling a multi-row INSERT statement from
// a batch of rows. Formatting is total: every input maps to some literal
// string, and unknown types fall through to their default text form.
package sqlgen

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Timestamp layouts accepted by Trino's TIMESTAMP literal. The fractional
// form is used only when the value carries sub-second precision.
const (
	tsLayout     = "2006-01-02 15:04:05"
	tsLayoutFrac = "2006-01-02 15:04:05.000000"
)

// FormatValue converts a single scalar into its SQL literal representation.
//
// Rules, in priority order:
//  1. nil and NaN floats render as NULL.
//  2. strings render single-quoted, with embedded quotes doubled.
//  3. time.Time renders as a TIMESTAMP literal.
//  4. everything else renders as its default text form, unquoted
//     (booleans, integers, floats; exotic types fall through as-is).
//
// FormatValue never fails; callers may rely on always receiving a token.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return QuoteString(x)
	case time.Time:
		return formatTimestamp(x)
	case float64:
		if math.IsNaN(x) {
			return "NULL"
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		if math.IsNaN(float64(x)) {
			return "NULL"
		}
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.FormatInt(int64(x), 10)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	default:
		// Accepted fall-through: may yield invalid SQL for exotic types.
		return fmt.Sprintf("%v", v)
	}
}

// QuoteString wraps s in single quotes, doubling any embedded single quote
// so the literal survives values like "O'Hare".
func QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// formatTimestamp renders t as a Trino TIMESTAMP literal. Sub-second digits
// are emitted only when present, so whole-second values stay compact.
func formatTimestamp(t time.Time) string {
	layout := tsLayout
	if t.Nanosecond() != 0 {
		layout = tsLayoutFrac
	}
	return "TIMESTAMP '" + t.Format(layout) + "'"
}
