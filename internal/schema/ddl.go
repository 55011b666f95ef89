// Package schema declares the destination lakehouse layout: the Iceberg
// schemas of the medallion layers and the raw yellow_trips trip table.
//
// All statements are idempotent (IF NOT EXISTS) so the bootstrap can run at
// the start of every ingestion without clobbering existing data; inserting
// into an existing table simply adds a new Iceberg snapshot.
package schema

import (
	"fmt"
	"strings"
)

// TripsTable is the raw trip table name, unqualified.
const TripsTable = "yellow_trips"

// RawSchema is the schema the raw trip table lives in.
const RawSchema = "raw"

// Column is one destination column with its Trino type.
type Column struct {
	Name string
	Type string
}

// TripsColumns is the fixed column layout of raw.yellow_trips, in table
// order. The Insert Emitter must emit column lists and values in exactly
// this order.
var TripsColumns = []Column{
	{"vendorid", "INTEGER"},
	{"tpep_pickup_datetime", "TIMESTAMP(6)"},
	{"tpep_dropoff_datetime", "TIMESTAMP(6)"},
	{"passenger_count", "DOUBLE"},
	{"trip_distance", "DOUBLE"},
	{"ratecodeid", "DOUBLE"},
	{"store_and_fwd_flag", "VARCHAR"},
	{"pulocationid", "INTEGER"},
	{"dolocationid", "INTEGER"},
	{"payment_type", "INTEGER"},
	{"fare_amount", "DOUBLE"},
	{"extra", "DOUBLE"},
	{"mta_tax", "DOUBLE"},
	{"tip_amount", "DOUBLE"},
	{"tolls_amount", "DOUBLE"},
	{"improvement_surcharge", "DOUBLE"},
	{"total_amount", "DOUBLE"},
	{"congestion_surcharge", "DOUBLE"},
	{"airport_fee", "DOUBLE"},
}

// TripsColumnNames returns the destination column names in table order.
func TripsColumnNames() []string {
	names := make([]string, len(TripsColumns))
	for i, c := range TripsColumns {
		names[i] = c.Name
	}
	return names
}

// Statements returns the bootstrap DDL for the given catalog: the medallion
// schemas (raw, silver, gold) and the raw trip table.
func Statements(catalog string) []string {
	return []string{
		fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s.raw", catalog),
		fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s.silver", catalog),
		fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s.gold", catalog),
		createTripsTable(catalog),
	}
}

// createTripsTable renders the CREATE TABLE statement for raw.yellow_trips.
func createTripsTable(catalog string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s.%s.%s (\n", catalog, RawSchema, TripsTable)
	for i, c := range TripsColumns {
		sep := ","
		if i == len(TripsColumns)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "    %-22s %s%s\n", c.Name, c.Type, sep)
	}
	b.WriteString(") WITH (format = 'PARQUET')")
	return b.String()
}
