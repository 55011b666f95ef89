package tabular

import "testing"

// TestNormalizeColumn covers casing, accents, separators, and degenerate
// inputs.
func TestNormalizeColumn(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"Airport_fee", "airport_fee"},
		{"VendorID", "vendorid"},
		{"tpep_pickup_datetime", "tpep_pickup_datetime"},
		{"  Trip Distance  ", "trip_distance"},
		{"Améliorée", "amelioree"},
		{"fare.amount", "fare_amount"},
		{"a--b__c", "a_b_c"},
		{"___", "col"},
		{"", "col"},
	}
	for _, tc := range cases {
		if got := NormalizeColumn(tc.in); got != tc.want {
			t.Fatalf("NormalizeColumn(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeColumns_Order(t *testing.T) {
	t.Parallel()

	got := NormalizeColumns([]string{"VendorID", "Airport_fee"})
	if got[0] != "vendorid" || got[1] != "airport_fee" {
		t.Fatalf("NormalizeColumns = %v", got)
	}
}
