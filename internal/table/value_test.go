package table

import "testing"

func TestKey(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "null"},
		{"string", "Germany", "Germany"},
		{"string_trim", "  P-1 \t", "P-1"},
		{"bytes", []byte(" 8429529 "), "8429529"},
		{"bool_true", true, "true"},
		{"bool_false", false, "false"},
		{"int", 42, "42"},
		{"int64", int64(42), "42"},
		{"float_whole", float64(42), "42"},
		{"float_frac", 9.5, "9.5"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Key(tc.in); got != tc.want {
				t.Fatalf("Key(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestKeyMatchesAcrossNumericTypes(t *testing.T) {
	// A dimension loaded from SQL may carry int64 keys while the fact sheet
	// carries float64; both must land on the same index bucket.
	if Key(int64(7)) != Key(float64(7)) {
		t.Fatalf("int64 and float64 forms of the same key diverge: %q vs %q", Key(int64(7)), Key(float64(7)))
	}
}

func TestSnapshotColumnIndex(t *testing.T) {
	s := Snapshot{Headers: []string{"Project ID", "Project Name"}}

	if i, ok := s.ColumnIndex("Project Name"); !ok || i != 1 {
		t.Fatalf("ColumnIndex(Project Name) = %d, %v", i, ok)
	}
	if _, ok := s.ColumnIndex("Missing"); ok {
		t.Fatal("ColumnIndex(Missing) unexpectedly resolved")
	}
}

func TestColumnNotFoundErrorMessage(t *testing.T) {
	err := &ColumnNotFoundError{Column: "Price Act", Source: "LINE_ITEMS"}
	want := `column "Price Act" not found in source "LINE_ITEMS"`
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}
