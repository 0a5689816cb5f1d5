package view

import (
	"fmt"
	"strings"
	"testing"
)

func TestProjectRowOrderAndLength(t *testing.T) {
	row := Row{"A": "a", "B": float64(2)}
	cols := []OutputColumn{
		{Header: "Second", Source: SourceFact, Column: "B"},
		{Header: "First", Source: SourceDimension, Column: "A"},
		{Header: "Gone", Source: SourceDimension, Column: "Nope"},
	}

	var diags []CellError
	out := projectRow(row, cols, 0, &diags)

	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	if out[0] != float64(2) || out[1] != "a" {
		t.Fatalf("out = %v", out)
	}
	if out[2] != nil {
		t.Fatalf("missing attribute must project nil, got %v", out[2])
	}
	if len(diags) != 0 {
		t.Fatalf("missing attribute is not a diagnostic: %v", diags)
	}
}

func TestProjectRowCalculated(t *testing.T) {
	row := Row{"Quantity": float64(3), "Price Act": "9.5"}
	total, err := BuildFormula("product", []string{"Quantity", "Price Act"})
	if err != nil {
		t.Fatal(err)
	}

	var diags []CellError
	out := projectRow(row, []OutputColumn{
		{Header: "Total", Source: SourceCalculated, Formula: total},
	}, 0, &diags)

	if out[0] != 28.5 {
		t.Fatalf("Total = %v, want 28.5", out[0])
	}
}

func TestProjectRowCalculatedErrorIsIsolated(t *testing.T) {
	failing := func(r Row) (any, error) {
		return nil, fmt.Errorf("boom")
	}

	var diags []CellError
	out := projectRow(Row{"A": "x"}, []OutputColumn{
		{Header: "Bad", Source: SourceCalculated, Formula: failing},
		{Header: "Good", Source: SourceFact, Column: "A"},
	}, 4, &diags)

	if out[0] != nil {
		t.Fatalf("failed cell = %v, want nil", out[0])
	}
	if out[1] != "x" {
		t.Fatalf("later cell affected: %v", out[1])
	}
	if len(diags) != 1 || diags[0].Header != "Bad" || diags[0].RowIndex != 4 {
		t.Fatalf("diags = %+v", diags)
	}
}

func TestProjectRowCalculatedPanicIsRecovered(t *testing.T) {
	panicking := func(r Row) (any, error) {
		var m map[string]int
		m["boom"] = 1 // nil map write
		return nil, nil
	}

	var diags []CellError
	out := projectRow(Row{}, []OutputColumn{
		{Header: "Panics", Source: SourceCalculated, Formula: panicking},
	}, 0, &diags)

	if out[0] != nil {
		t.Fatalf("cell = %v", out[0])
	}
	if len(diags) != 1 || !strings.Contains(diags[0].Err.Error(), "panic") {
		t.Fatalf("diags = %+v", diags)
	}
}

func TestProjectRowNilFormula(t *testing.T) {
	var diags []CellError
	out := projectRow(Row{}, []OutputColumn{
		{Header: "Empty", Source: SourceCalculated},
	}, 0, &diags)

	if out[0] != nil || len(diags) != 1 {
		t.Fatalf("out = %v diags = %v", out, diags)
	}
}
