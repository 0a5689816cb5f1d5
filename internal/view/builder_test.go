package view

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"viewtable/internal/table"
)

func projectItemsReader() *fakeTableReader {
	return &fakeTableReader{tables: map[string]table.Snapshot{
		"PROJECT_ITEMS": {
			Headers: []string{"Line Item ID", "Quantity", "Project ID"},
			Rows:    [][]any{{"LI-1", float64(3), "P-1"}},
		},
		"PROJECTS": {
			Headers: []string{"Project ID", "Project Name"},
			Rows:    [][]any{{"P-1", "Apollo"}},
		},
		"LINE_ITEMS": {
			Headers: []string{"Line Item ID", "Line Item", "Description", "Price Act"},
			Rows:    [][]any{{"LI-1", "Widget", "A widget", float64(9.5)}},
		},
	}}
}

func projectItemsSpecs(t *testing.T) (FactSpec, []DimensionSpec, []OutputColumn) {
	t.Helper()

	total, err := BuildFormula("product", []string{"Quantity", "Price Act"})
	if err != nil {
		t.Fatal(err)
	}

	fact := FactSpec{
		Source:     "PROJECT_ITEMS",
		KeyColumns: []string{"Line Item ID", "Quantity", "Project ID"},
	}
	dims := []DimensionSpec{
		{
			Source:         "PROJECTS",
			JoinColumnFact: "Project ID",
			JoinColumnDim:  "Project ID",
			SelectColumns:  []string{"Project ID", "Project Name"},
		},
		{
			Source:         "LINE_ITEMS",
			JoinColumnFact: "Line Item ID",
			JoinColumnDim:  "Line Item ID",
			SelectColumns:  []string{"Line Item ID", "Line Item", "Price Act"},
		},
	}
	cols := []OutputColumn{
		{Header: "Project Name", Source: SourceDimension, SourceID: "PROJECTS", Column: "Project Name", Type: TypeString},
		{Header: "Line Item", Source: SourceDimension, SourceID: "LINE_ITEMS", Column: "Line Item", Type: TypeString},
		{Header: "Quantity", Source: SourceFact, Column: "Quantity", Type: TypeNumber},
		{Header: "Total", Source: SourceCalculated, Formula: total, Type: TypeCurrency},
	}
	return fact, dims, cols
}

func TestBuildProjectItems(t *testing.T) {
	b := &Builder{Reader: projectItemsReader()}
	fact, dims, cols := projectItemsSpecs(t)

	res, err := b.Build(context.Background(), fact, dims, cols)
	if err != nil {
		t.Fatal(err)
	}

	wantHeaders := []string{"Project Name", "Line Item", "Quantity", "Total"}
	if !reflect.DeepEqual(res.Headers, wantHeaders) {
		t.Fatalf("headers = %v", res.Headers)
	}

	want := [][]any{{"Apollo", "Widget", float64(3), 28.5}}
	if !reflect.DeepEqual(res.Rows, want) {
		t.Fatalf("rows = %v, want %v", res.Rows, want)
	}
	if len(res.Diagnostics) != 0 {
		t.Fatalf("diagnostics = %v", res.Diagnostics)
	}
}

func TestBuildOrphanFactKey(t *testing.T) {
	r := projectItemsReader()
	r.tables["PROJECT_ITEMS"] = table.Snapshot{
		Headers: []string{"Line Item ID", "Quantity", "Project ID"},
		Rows:    [][]any{{"LI-1", float64(3), "P-9"}},
	}

	b := &Builder{Reader: r}
	fact, dims, cols := projectItemsSpecs(t)

	res, err := b.Build(context.Background(), fact, dims, cols)
	if err != nil {
		t.Fatal(err)
	}

	want := [][]any{{nil, "Widget", float64(3), 28.5}}
	if !reflect.DeepEqual(res.Rows, want) {
		t.Fatalf("rows = %v, want %v", res.Rows, want)
	}
}

func TestBuildRowCountEqualsFactRowCount(t *testing.T) {
	r := projectItemsReader()
	r.tables["PROJECT_ITEMS"] = table.Snapshot{
		Headers: []string{"Line Item ID", "Quantity", "Project ID"},
		Rows: [][]any{
			{"LI-1", float64(3), "P-1"},
			{"LI-9", float64(1), "P-9"}, // no joins match at all
			{"LI-1", float64(2), "P-1"},
		},
	}

	b := &Builder{Reader: r}
	fact, dims, cols := projectItemsSpecs(t)

	res, err := b.Build(context.Background(), fact, dims, cols)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rows) != 3 {
		t.Fatalf("rows = %d, want one per fact row", len(res.Rows))
	}
	// Fact order preserved, never sorted or deduplicated.
	if res.Rows[0][2] != float64(3) || res.Rows[1][2] != float64(1) || res.Rows[2][2] != float64(2) {
		t.Fatalf("row order changed: %v", res.Rows)
	}
}

func TestBuildFailsFastOnBadFactColumn(t *testing.T) {
	b := &Builder{Reader: projectItemsReader()}
	fact, dims, cols := projectItemsSpecs(t)
	fact.KeyColumns = append(fact.KeyColumns, "Ship Date")

	_, err := b.Build(context.Background(), fact, dims, cols)
	var cnf *table.ColumnNotFoundError
	if !errors.As(err, &cnf) {
		t.Fatalf("error = %v", err)
	}
	if cnf.Column != "Ship Date" || cnf.Source != "PROJECT_ITEMS" {
		t.Fatalf("error = %+v", cnf)
	}
}

func TestBuildFailsFastOnBadDimensionJoinColumn(t *testing.T) {
	b := &Builder{Reader: projectItemsReader()}
	fact, dims, cols := projectItemsSpecs(t)
	dims[0].JoinColumnDim = "Project Key"
	dims[0].SelectColumns = []string{"Project ID", "Project Name"}

	_, err := b.Build(context.Background(), fact, dims, cols)
	var cnf *table.ColumnNotFoundError
	if !errors.As(err, &cnf) {
		t.Fatalf("error = %v", err)
	}
	if cnf.Column != "Project Key" || cnf.Source != "PROJECTS" {
		t.Fatalf("error = %+v", cnf)
	}
}

func TestBuildCalculatedFailureKeepsBuilding(t *testing.T) {
	r := projectItemsReader()
	r.tables["PROJECT_ITEMS"] = table.Snapshot{
		Headers: []string{"Line Item ID", "Quantity", "Project ID"},
		Rows: [][]any{
			{"LI-1", float64(3), "P-1"},
			{"LI-1", "three", "P-1"}, // Quantity not numeric: Total fails here
			{"LI-1", float64(2), "P-1"},
		},
	}

	b := &Builder{Reader: r}
	fact, dims, cols := projectItemsSpecs(t)

	res, err := b.Build(context.Background(), fact, dims, cols)
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Rows) != 3 {
		t.Fatalf("rows = %d", len(res.Rows))
	}
	if res.Rows[0][3] != 28.5 || res.Rows[2][3] != 19.0 {
		t.Fatalf("good cells affected: %v", res.Rows)
	}
	if res.Rows[1][3] != nil {
		t.Fatalf("failed cell = %v, want nil", res.Rows[1][3])
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Header != "Total" || res.Diagnostics[0].RowIndex != 1 {
		t.Fatalf("diagnostics = %+v", res.Diagnostics)
	}
}

func TestBuildRequiresReader(t *testing.T) {
	b := &Builder{}
	if _, err := b.Build(context.Background(), FactSpec{}, nil, nil); err == nil {
		t.Fatal("expected error for missing reader")
	}
}
