// Package view implements the join-and-project engine: load labeled tables,
// index dimensions by join key, left-join each fact row against the indexed
// dimensions, and evaluate the output-column projection into the final
// matrix. One Build call is one pass; nothing is cached across calls.
package view

// FactSpec identifies the fact source and the subset/order of its columns to
// retain. KeyColumns must cover every column referenced by fact-sourced
// output columns and by any dimension's fact-side join column.
type FactSpec struct {
	Source     string
	KeyColumns []string
}

// DimensionSpec identifies one lookup table joined onto the fact rows.
// Dimensions merge strictly in configured order: a later dimension's
// JoinColumnFact may name a column introduced by an earlier dimension merge.
type DimensionSpec struct {
	Source         string
	JoinColumnFact string
	JoinColumnDim  string
	SelectColumns  []string
}

// ColumnType is the declared display type consumed by the render surfaces.
// The engine itself never interprets it.
type ColumnType string

const (
	TypeString   ColumnType = "STRING"
	TypeNumber   ColumnType = "NUMBER"
	TypeCurrency ColumnType = "CURRENCY"
	TypeDate     ColumnType = "DATE"
)

// ColumnSource discriminates the three output-column variants.
type ColumnSource string

const (
	SourceFact       ColumnSource = "fact"
	SourceDimension  ColumnSource = "dimension"
	SourceCalculated ColumnSource = "calculated"
)

// Row is the merged attribute map built per fact row: fact values first, then
// each matched dimension row's values in dimension order, later writes
// overwriting earlier ones on a shared name. A Row lives for exactly one
// projection and is never shared across fact rows.
type Row map[string]any

// Formula computes one calculated cell from the merged attribute map. It may
// read any key present in the map and is responsible for its own coercion
// (e.g. casting text-looking numbers before arithmetic). A returned error or
// a panic costs only that cell, never the build.
type Formula func(Row) (any, error)

// OutputColumn describes one projected column.
type OutputColumn struct {
	Header string
	Source ColumnSource

	// SourceID names the dimension, set iff Source == SourceDimension. The
	// final lookup is by Column name alone in the merged attribute map, so
	// SourceID documents intent rather than qualifying the lookup.
	SourceID string

	// Column is the attribute name to copy, set iff Source is fact/dimension.
	Column string

	// Formula is set iff Source == SourceCalculated.
	Formula Formula

	Type ColumnType
}

// SlicerSpec names a rendered column that gets an interactive filter. Purely
// a presentation directive; the engine passes it through untouched.
type SlicerSpec struct {
	Column string
}

// CellError records one recovered calculated-cell failure, keyed by the
// column header and the zero-based fact row index it occurred on.
type CellError struct {
	Header   string
	RowIndex int
	Err      error
}

// Result is the complete output matrix of one build, plus any recovered
// cell-level diagnostics. Rows align positionally with Headers and appear in
// the fact table's loaded order.
type Result struct {
	Headers     []string
	Rows        [][]any
	Diagnostics []CellError
}
