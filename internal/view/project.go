package view

import (
	"fmt"
)

// projectRow evaluates the output-column specs against one merged attribute
// map, producing exactly one cell per spec, in spec order.
//
// Fact and dimension variants look the attribute up by name; an absent
// attribute degrades to a nil cell (a row-level data gap, distinct from the
// load-time ColumnNotFound configuration error). Calculated variants run the
// column's formula; a formula error or panic is recovered here, recorded
// against the column header and row index, and yields nil for that cell only.
func projectRow(row Row, cols []OutputColumn, rowIndex int, diags *[]CellError) []any {
	out := make([]any, len(cols))
	for i, c := range cols {
		switch c.Source {
		case SourceCalculated:
			v, err := evalFormula(c.Formula, row)
			if err != nil {
				*diags = append(*diags, CellError{Header: c.Header, RowIndex: rowIndex, Err: err})
				out[i] = nil
				continue
			}
			out[i] = v

		default:
			// fact and dimension both resolve by attribute name alone.
			out[i] = row[c.Column]
		}
	}
	return out
}

// evalFormula invokes a calculated column's formula, converting a panic into
// an error so one bad row/column combination cannot abort the build.
func evalFormula(f Formula, row Row) (v any, err error) {
	if f == nil {
		return nil, fmt.Errorf("no formula configured")
	}
	defer func() {
		if r := recover(); r != nil {
			v = nil
			err = fmt.Errorf("formula panic: %v", r)
		}
	}()
	return f(row)
}
