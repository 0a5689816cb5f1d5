package view

import (
	"viewtable/internal/table"
)

// compiledJoin pairs a fact-side join column name with the dimension index it
// probes. Joins run in dimension-configuration order.
type compiledJoin struct {
	factColumn string
	index      dimensionIndex
}

// mergeRow builds the merged attribute map for one fact row: seed from the
// fact headers/values, then left-join each dimension in order.
//
// The fact-side join value is looked up in the accumulating map, not in the
// original fact row, so a join may reference a column introduced by an
// earlier dimension merge. A matched dimension row overwrites same-named
// keys (later dimensions win); an unmatched key leaves that dimension's
// columns absent for this row. Never an error.
func mergeRow(factHeaders []string, factRow []any, joins []compiledJoin) Row {
	row := make(Row, len(factHeaders))
	for i, h := range factHeaders {
		row[h] = factRow[i]
	}

	for _, j := range joins {
		key := table.Key(row[j.factColumn])
		match, ok := j.index.byKey[key]
		if !ok {
			continue
		}
		for i, h := range j.index.headers {
			row[h] = match[i]
		}
	}

	return row
}
