package view

import (
	"context"

	"viewtable/internal/source"
	"viewtable/internal/table"
)

// Load reads the named source in full and restricts the result to the wanted
// columns, in the wanted order. The returned snapshot's schema equals
// wantedColumns verbatim.
//
// A wanted column missing from the source's native header fails the whole
// load with a ColumnNotFoundError; no partial snapshot is returned.
func Load(ctx context.Context, r source.TableReader, sourceID string, wantedColumns []string) (table.Snapshot, error) {
	native, err := r.ReadTable(ctx, sourceID)
	if err != nil {
		return table.Snapshot{}, err
	}

	colIx := make([]int, len(wantedColumns))
	for i, name := range wantedColumns {
		ix, ok := native.ColumnIndex(name)
		if !ok {
			return table.Snapshot{}, &table.ColumnNotFoundError{Column: name, Source: sourceID}
		}
		colIx[i] = ix
	}

	headers := make([]string, len(wantedColumns))
	copy(headers, wantedColumns)

	rows := make([][]any, len(native.Rows))
	for ri, nrow := range native.Rows {
		row := make([]any, len(colIx))
		for i, ix := range colIx {
			if ix < len(nrow) {
				row[i] = nrow[ix]
			}
		}
		rows[ri] = row
	}

	return table.Snapshot{Headers: headers, Rows: rows}, nil
}
