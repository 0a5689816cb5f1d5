package view

import (
	"viewtable/internal/table"
)

// dimensionIndex maps a join key's canonical string form to the full retained
// dimension row. Headers are kept once and shared across rows so a matched
// row can merge wholesale into the attribute map.
type dimensionIndex struct {
	headers []string
	byKey   map[string][]any
}

// indexDimension builds a key -> row index over the loaded dimension
// snapshot, keyed by joinColumnDim. Key collisions resolve last-write-wins:
// a later row under an equal key silently replaces the earlier one.
func indexDimension(snap table.Snapshot, joinColumnDim string, sourceID string) (dimensionIndex, error) {
	keyIx, ok := snap.ColumnIndex(joinColumnDim)
	if !ok {
		return dimensionIndex{}, &table.ColumnNotFoundError{Column: joinColumnDim, Source: sourceID}
	}

	idx := dimensionIndex{
		headers: snap.Headers,
		byKey:   make(map[string][]any, len(snap.Rows)),
	}
	for _, row := range snap.Rows {
		idx.byKey[table.Key(row[keyIx])] = row
	}
	return idx, nil
}
