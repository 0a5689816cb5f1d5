package table

import "fmt"

// Snapshot is an immutable header-aligned row matrix loaded from a source.
// Every row has exactly len(Headers) cells. A snapshot is built once per view
// build and discarded afterwards; nothing caches snapshots across builds.
type Snapshot struct {
	Headers []string
	Rows    [][]any
}

// ColumnIndex resolves a header name to its position.
func (s Snapshot) ColumnIndex(name string) (int, bool) {
	for i, h := range s.Headers {
		if h == name {
			return i, true
		}
	}
	return -1, false
}

// ColumnNotFoundError reports a declared column name that does not exist in a
// source's native schema. It always reflects a view-definition mistake, never
// row-level data variance, so callers treat it as fatal to the whole build.
type ColumnNotFoundError struct {
	Column string
	Source string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found in source %q", e.Column, e.Source)
}
