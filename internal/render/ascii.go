package render

import (
	"fmt"
	"strings"

	"viewtable/internal/view"
)

// Ascii renders the matrix as a boxed plain-text table. Slicers have no
// plain-text equivalent and are ignored.
type Ascii struct {
	path string
	fmtr *Formatter

	headers []string
	rows    [][]any
	types   []view.ColumnType
}

func (a *Ascii) WriteTable(headers []string, rows [][]any) error {
	a.headers = headers
	a.rows = rows
	return nil
}

func (a *Ascii) ApplyFormats(types []view.ColumnType) error {
	if len(types) != len(a.headers) {
		return fmt.Errorf("render: %d column types for %d columns", len(types), len(a.headers))
	}
	a.types = types
	return nil
}

func (a *Ascii) AttachSlicers(columns []string) error { return nil }

func (a *Ascii) Flush() error {
	w, closeFn, err := destWriter(a.path)
	if err != nil {
		return err
	}
	defer closeFn()

	cells := a.formatCells()

	widths := make([]int, len(a.headers))
	for i, h := range a.headers {
		widths[i] = len(h)
	}
	for _, row := range cells {
		for i, c := range row {
			if len(c) > widths[i] {
				widths[i] = len(c)
			}
		}
	}

	var sb strings.Builder
	writeRule := func() {
		for _, wd := range widths {
			sb.WriteString("+")
			sb.WriteString(strings.Repeat("-", wd+2))
		}
		sb.WriteString("+\n")
	}
	writeRow := func(row []string) {
		for i, c := range row {
			sb.WriteString(fmt.Sprintf("| %-*s ", widths[i], c))
		}
		sb.WriteString("|\n")
	}

	writeRule()
	writeRow(a.headers)
	writeRule()
	for _, row := range cells {
		writeRow(row)
	}
	writeRule()

	_, err = fmt.Fprint(w, sb.String())
	return err
}

func (a *Ascii) formatCells() [][]string {
	out := make([][]string, len(a.rows))
	for ri, row := range a.rows {
		cells := make([]string, len(row))
		for i, v := range row {
			if a.types != nil {
				cells[i] = a.fmtr.Cell(v, a.types[i])
			} else {
				cells[i] = a.fmtr.Cell(v, view.TypeString)
			}
		}
		out[ri] = cells
	}
	return out
}
