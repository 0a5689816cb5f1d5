package render

import (
	"embed"
	"fmt"
	"io"
	"sort"

	"github.com/google/safehtml/template"

	"viewtable/internal/view"
)

//go:embed templates/*
var templateFS embed.FS

// HTML renders the matrix as a standalone HTML page. Slicers become <select>
// filter controls bound to their column; a small inline script hides rows
// that do not match every active filter.
type HTML struct {
	path string
	fmtr *Formatter
	tmpl *template.Template

	headers []string
	rows    [][]any
	types   []view.ColumnType
	slicers []string
}

func NewHTML(path string, fmtr *Formatter) (*HTML, error) {
	trustedFS := template.TrustedFSFromEmbed(templateFS)

	tmpl, err := template.New("view.html").ParseFS(trustedFS, "templates/view.html")
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return &HTML{path: path, fmtr: fmtr, tmpl: tmpl}, nil
}

func (h *HTML) WriteTable(headers []string, rows [][]any) error {
	h.headers = headers
	h.rows = rows
	return nil
}

func (h *HTML) ApplyFormats(types []view.ColumnType) error {
	if len(types) != len(h.headers) {
		return fmt.Errorf("render: %d column types for %d columns", len(types), len(h.headers))
	}
	h.types = types
	return nil
}

func (h *HTML) AttachSlicers(columns []string) error {
	for _, c := range columns {
		if h.columnIndex(c) < 0 {
			return fmt.Errorf("render: slicer column %q is not an output header", c)
		}
	}
	h.slicers = columns
	return nil
}

func (h *HTML) columnIndex(name string) int {
	for i, hd := range h.headers {
		if hd == name {
			return i
		}
	}
	return -1
}

// slicerVM is one filter control: the bound column, its position, and the
// distinct display values it can filter on.
type slicerVM struct {
	Column  string
	Index   int
	Options []string
}

type viewModel struct {
	Headers []string
	Rows    [][]string
	Slicers []slicerVM
}

func (h *HTML) Flush() error {
	w, closeFn, err := destWriter(h.path)
	if err != nil {
		return err
	}
	defer closeFn()

	return h.WriteTo(w)
}

// WriteTo renders the staged table to an arbitrary writer. The view server
// uses this to render straight into an HTTP response.
func (h *HTML) WriteTo(w io.Writer) error {
	vm := viewModel{Headers: h.headers}

	vm.Rows = make([][]string, len(h.rows))
	for ri, row := range h.rows {
		cells := make([]string, len(row))
		for i, v := range row {
			t := view.TypeString
			if h.types != nil {
				t = h.types[i]
			}
			cells[i] = h.fmtr.Cell(v, t)
		}
		vm.Rows[ri] = cells
	}

	for _, c := range h.slicers {
		ix := h.columnIndex(c)
		seen := map[string]bool{}
		var opts []string
		for _, row := range vm.Rows {
			if !seen[row[ix]] {
				seen[row[ix]] = true
				opts = append(opts, row[ix])
			}
		}
		sort.Strings(opts)
		vm.Slicers = append(vm.Slicers, slicerVM{Column: c, Index: ix, Options: opts})
	}

	return h.tmpl.Execute(w, vm)
}
