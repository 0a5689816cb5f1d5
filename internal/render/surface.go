// Package render materializes a built view matrix onto a presentation
// surface: a plain-text table, a CSV export, or an HTML page with filter
// controls. The engine hands over the finished matrix; surfaces never reach
// back into sources.
//
// A surface is driven in three steps mirroring the build pipeline's
// presentation contract: WriteTable stages the matrix, ApplyFormats declares
// the per-column display types, AttachSlicers names the columns that get
// interactive filters. Flush renders everything to the destination, creating
// the output file if absent. Slicers are a no-op on surfaces that have no
// interactivity.
package render

import (
	"fmt"
	"io"
	"os"

	"viewtable/internal/config"
	"viewtable/internal/view"
)

type Surface interface {
	WriteTable(headers []string, rows [][]any) error
	ApplyFormats(types []view.ColumnType) error
	AttachSlicers(columns []string) error
	Flush() error
}

// New constructs the surface selected by cfg.Kind. An empty kind defaults to
// ascii on stdout.
func New(cfg config.Output) (Surface, error) {
	fmtr, err := NewFormatter(cfg.Locale, cfg.Currency)
	if err != nil {
		return nil, err
	}

	switch cfg.Kind {
	case "", "ascii":
		return &Ascii{path: cfg.Path, fmtr: fmtr}, nil
	case "csv":
		if cfg.Path == "" {
			return nil, fmt.Errorf("render: csv output needs a path")
		}
		return &CSV{path: cfg.Path}, nil
	case "html":
		if cfg.Path == "" {
			return nil, fmt.Errorf("render: html output needs a path")
		}
		return NewHTML(cfg.Path, fmtr)
	default:
		return nil, fmt.Errorf("render: unknown output kind %q", cfg.Kind)
	}
}

// destWriter opens the destination file, creating it if absent and
// truncating an existing one. An empty path means stdout.
func destWriter(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, f.Close, nil
}
