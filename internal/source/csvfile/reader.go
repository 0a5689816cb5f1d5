// Package csvfile reads CSV files as tabular sources.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"viewtable/internal/config"
	"viewtable/internal/source"
	"viewtable/internal/table"
)

func init() {
	source.Register("csv", New)
}

// Reader reads one CSV file in full on every ReadTable call, so repeated
// builds always see the file's current contents.
type Reader struct {
	path string
	opt  config.Options
}

func New(ctx context.Context, cfg config.Source) (source.Reader, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("csv: path is required")
	}
	return &Reader{path: cfg.Path, opt: cfg.Options}, nil
}

func (r *Reader) Close() {}

// ReadTable reads the header row and all data rows.
//
// Options:
//   - comma: field delimiter (default ",")
//   - trim_space: trim edge whitespace from cells (default true)
//   - lazy_quotes: tolerate bare quotes (default false)
//   - header_map: source header -> canonical name overrides
func (r *Reader) ReadTable(ctx context.Context) (table.Snapshot, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return table.Snapshot{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	trim := r.opt.Bool("trim_space", true)
	hm := r.opt.StringMap("header_map")

	cr := csv.NewReader(f)
	cr.Comma = r.opt.Rune("comma", ',')
	cr.LazyQuotes = r.opt.Bool("lazy_quotes", false)
	cr.FieldsPerRecord = -1

	hdr, err := cr.Read()
	if err != nil {
		return table.Snapshot{}, fmt.Errorf("read header: %w", err)
	}

	headers := make([]string, len(hdr))
	for i, h := range hdr {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if mapped, ok := hm[h]; ok {
			h = mapped
		}
		headers[i] = h
	}

	var rows [][]any
	line := 1
	for {
		select {
		case <-ctx.Done():
			return table.Snapshot{}, ctx.Err()
		default:
		}

		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return table.Snapshot{}, fmt.Errorf("csv read line %d: %w", line, err)
		}

		row := make([]any, len(headers))
		for i := range headers {
			if i >= len(rec) {
				row[i] = nil
				continue
			}
			v := rec[i]
			if trim {
				v = strings.TrimSpace(v)
			}
			if v == "" {
				row[i] = nil
			} else {
				row[i] = v
			}
		}
		rows = append(rows, row)
	}

	return table.Snapshot{Headers: headers, Rows: rows}, nil
}
