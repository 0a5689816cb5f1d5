// Package htmltable extracts an HTML <table> element as a tabular source.
//
// The first matched table is used. Header names come from the table's first
// <tr> (th or td cells); every following <tr> becomes a data row. Missing
// selectors are an error here, unlike record extraction pipelines, because a
// view build needs a schema to resolve columns against.
package htmltable

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"viewtable/internal/config"
	"viewtable/internal/source"
	"viewtable/internal/table"
)

func init() {
	source.Register("htmltable", New)
}

type Reader struct {
	path     string
	selector string
}

func New(ctx context.Context, cfg config.Source) (source.Reader, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("htmltable: path is required")
	}
	return &Reader{
		path:     cfg.Path,
		selector: cfg.Options.String("selector", "table"),
	}, nil
}

func (r *Reader) Close() {}

func (r *Reader) ReadTable(ctx context.Context) (table.Snapshot, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return table.Snapshot{}, fmt.Errorf("open html: %w", err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return table.Snapshot{}, fmt.Errorf("parse html: %w", err)
	}

	tbl := doc.Find(r.selector).First()
	if tbl.Length() == 0 {
		return table.Snapshot{}, fmt.Errorf("no element matches selector %q", r.selector)
	}

	trs := tbl.Find("tr")
	if trs.Length() == 0 {
		return table.Snapshot{}, fmt.Errorf("table matched by %q has no rows", r.selector)
	}

	var headers []string
	trs.First().Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(cell.Text()))
	})
	if len(headers) == 0 {
		return table.Snapshot{}, fmt.Errorf("table matched by %q has no header cells", r.selector)
	}

	var rows [][]any
	trs.Slice(1, trs.Length()).Each(func(_ int, tr *goquery.Selection) {
		row := make([]any, len(headers))
		tr.Find("th, td").Each(func(i int, cell *goquery.Selection) {
			if i >= len(row) {
				return
			}
			v := strings.TrimSpace(cell.Text())
			if v != "" {
				row[i] = v
			}
		})
		rows = append(rows, row)
	})

	return table.Snapshot{Headers: headers, Rows: rows}, nil
}
