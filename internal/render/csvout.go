package render

import (
	"encoding/csv"
	"fmt"
	"os"

	"viewtable/internal/view"
)

// CSV exports the matrix as a CSV file, created if absent. Cells are written
// in their plain text form; display formats and slicers only apply to
// presentation surfaces, so both are accepted and ignored here.
type CSV struct {
	path string

	headers []string
	rows    [][]any
}

func (c *CSV) WriteTable(headers []string, rows [][]any) error {
	c.headers = headers
	c.rows = rows
	return nil
}

func (c *CSV) ApplyFormats(types []view.ColumnType) error { return nil }
func (c *CSV) AttachSlicers(columns []string) error       { return nil }

func (c *CSV) Flush() error {
	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(c.headers); err != nil {
		return err
	}
	rec := make([]string, len(c.headers))
	for _, row := range c.rows {
		for i, v := range row {
			rec[i] = view.Text(v)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
