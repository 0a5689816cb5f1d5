package source

import (
	"database/sql"
	"time"

	"viewtable/internal/table"
)

// ScanRows drains a database/sql result set into a snapshot, normalizing
// every cell into the table value union. Shared by the database-backed
// reader backends.
func ScanRows(rows *sql.Rows) (table.Snapshot, error) {
	headers, err := rows.Columns()
	if err != nil {
		return table.Snapshot{}, err
	}

	var out [][]any
	for rows.Next() {
		raw := make([]any, len(headers))
		ptrs := make([]any, len(headers))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return table.Snapshot{}, err
		}

		row := make([]any, len(headers))
		for i, v := range raw {
			row[i] = NormalizeCell(v)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return table.Snapshot{}, err
	}

	return table.Snapshot{Headers: headers, Rows: out}, nil
}

// NormalizeCell widens a database-driver cell value into the table value
// union (string, float64, bool, nil). SQL backends must not leak driver types
// into snapshots; this helper keeps cell shapes consistent across backends.
func NormalizeCell(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return t
	case []byte:
		return string(t)
	case bool:
		return t
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case float32:
		return float64(t)
	case float64:
		return t
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return t
	}
}
