// Package postgres reads a Postgres table or query as a tabular source.
package postgres

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"viewtable/internal/config"
	"viewtable/internal/source"
	"viewtable/internal/table"
)

func init() {
	source.Register("postgres", New)
}

type Reader struct {
	pool  *pgxpool.Pool
	query string
}

func New(ctx context.Context, cfg config.Source) (source.Reader, error) {
	q, err := sourceQuery(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, os.ExpandEnv(cfg.DSN))
	if err != nil {
		return nil, fmt.Errorf("db pool: %w", err)
	}
	return &Reader{pool: pool, query: q}, nil
}

func sourceQuery(cfg config.Source) (string, error) {
	if cfg.Query != "" {
		return cfg.Query, nil
	}
	if cfg.Table == "" {
		return "", fmt.Errorf("postgres: table or query is required")
	}
	return fmt.Sprintf(`SELECT * FROM %q`, cfg.Table), nil
}

func (r *Reader) Close() { r.pool.Close() }

func (r *Reader) ReadTable(ctx context.Context) (table.Snapshot, error) {
	rows, err := r.pool.Query(ctx, r.query)
	if err != nil {
		return table.Snapshot{}, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	headers := make([]string, len(fields))
	for i, f := range fields {
		headers[i] = string(f.Name)
	}

	var out [][]any
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return table.Snapshot{}, err
		}
		row := make([]any, len(headers))
		for i, v := range vals {
			row[i] = source.NormalizeCell(v)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return table.Snapshot{}, err
	}

	return table.Snapshot{Headers: headers, Rows: out}, nil
}
