// Package mssql reads a SQL Server table or query as a tabular source.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/microsoft/go-mssqldb"

	"viewtable/internal/config"
	"viewtable/internal/source"
	"viewtable/internal/table"
)

func init() {
	source.Register("mssql", New)
}

type Reader struct {
	db    *sql.DB
	query string
}

func New(ctx context.Context, cfg config.Source) (source.Reader, error) {
	q, err := sourceQuery(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlserver", os.ExpandEnv(cfg.DSN))
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Reader{db: db, query: q}, nil
}

func sourceQuery(cfg config.Source) (string, error) {
	if cfg.Query != "" {
		return cfg.Query, nil
	}
	if cfg.Table == "" {
		return "", fmt.Errorf("mssql: table or query is required")
	}
	return fmt.Sprintf("SELECT * FROM [%s]", cfg.Table), nil
}

func (r *Reader) Close() { _ = r.db.Close() }

func (r *Reader) ReadTable(ctx context.Context) (table.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, r.query)
	if err != nil {
		return table.Snapshot{}, err
	}
	defer rows.Close()

	return source.ScanRows(rows)
}
