package view

import (
	"context"
	"fmt"
	"log"
	"time"

	"viewtable/internal/metrics"
	"viewtable/internal/source"
)

// Logger is the minimal logging interface used by the builder.
// *log.Logger satisfies this interface.
type Logger interface {
	Printf(format string, v ...any)
}

// Builder runs one complete view build: load the fact table, load and index
// every dimension, merge each fact row, project the output columns.
//
// Execution is strictly sequential and single-pass. A build holds the fact
// snapshot, all dimension snapshots and all dimension indexes in memory at
// peak; everything is discarded when Build returns. Configuration errors
// (ColumnNotFound during load or indexing) abort the build immediately;
// calculated-cell failures are recovered per cell and reported through
// Result.Diagnostics.
type Builder struct {
	Reader source.TableReader

	// Logger is optional; nil discards stage logs.
	Logger Logger

	// Metrics is optional; nil means no instrumentation.
	Metrics metrics.Backend
}

// Build produces the complete output matrix for the given specs. Output rows
// appear in the fact table's loaded order, one per fact row regardless of
// join matches. Nothing is emitted until the whole pass completes.
func (b *Builder) Build(ctx context.Context, fact FactSpec, dims []DimensionSpec, cols []OutputColumn) (*Result, error) {
	if b.Reader == nil {
		return nil, fmt.Errorf("view: Reader is required")
	}

	logf := b.logger()
	m := b.metrics()

	loadStart := time.Now()
	factSnap, err := Load(ctx, b.Reader, fact.Source, fact.KeyColumns)
	if err != nil {
		return nil, err
	}
	logf("stage=load_fact source=%s rows=%d duration=%s", fact.Source, len(factSnap.Rows), durMS(loadStart))
	m.ObserveDuration("view.load_fact", time.Since(loadStart))

	joins := make([]compiledJoin, 0, len(dims))
	for _, d := range dims {
		dimStart := time.Now()

		snap, err := Load(ctx, b.Reader, d.Source, d.SelectColumns)
		if err != nil {
			return nil, err
		}
		idx, err := indexDimension(snap, d.JoinColumnDim, d.Source)
		if err != nil {
			return nil, err
		}
		joins = append(joins, compiledJoin{factColumn: d.JoinColumnFact, index: idx})

		logf("stage=index_dimension source=%s rows=%d keys=%d duration=%s",
			d.Source, len(snap.Rows), len(idx.byKey), durMS(dimStart))
	}

	mergeStart := time.Now()
	res := &Result{
		Headers: make([]string, len(cols)),
		Rows:    make([][]any, 0, len(factSnap.Rows)),
	}
	for i, c := range cols {
		res.Headers[i] = c.Header
	}

	for ri, factRow := range factSnap.Rows {
		row := mergeRow(factSnap.Headers, factRow, joins)
		res.Rows = append(res.Rows, projectRow(row, cols, ri, &res.Diagnostics))
	}

	logf("stage=merge_project rows=%d cell_errors=%d duration=%s",
		len(res.Rows), len(res.Diagnostics), durMS(mergeStart))
	m.ObserveDuration("view.merge_project", time.Since(mergeStart))
	m.IncCounter("view.rows_built", float64(len(res.Rows)))
	m.IncCounter("view.cell_errors", float64(len(res.Diagnostics)))

	for _, d := range res.Diagnostics {
		logf("stage=cell_error column=%q row=%d err=%v", d.Header, d.RowIndex, d.Err)
	}

	return res, nil
}

func (b *Builder) logger() func(format string, v ...any) {
	if b.Logger == nil {
		l := log.New(discardWriter{}, "", 0)
		return l.Printf
	}
	return b.Logger.Printf
}

func (b *Builder) metrics() metrics.Backend {
	if b.Metrics == nil {
		return metrics.Nop{}
	}
	return b.Metrics
}

func durMS(start time.Time) time.Duration { return time.Since(start).Truncate(time.Millisecond) }

type discardWriter struct{}

func (discardWriter) Write(p []byte) (n int, err error) { return len(p), nil }
