// Package source reads named tabular sources into table snapshots.
//
// Backends register themselves under a kind string from an init() function;
// select the kinds a binary supports by blank-importing them (or
// source/all for everything). The view engine only sees the narrow
// TableReader interface, so tests can inject in-memory tables.
package source

import (
	"context"
	"fmt"
	"sync"

	"viewtable/internal/config"
	"viewtable/internal/table"
)

// Reader reads one configured source in full.
type Reader interface {
	// ReadTable returns the source's native headers and all following rows.
	// Cell values stay within the table value union (string/float64/bool/nil).
	ReadTable(ctx context.Context) (table.Snapshot, error)

	// Close releases backend resources. Call once when done.
	Close()
}

type factory func(ctx context.Context, cfg config.Source) (Reader, error)

var (
	mu        sync.RWMutex
	factories = map[string]factory{}
)

// Register registers a reader backend under a kind (e.g. "csv", "postgres").
//
// Registering the same kind more than once panics. This is intentional to
// fail fast and avoid ambiguous backend selection.
func Register(kind string, f factory) {
	mu.Lock()
	defer mu.Unlock()

	if kind == "" {
		panic("source: Register called with empty kind")
	}
	if f == nil {
		panic("source: Register called with nil factory")
	}
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("source: factory already registered for kind=%q", kind))
	}

	factories[kind] = f
}

// Open constructs a Reader using the registered backend factory for cfg.Kind.
func Open(ctx context.Context, cfg config.Source) (Reader, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("source: missing kind")
	}

	mu.RLock()
	f := factories[cfg.Kind]
	mu.RUnlock()

	if f == nil {
		return nil, fmt.Errorf("unsupported source kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// TableReader resolves a source ID to its full native table. The view engine
// depends on this seam only.
type TableReader interface {
	ReadTable(ctx context.Context, sourceID string) (table.Snapshot, error)
}

// Catalog maps source IDs to opened readers and implements TableReader.
type Catalog struct {
	readers map[string]Reader
}

// OpenCatalog opens a reader per configured source. On any failure it closes
// the readers opened so far and returns the error.
func OpenCatalog(ctx context.Context, sources map[string]config.Source) (*Catalog, error) {
	c := &Catalog{readers: make(map[string]Reader, len(sources))}
	for id, cfg := range sources {
		r, err := Open(ctx, cfg)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("source %s: %w", id, err)
		}
		c.readers[id] = r
	}
	return c, nil
}

// ReadTable reads the named source in full.
func (c *Catalog) ReadTable(ctx context.Context, sourceID string) (table.Snapshot, error) {
	r, ok := c.readers[sourceID]
	if !ok {
		return table.Snapshot{}, fmt.Errorf("unknown source %q", sourceID)
	}
	snap, err := r.ReadTable(ctx)
	if err != nil {
		return table.Snapshot{}, fmt.Errorf("read source %s: %w", sourceID, err)
	}
	return snap, nil
}

// Close closes every opened reader.
func (c *Catalog) Close() {
	for _, r := range c.readers {
		r.Close()
	}
}
