// Package metrics defines the minimal instrumentation surface the build
// pipeline emits to. The core depends only on Backend; concrete backends
// (Datadog, or Nop for none) live in subpackages or here.
package metrics

import (
	"context"
	"time"
)

// Backend receives counters and duration observations from a build.
// Implementations buffer as they see fit; Flush submits buffered data and
// Close flushes one final time before releasing resources.
type Backend interface {
	IncCounter(name string, delta float64)
	ObserveDuration(name string, d time.Duration)
	Flush(ctx context.Context) error
	Close()
}

// Nop is a Backend that discards everything.
type Nop struct{}

func (Nop) IncCounter(string, float64)            {}
func (Nop) ObserveDuration(string, time.Duration) {}
func (Nop) Flush(context.Context) error           { return nil }
func (Nop) Close()                                {}
