// Command viewtable builds one denormalized view table from a JSON view
// definition and writes it to the configured surface.
//
// Usage:
//
//	viewtable -config views/project_items.json
//	viewtable -config views/project_items.json -validate
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"viewtable/internal/config"
	"viewtable/internal/metrics"
	"viewtable/internal/metrics/datadog"
	"viewtable/internal/render"
	"viewtable/internal/view"

	// register all reader backends with the source factory.
	// The definition file specifies which to use, but support for all of
	// them is built in.
	"viewtable/internal/source"
	_ "viewtable/internal/source/all"
)

func main() {
	var (
		cfgPath        string
		metricsBackend string
		validate       bool
	)

	flag.StringVar(&cfgPath, "config", "views/view.json", "view definition JSON path")
	flag.StringVar(&metricsBackend, "metrics-backend", "none", "metrics backend to use (none, datadog)")
	flag.BoolVar(&validate, "validate", false, "validate the definition and exit")
	verbose := flag.Bool("v", false, "enable stage logs")

	flag.Parse()

	def, err := config.LoadDefinition(cfgPath)
	if err != nil {
		fatalf("load definition: %v", err)
	}

	issues := config.ValidateDefinition(def)
	for _, iss := range issues {
		fmt.Fprintln(os.Stderr, iss)
	}
	if config.HasErrors(issues) {
		fatalf("definition has errors")
	}
	if validate {
		fmt.Println("definition ok")
		return
	}

	ctx := context.Background()

	var backend metrics.Backend = metrics.Nop{}
	if metricsBackend == "datadog" {
		dd := datadog.New(ctx, datadog.Options{JobName: def.Name})
		defer dd.Close()
		backend = dd
	}

	fact, dims, cols, slicers, err := view.CompileDefinition(def)
	if err != nil {
		fatalf("compile definition: %v", err)
	}

	catalog, err := source.OpenCatalog(ctx, def.Sources)
	if err != nil {
		fatalf("open sources: %v", err)
	}
	defer catalog.Close()

	b := &view.Builder{Reader: catalog, Metrics: backend}
	if *verbose {
		b.Logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	start := time.Now()
	res, err := b.Build(ctx, fact, dims, cols)
	if err != nil {
		fatalf("build: %v", err)
	}

	if err := writeSurface(def, res, cols, slicers); err != nil {
		fatalf("render: %v", err)
	}

	log.Printf("stage=done rows=%d cell_errors=%d duration=%s",
		len(res.Rows), len(res.Diagnostics), time.Since(start).Truncate(time.Millisecond))
	for _, d := range res.Diagnostics {
		log.Printf("stage=cell_error column=%q row=%d err=%v", d.Header, d.RowIndex, d.Err)
	}
}

func writeSurface(def config.Definition, res *view.Result, cols []view.OutputColumn, slicers []view.SlicerSpec) error {
	s, err := render.New(def.Output)
	if err != nil {
		return err
	}

	if err := s.WriteTable(res.Headers, res.Rows); err != nil {
		return err
	}

	types := make([]view.ColumnType, len(cols))
	for i, c := range cols {
		types[i] = c.Type
	}
	if err := s.ApplyFormats(types); err != nil {
		return err
	}

	names := make([]string, len(slicers))
	for i, sl := range slicers {
		names[i] = sl.Column
	}
	if err := s.AttachSlicers(names); err != nil {
		return err
	}

	return s.Flush()
}

func fatalf(format string, v ...any) {
	fmt.Fprintf(os.Stderr, "viewtable: "+format+"\n", v...)
	os.Exit(1)
}
