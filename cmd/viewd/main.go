// Command viewd serves a view definition over HTTP. Every request rebuilds
// the view from its sources, so the page always reflects their current
// contents; nothing is cached between requests.
//
// Settings come from the environment:
//
//	VIEWD_ADDR    listen address (default ":8080")
//	VIEWD_CONFIG  view definition JSON path (default "views/view.json")
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/caarlos0/env/v11"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"viewtable/internal/config"
	"viewtable/internal/render"
	"viewtable/internal/source"
	_ "viewtable/internal/source/all"
	"viewtable/internal/view"
)

type settings struct {
	Addr   string `env:"VIEWD_ADDR" envDefault:":8080"`
	Config string `env:"VIEWD_CONFIG" envDefault:"views/view.json"`
}

type server struct {
	def     config.Definition
	fact    view.FactSpec
	dims    []view.DimensionSpec
	cols    []view.OutputColumn
	slicers []view.SlicerSpec
	catalog *source.Catalog
}

func main() {
	var s settings
	if err := env.Parse(&s); err != nil {
		log.Fatalf("parse env: %v", err)
	}

	def, err := config.LoadDefinition(s.Config)
	if err != nil {
		log.Fatalf("load definition: %v", err)
	}
	if issues := config.ValidateDefinition(def); config.HasErrors(issues) {
		for _, iss := range issues {
			log.Println(iss)
		}
		log.Fatal("definition has errors")
	}

	fact, dims, cols, slicers, err := view.CompileDefinition(def)
	if err != nil {
		log.Fatalf("compile definition: %v", err)
	}

	catalog, err := source.OpenCatalog(context.Background(), def.Sources)
	if err != nil {
		log.Fatalf("open sources: %v", err)
	}
	defer catalog.Close()

	srv := &server{def: def, fact: fact, dims: dims, cols: cols, slicers: slicers, catalog: catalog}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	e.GET("/view", srv.getView)
	e.GET("/api/view", srv.getViewJSON)

	log.Printf("stage=listen addr=%s definition=%s", s.Addr, s.Config)
	e.Logger.Fatal(e.Start(s.Addr))
}

func (s *server) build(ctx context.Context) (*view.Result, error) {
	b := &view.Builder{Reader: s.catalog, Logger: log.Default()}
	return b.Build(ctx, s.fact, s.dims, s.cols)
}

// getView rebuilds the view and renders the HTML surface, slicers included,
// directly into the response.
func (s *server) getView(c echo.Context) error {
	res, err := s.build(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	fmtr, err := render.NewFormatter(s.def.Output.Locale, s.def.Output.Currency)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h, err := render.NewHTML("", fmtr)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.WriteTable(res.Headers, res.Rows); err != nil {
		return err
	}
	types := make([]view.ColumnType, len(s.cols))
	for i, col := range s.cols {
		types[i] = col.Type
	}
	if err := h.ApplyFormats(types); err != nil {
		return err
	}
	names := make([]string, len(s.slicers))
	for i, sl := range s.slicers {
		names[i] = sl.Column
	}
	if err := h.AttachSlicers(names); err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return h.WriteTo(c.Response())
}

// getViewJSON rebuilds the view and returns the raw matrix.
func (s *server) getViewJSON(c echo.Context) error {
	res, err := s.build(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	diags := make([]map[string]any, len(res.Diagnostics))
	for i, d := range res.Diagnostics {
		diags[i] = map[string]any{
			"column": d.Header,
			"row":    d.RowIndex,
			"error":  d.Err.Error(),
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"headers":     res.Headers,
		"rows":        res.Rows,
		"diagnostics": diags,
	})
}
