// Package config defines the JSON view-definition format consumed by the
// viewtable binaries and its validation pass.
//
// A view definition wires three things together: the named tabular sources
// (sheets, CSV files, database tables), the join layout (one fact table plus
// zero or more dimension tables), and the projected output columns with their
// display types. Presentation settings (surface kind, locale, slicers) ride
// along but carry no data-model weight.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Definition is the root of a view-definition file.
type Definition struct {
	Name    string            `json:"name"`
	Sources map[string]Source `json:"sources"`
	View    View              `json:"view"`
	Output  Output            `json:"output"`
}

// Source identifies one named tabular source and how to read it.
type Source struct {
	// Kind selects the registered reader backend:
	// "csv" | "htmltable" | "sqlite" | "postgres" | "mssql".
	Kind string `json:"kind"`

	// Path is the input file for file-backed kinds (csv, htmltable).
	Path string `json:"path,omitempty"`

	// DSN, Table and Query configure database-backed kinds. DSN is expanded
	// with os.ExpandEnv before use. Query takes precedence over Table.
	DSN   string `json:"dsn,omitempty"`
	Table string `json:"table,omitempty"`
	Query string `json:"query,omitempty"`

	// Options carries kind-specific settings (csv comma, header_map,
	// htmltable selector, ...).
	Options Options `json:"options,omitempty"`
}

// View describes the join-and-project layout.
type View struct {
	Fact       Fact           `json:"fact"`
	Dimensions []Dimension    `json:"dimensions,omitempty"`
	Columns    []OutputColumn `json:"columns"`
	Slicers    []Slicer       `json:"slicers,omitempty"`
}

// Fact names the fact source and the subset/order of its columns to retain.
// KeyColumns must include every column referenced by fact-sourced output
// columns and by any dimension's fact-side join column.
type Fact struct {
	Source     string   `json:"source"`
	KeyColumns []string `json:"key_columns"`
}

// Dimension names one lookup table joined onto the fact rows.
type Dimension struct {
	Source         string   `json:"source"`
	JoinColumnFact string   `json:"join_column_fact"`
	JoinColumnDim  string   `json:"join_column_dim"`
	SelectColumns  []string `json:"select_columns"`
}

// OutputColumn describes one projected column.
type OutputColumn struct {
	Header string `json:"header"`

	// Source is "fact" | "dimension" | "calculated".
	Source string `json:"source"`

	// SourceID names the dimension, required iff Source == "dimension".
	SourceID string `json:"source_id,omitempty"`

	// Column is the attribute to copy, required iff Source is fact/dimension.
	Column string `json:"column,omitempty"`

	// Formula references a registered formula, required iff Source == "calculated".
	Formula *FormulaRef `json:"formula,omitempty"`

	// Type is the declared display type: "STRING" | "NUMBER" | "CURRENCY" | "DATE".
	Type string `json:"type"`
}

// FormulaRef names a registered formula and its column arguments.
type FormulaRef struct {
	Name string   `json:"name"`
	Args []string `json:"args,omitempty"`
}

// Slicer binds an interactive filter to one rendered output column.
type Slicer struct {
	Column string `json:"column"`
}

// Output selects the render surface and its formatting settings.
type Output struct {
	// Kind selects the surface: "ascii" | "csv" | "html".
	Kind string `json:"kind"`

	// Path is the destination file; created if absent. Empty means stdout
	// for the ascii surface.
	Path string `json:"path,omitempty"`

	// Locale is a BCP 47 tag for number/date formatting, e.g. "en-US".
	Locale string `json:"locale,omitempty"`

	// Currency is the ISO 4217 unit for CURRENCY columns, e.g. "USD".
	Currency string `json:"currency,omitempty"`
}

// LoadDefinition reads and decodes a view-definition file.
func LoadDefinition(path string) (Definition, error) {
	var def Definition

	f, err := os.Open(path)
	if err != nil {
		return def, fmt.Errorf("open definition: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&def); err != nil {
		return def, fmt.Errorf("decode definition: %w", err)
	}
	return def, nil
}
