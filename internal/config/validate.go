package config

import "fmt"

// Issue is one validation finding. Severity "error" blocks a build; "warning"
// flags something legal but likely unintended.
type Issue struct {
	Severity string
	Path     string
	Msg      string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Severity, i.Path, i.Msg)
}

// HasErrors reports whether any issue is error-severity.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == "error" {
			return true
		}
	}
	return false
}

var sourceKinds = map[string]bool{
	"csv": true, "htmltable": true, "sqlite": true, "postgres": true, "mssql": true,
}

var columnTypes = map[string]bool{
	"STRING": true, "NUMBER": true, "CURRENCY": true, "DATE": true,
}

var outputKinds = map[string]bool{
	"ascii": true, "csv": true, "html": true,
}

// ValidateDefinition checks a decoded view definition for wiring mistakes
// before any source is touched. It accumulates issues rather than stopping at
// the first, so a broken definition is fixable in one round trip.
//
// Validation is structural only: it never reads a source, so a column that is
// missing from a source's native schema still surfaces later as a
// ColumnNotFound build error.
func ValidateDefinition(def Definition) []Issue {
	var issues []Issue

	errf := func(path, format string, v ...any) {
		issues = append(issues, Issue{Severity: "error", Path: path, Msg: fmt.Sprintf(format, v...)})
	}
	warnf := func(path, format string, v ...any) {
		issues = append(issues, Issue{Severity: "warning", Path: path, Msg: fmt.Sprintf(format, v...)})
	}

	if len(def.Sources) == 0 {
		errf("sources", "at least one source is required")
	}
	for id, s := range def.Sources {
		path := fmt.Sprintf("sources.%s", id)
		switch {
		case s.Kind == "":
			errf(path, "kind is required")
		case !sourceKinds[s.Kind]:
			errf(path, "unknown kind %q", s.Kind)
		}
		switch s.Kind {
		case "csv", "htmltable":
			if s.Path == "" {
				errf(path, "path is required for kind %q", s.Kind)
			}
		case "sqlite", "postgres", "mssql":
			if s.DSN == "" {
				errf(path, "dsn is required for kind %q", s.Kind)
			}
			if s.Table == "" && s.Query == "" {
				errf(path, "table or query is required for kind %q", s.Kind)
			}
		}
	}

	declared := func(id string) bool {
		_, ok := def.Sources[id]
		return ok
	}

	fact := def.View.Fact
	if fact.Source == "" {
		errf("view.fact", "source is required")
	} else if !declared(fact.Source) {
		errf("view.fact", "source %q is not declared under sources", fact.Source)
	}
	if len(fact.KeyColumns) == 0 {
		errf("view.fact", "key_columns must not be empty")
	}
	factCols := stringSet(fact.KeyColumns)

	// Columns available for a fact-side join lookup grow as dimensions merge
	// in configured order, so a later dimension may join on a column a
	// previous dimension introduced.
	mergedCols := stringSet(fact.KeyColumns)

	dimByID := map[string]Dimension{}
	dimColCount := map[string]int{}
	for i, d := range def.View.Dimensions {
		path := fmt.Sprintf("view.dimensions[%d]", i)

		if d.Source == "" {
			errf(path, "source is required")
		} else if !declared(d.Source) {
			errf(path, "source %q is not declared under sources", d.Source)
		}
		if _, dup := dimByID[d.Source]; dup {
			errf(path, "dimension source %q configured more than once", d.Source)
		}
		dimByID[d.Source] = d

		if d.JoinColumnFact == "" {
			errf(path, "join_column_fact is required")
		} else if !mergedCols[d.JoinColumnFact] {
			errf(path, "join_column_fact %q is not a fact key column or a column merged by an earlier dimension", d.JoinColumnFact)
		}
		if d.JoinColumnDim == "" {
			errf(path, "join_column_dim is required")
		}
		if len(d.SelectColumns) == 0 {
			errf(path, "select_columns must not be empty")
		} else if d.JoinColumnDim != "" && !stringSet(d.SelectColumns)[d.JoinColumnDim] {
			errf(path, "select_columns must include join_column_dim %q", d.JoinColumnDim)
		}

		for _, c := range d.SelectColumns {
			mergedCols[c] = true
			dimColCount[c]++
		}
	}

	// Same-name columns across dimensions silently resolve last-write-wins in
	// the merged attribute map. Legal, but worth flagging.
	for c, n := range dimColCount {
		if n > 1 || (n == 1 && factCols[c]) {
			warnf("view.dimensions", "column %q appears in more than one merged table; the later merge wins", c)
		}
	}

	if len(def.View.Columns) == 0 {
		errf("view.columns", "at least one output column is required")
	}
	headers := map[string]bool{}
	for i, c := range def.View.Columns {
		path := fmt.Sprintf("view.columns[%d]", i)

		if c.Header == "" {
			errf(path, "header is required")
		}
		if headers[c.Header] {
			errf(path, "duplicate header %q", c.Header)
		}
		headers[c.Header] = true

		if c.Type != "" && !columnTypes[c.Type] {
			errf(path, "unknown type %q", c.Type)
		}

		switch c.Source {
		case "fact":
			if c.Column == "" {
				errf(path, "column is required for source=fact")
			} else if !factCols[c.Column] {
				errf(path, "column %q is not listed in fact key_columns", c.Column)
			}
		case "dimension":
			if c.SourceID == "" {
				errf(path, "source_id is required for source=dimension")
				break
			}
			d, ok := dimByID[c.SourceID]
			if !ok {
				errf(path, "source_id %q does not name a configured dimension", c.SourceID)
				break
			}
			if c.Column == "" {
				errf(path, "column is required for source=dimension")
			} else if !stringSet(d.SelectColumns)[c.Column] {
				errf(path, "column %q is not in dimension %q select_columns", c.Column, c.SourceID)
			}
		case "calculated":
			if c.Formula == nil || c.Formula.Name == "" {
				errf(path, "formula is required for source=calculated")
			}
		default:
			errf(path, "source must be fact, dimension or calculated (got %q)", c.Source)
		}
	}

	for i, s := range def.View.Slicers {
		path := fmt.Sprintf("view.slicers[%d]", i)
		if s.Column == "" {
			errf(path, "column is required")
		} else if !headers[s.Column] {
			errf(path, "column %q is not an output header", s.Column)
		}
	}

	if def.Output.Kind != "" && !outputKinds[def.Output.Kind] {
		errf("output", "unknown kind %q", def.Output.Kind)
	}

	return issues
}

func stringSet(in []string) map[string]bool {
	out := make(map[string]bool, len(in))
	for _, s := range in {
		out[s] = true
	}
	return out
}
