package view

import (
	"fmt"

	"viewtable/internal/config"
)

// CompileDefinition converts a decoded view definition into engine specs,
// resolving calculated-column formula references against the formula
// registry. Structural validation belongs to config.ValidateDefinition; this
// only fails on what the registry alone can know (unknown formula names, bad
// argument counts).
func CompileDefinition(def config.Definition) (FactSpec, []DimensionSpec, []OutputColumn, []SlicerSpec, error) {
	fact := FactSpec{
		Source:     def.View.Fact.Source,
		KeyColumns: def.View.Fact.KeyColumns,
	}

	dims := make([]DimensionSpec, len(def.View.Dimensions))
	for i, d := range def.View.Dimensions {
		dims[i] = DimensionSpec{
			Source:         d.Source,
			JoinColumnFact: d.JoinColumnFact,
			JoinColumnDim:  d.JoinColumnDim,
			SelectColumns:  d.SelectColumns,
		}
	}

	cols := make([]OutputColumn, len(def.View.Columns))
	for i, c := range def.View.Columns {
		col := OutputColumn{
			Header:   c.Header,
			Source:   ColumnSource(c.Source),
			SourceID: c.SourceID,
			Column:   c.Column,
			Type:     ColumnType(c.Type),
		}
		if col.Type == "" {
			col.Type = TypeString
		}
		if col.Source == SourceCalculated {
			if c.Formula == nil {
				return fact, nil, nil, nil, fmt.Errorf("column %q: formula is required", c.Header)
			}
			f, err := BuildFormula(c.Formula.Name, c.Formula.Args)
			if err != nil {
				return fact, nil, nil, nil, fmt.Errorf("column %q: %w", c.Header, err)
			}
			col.Formula = f
		}
		cols[i] = col
	}

	slicers := make([]SlicerSpec, len(def.View.Slicers))
	for i, s := range def.View.Slicers {
		slicers[i] = SlicerSpec{Column: s.Column}
	}

	return fact, dims, cols, slicers, nil
}
