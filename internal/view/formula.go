package view

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// FormulaBuilder constructs a Formula from its configured column arguments.
// Builders run once at plan time; the returned Formula runs once per row.
type FormulaBuilder func(args []string) (Formula, error)

var (
	formulaMu sync.RWMutex
	formulas  = map[string]FormulaBuilder{}
)

// RegisterFormula registers a named formula builder for use by calculated
// columns in view definitions. Registering the same name twice panics.
func RegisterFormula(name string, b FormulaBuilder) {
	formulaMu.Lock()
	defer formulaMu.Unlock()

	if name == "" {
		panic("view: RegisterFormula called with empty name")
	}
	if b == nil {
		panic("view: RegisterFormula called with nil builder")
	}
	if _, exists := formulas[name]; exists {
		panic(fmt.Sprintf("view: formula already registered for name=%q", name))
	}

	formulas[name] = b
}

// BuildFormula resolves a registered formula name with its arguments.
func BuildFormula(name string, args []string) (Formula, error) {
	formulaMu.RLock()
	b := formulas[name]
	formulaMu.RUnlock()

	if b == nil {
		return nil, fmt.Errorf("unknown formula %q", name)
	}
	return b(args)
}

// Number coerces an attribute value to float64 for arithmetic formulas.
// Strings are parsed, bools map to 1/0, nil and unparsable text are errors so
// the bad cell surfaces as a diagnostic instead of a silent zero.
func Number(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", t)
		}
		return n, nil
	case nil:
		return 0, fmt.Errorf("missing value")
	default:
		return 0, fmt.Errorf("not a number: %v (%T)", v, v)
	}
}

// Text coerces an attribute value to its display string; nil becomes "".
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func init() {
	RegisterFormula("product", func(args []string) (Formula, error) {
		if len(args) < 2 {
			return nil, fmt.Errorf("product needs at least two columns")
		}
		return func(r Row) (any, error) {
			out := 1.0
			for _, col := range args {
				n, err := Number(r[col])
				if err != nil {
					return nil, fmt.Errorf("%s: %w", col, err)
				}
				out *= n
			}
			return out, nil
		}, nil
	})

	RegisterFormula("sum", func(args []string) (Formula, error) {
		if len(args) < 2 {
			return nil, fmt.Errorf("sum needs at least two columns")
		}
		return func(r Row) (any, error) {
			out := 0.0
			for _, col := range args {
				n, err := Number(r[col])
				if err != nil {
					return nil, fmt.Errorf("%s: %w", col, err)
				}
				out += n
			}
			return out, nil
		}, nil
	})

	RegisterFormula("ratio", func(args []string) (Formula, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("ratio needs exactly two columns")
		}
		return func(r Row) (any, error) {
			num, err := Number(r[args[0]])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", args[0], err)
			}
			den, err := Number(r[args[1]])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", args[1], err)
			}
			if den == 0 {
				return nil, fmt.Errorf("%s: division by zero", args[1])
			}
			return num / den, nil
		}, nil
	})

	RegisterFormula("concat", func(args []string) (Formula, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("concat needs at least one column")
		}
		return func(r Row) (any, error) {
			parts := make([]string, len(args))
			for i, col := range args {
				parts[i] = Text(r[col])
			}
			return strings.Join(parts, " "), nil
		}, nil
	})
}
