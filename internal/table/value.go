// Package table holds the in-memory tabular data model shared by sources,
// the view engine and the render surfaces.
//
// Cell values are `any` restricted to the scalar union used throughout the
// pipeline: string, float64, bool, or nil for an absent cell. Sources are
// responsible for producing values within that union; integer-typed columns
// from SQL backends are widened to float64 at read time.
package table

import (
	"fmt"
	"strconv"
	"strings"
)

// Key converts a join-key cell to its canonical string form, used both when
// building a dimension index and when probing it. The same function must be
// used on both sides so that equal values always collide.
//
// Rules:
//   - Avoid fmt.Sprint for common primitive types (it allocates heavily).
//   - Strings keep their content; edge whitespace is trimmed.
//   - nil maps to the literal token "null" so a null fact key can match a
//     null-keyed dimension row. This is distinct from the empty string.
func Key(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"

	case string:
		if hasEdgeSpace(t) {
			return strings.TrimSpace(t)
		}
		return t

	case []byte:
		// Convert once.
		s := string(t)
		if hasEdgeSpace(s) {
			return strings.TrimSpace(s)
		}
		return s

	case bool:
		if t {
			return "true"
		}
		return "false"

	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)

	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)

	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// hasEdgeSpace reports whether s starts or ends with ASCII whitespace, so that
// the common no-trim case avoids an allocation.
func hasEdgeSpace(s string) bool {
	if s == "" {
		return false
	}
	return isSpace(s[0]) || isSpace(s[len(s)-1])
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
