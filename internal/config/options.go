package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Options is a free-form option bag decoded from JSON. Source backends and
// render surfaces read kind-specific settings from it with typed accessors so
// the shared config types stay backend-agnostic.
type Options map[string]any

// Bool returns the named option as a bool, or def when absent or untyped.
func (o Options) Bool(key string, def bool) bool {
	v, ok := o[key]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return def
		}
		return b
	default:
		return def
	}
}

// Int returns the named option as an int, or def when absent or untyped.
// JSON numbers decode as float64, so that is the common case.
func (o Options) Int(key string, def int) int {
	v, ok := o[key]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return def
		}
		return n
	default:
		return def
	}
}

// String returns the named option as a string, or def when absent.
func (o Options) String(key string, def string) string {
	v, ok := o[key]
	if !ok {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Rune returns the first rune of the named string option, or def.
func (o Options) Rune(key string, def rune) rune {
	s := o.String(key, "")
	if s == "" {
		return def
	}
	return []rune(s)[0]
}

// StringMap returns the named option as map[string]string. Non-string values
// are skipped.
func (o Options) StringMap(key string) map[string]string {
	out := map[string]string{}
	v, ok := o[key]
	if !ok {
		return out
	}
	m, ok := v.(map[string]any)
	if !ok {
		return out
	}
	for k, mv := range m {
		if s, ok := mv.(string); ok {
			out[k] = s
		}
	}
	return out
}

// Any returns the raw option value, or nil when absent.
func (o Options) Any(key string) any { return o[key] }
