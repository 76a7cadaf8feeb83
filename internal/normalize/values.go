// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package normalize

import (
	"math"
	"strconv"
	"strings"
)

// Text returns the first alias carrying usable text, or "".
// Blank, "undefined" and "null" values are skipped as with identifiers.
func Text(row map[string]any, f Field) string {
	s, _ := LookupID(row, f)
	return s
}

// Float returns the field as a finite number. Numeric strings are accepted.
func Float(row map[string]any, f Field) (float64, bool) {
	for _, alias := range Aliases[f] {
		v, ok := Path(row, alias)
		if !ok || v == nil {
			continue
		}
		if n, ok := toFloat(v); ok {
			return n, true
		}
	}
	return 0, false
}

// Int returns the field as an integer, truncating fractional values.
// Values outside the int range are treated as absent.
func Int(row map[string]any, f Field) (int, bool) {
	n, ok := Float(row, f)
	if !ok {
		return 0, false
	}
	n = math.Trunc(n)
	if n < math.MinInt || n >= math.MaxInt {
		return 0, false
	}
	return int(n), true
}

// Bool returns the field as a boolean. Accepts JSON booleans, 0/1 numbers
// and "true"/"false"/"1"/"0" strings.
func Bool(row map[string]any, f Field) bool {
	v, ok := Lookup(row, f)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return err == nil && b
	}
	return false
}

// Strings returns the field as a list of trimmed non-empty strings.
// A single string value is treated as a one-element list.
func Strings(row map[string]any, f Field) []string {
	v, ok := Lookup(row, f)
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := Normalize(item); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		if s, ok := Normalize(t); ok {
			return []string{s}
		}
	}
	return nil
}

// Object returns the field as a JSON object.
func Object(row map[string]any, f Field) (map[string]any, bool) {
	v, ok := Lookup(row, f)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

// List returns the field as a JSON array.
func List(row map[string]any, f Field) ([]any, bool) {
	v, ok := Lookup(row, f)
	if !ok {
		return nil, false
	}
	l, ok := v.([]any)
	return l, ok
}

func toFloat(v any) (float64, bool) {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		n = p
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
