// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Normalize converts an identifier-like value to its trimmed string form.
//
// It returns ok=false (absent) for nil, for non-scalar values (objects and
// arrays), for non-finite numbers, and when the trimmed text is empty or the
// literal "undefined" or "null" in any letter case. Whole numbers render
// without a fractional part so that 12 and "12" normalize identically.
//
// Normalize is pure and idempotent: normalizing an already normalized value
// returns it unchanged.
func Normalize(v any) (string, bool) {
	var s string
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		s = t
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return "", false
		}
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return Normalize(float64(t))
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	case bool:
		s = strconv.FormatBool(t)
	case map[string]any, []any:
		return "", false
	case fmt.Stringer:
		s = t.String()
	default:
		s = fmt.Sprint(t)
	}

	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "undefined") || strings.EqualFold(s, "null") {
		return "", false
	}
	return s, true
}

// String is Normalize without the presence flag; absent becomes "".
func String(v any) string {
	s, _ := Normalize(v)
	return s
}
