// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package source

import "fmt"

// ShapeError reports JSON that parsed but is not the expected shape.
type ShapeError struct {
	Resource string
	Expected string
	Got      string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Resource, e.Expected, e.Got)
}

// QualityDegradedError describes a resolution that stayed under the quality
// threshold even after trying the fallback. It is logged, not returned.
type QualityDegradedError struct {
	Resource  string
	Quality   float64
	Threshold float64
	Size      int
}

func (e *QualityDegradedError) Error() string {
	return fmt.Sprintf("%s: quality %.2f below threshold %.2f across %d records",
		e.Resource, e.Quality, e.Threshold, e.Size)
}

// kindOf names the JSON kind of a decoded value for diagnostics.
func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
