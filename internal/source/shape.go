// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package source

// ToArray flattens a decoded response into its record array.
//
// A bare array is returned as is. An object is searched for the first of
// wrapperKeys holding an array. Anything else is a ShapeError.
func ToArray(resource string, raw any, wrapperKeys ...string) ([]any, error) {
	switch v := raw.(type) {
	case []any:
		return v, nil
	case map[string]any:
		for _, key := range wrapperKeys {
			if arr, ok := v[key].([]any); ok {
				return arr, nil
			}
		}
		return nil, &ShapeError{Resource: resource, Expected: "array or wrapped array", Got: "object without record array"}
	default:
		return nil, &ShapeError{Resource: resource, Expected: "array or wrapped array", Got: kindOf(raw)}
	}
}

// ToObject asserts that a decoded response is a JSON object.
func ToObject(resource string, raw any) (map[string]any, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, &ShapeError{Resource: resource, Expected: "object", Got: kindOf(raw)}
	}
	return obj, nil
}

// Objects keeps the object elements of arr. Non-object elements are counted
// and reported as skipped.
func Objects(arr []any) (rows []map[string]any, skipped int) {
	rows = make([]map[string]any, 0, len(arr))
	for _, item := range arr {
		if m, ok := item.(map[string]any); ok {
			rows = append(rows, m)
			continue
		}
		skipped++
	}
	return rows, skipped
}
