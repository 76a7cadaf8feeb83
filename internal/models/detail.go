// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package models

import "strings"

// Location is the free-text venue of an event with optional coordinates.
type Location struct {
	Name string   `json:"name,omitempty"`
	Lat  *float64 `json:"lat,omitempty"`
	Lng  *float64 `json:"lng,omitempty"`
}

// HasCoordinates reports whether both coordinates are present.
func (l Location) HasCoordinates() bool {
	return l.Lat != nil && l.Lng != nil
}

// EventDetail is the full record for one event.
//
// It is a superset of ListingSummary. When the assembler backfills an index
// row from a detail record, detail values only fill fields the row lacks.
type EventDetail struct {
	ListingSummary

	Duration     string   `json:"duration,omitempty"`
	Location     Location `json:"location"`
	Target       string   `json:"targetAge,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	Highlights   []string `json:"highlights,omitempty"`
	Facilities   string   `json:"facilities,omitempty"`
	ExternalLink string   `json:"externalLink,omitempty"`
	SubImages    []string `json:"subImages,omitempty"`
}

// FacilityTags splits the pipe-delimited facility text into trimmed tags.
// Blank segments are dropped.
func (d *EventDetail) FacilityTags() []string {
	if d.Facilities == "" {
		return nil
	}
	parts := strings.Split(d.Facilities, "|")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
