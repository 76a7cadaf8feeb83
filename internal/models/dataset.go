// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package models

// Dataset is the assembled aggregate served to listing pages.
//
// Events is the index, kept as the canonical entry for every listing.
// Organizer references need not resolve; lookups return false instead of
// failing.
type Dataset struct {
	Events     []ListingSummary `json:"events"`
	Organizers []Organizer      `json:"organizers"`
	Categories []Category       `json:"categories"`
	Areas      []string         `json:"areas"`
}

// EmptyDataset returns a dataset with empty, non-nil collections so that it
// serializes as arrays rather than null.
func EmptyDataset() Dataset {
	return Dataset{
		Events:     []ListingSummary{},
		Organizers: []Organizer{},
		Categories: []Category{},
		Areas:      []string{},
	}
}

// IsEmpty reports whether the dataset carries no events.
func (d *Dataset) IsEmpty() bool {
	return len(d.Events) == 0
}

// Organizer looks up an organizer by ID.
func (d *Dataset) Organizer(id string) (Organizer, bool) {
	if id == "" {
		return Organizer{}, false
	}
	for i := range d.Organizers {
		if d.Organizers[i].ID == id {
			return d.Organizers[i], true
		}
	}
	return Organizer{}, false
}

// Category looks up a category by ID.
func (d *Dataset) Category(id string) (Category, bool) {
	if id == "" {
		return Category{}, false
	}
	for i := range d.Categories {
		if d.Categories[i].ID == id {
			return d.Categories[i], true
		}
	}
	return Category{}, false
}

// Event looks up an index row by ID.
func (d *Dataset) Event(id string) (ListingSummary, bool) {
	if id == "" {
		return ListingSummary{}, false
	}
	for i := range d.Events {
		if d.Events[i].ID == id {
			return d.Events[i], true
		}
	}
	return ListingSummary{}, false
}
