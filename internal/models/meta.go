// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package models

// Organizer is an entry of the organizer directory.
//
// EstablishedYear is kept as text because upstream sends either a number
// (2015) or a label ("2015年").
type Organizer struct {
	ID              string   `json:"id" validate:"required"`
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	Logo            string   `json:"logo,omitempty"`
	Website         string   `json:"website,omitempty"`
	Contact         string   `json:"contact,omitempty"`
	EstablishedYear string   `json:"establishedYear,omitempty"`
	Rating          *float64 `json:"rating,omitempty"`
	ReviewCount     *int     `json:"reviewCount,omitempty"`
}

// Category is an entry of the category directory.
type Category struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// Meta is the shared reference data loaded from meta.json.
type Meta struct {
	Organizers []Organizer `json:"organizers"`
	Categories []Category  `json:"categories"`
	Areas      []string    `json:"areas"`
}

// EmptyMeta returns metadata with empty, non-nil collections.
func EmptyMeta() Meta {
	return Meta{
		Organizers: []Organizer{},
		Categories: []Category{},
		Areas:      []string{},
	}
}
