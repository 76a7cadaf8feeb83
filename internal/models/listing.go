// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package models

import "time"

// DateLayout is the calendar-day format used for occurrence dates.
const DateLayout = "2006-01-02"

// Occurrence is one scheduled date of an event.
//
// Date is always normalized to DateLayout. Time is the free-text time label
// shown on detail pages (e.g. "10:00"); StartTime and EndTime are kept when
// the upstream record splits them.
type Occurrence struct {
	Date      string `json:"date"`
	Time      string `json:"time,omitempty"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
}

// ListingSummary is one row of the events index.
//
// Rows are created fresh on every successful index load and treated as
// immutable afterwards; the assembler clones a row before overlaying
// detail-sourced fields onto it.
type ListingSummary struct {
	ID            string       `json:"id" validate:"required"`
	Title         string       `json:"title"`
	Description   string       `json:"description,omitempty"`
	Image         string       `json:"image,omitempty"`
	Area          string       `json:"area,omitempty"`
	AreaID        string       `json:"areaId,omitempty"`
	AreaSlug      string       `json:"areaSlug,omitempty"`
	Prefecture    string       `json:"prefecture,omitempty"`
	Price         float64      `json:"price"`
	IsRecommended bool         `json:"isRecommended"`
	IsNew         bool         `json:"isNew"`
	Rating        *float64     `json:"rating,omitempty"`
	ReviewCount   *int         `json:"reviewCount,omitempty"`
	CategoryID    string       `json:"categoryId,omitempty"`
	CategoryName  string       `json:"categoryName,omitempty"`
	OrganizerID   string       `json:"organizerId,omitempty"`
	NextDate      string       `json:"nextDate,omitempty"`
	Dates         []Occurrence `json:"dates,omitempty"`
	PublishedAt   *time.Time   `json:"publishedAt,omitempty"`
}

// HasDates reports whether the row carries any occurrence information.
func (l *ListingSummary) HasDates() bool {
	return l.NextDate != "" || len(l.Dates) > 0
}

// FirstDate returns the earliest occurrence date of the row.
//
// Occurrence entries win over NextDate; NextDate is the index's own
// precomputed value and is only consulted when no entries are present.
// Returns the zero time and false when the row has no parseable date.
func (l *ListingSummary) FirstDate() (time.Time, bool) {
	var first time.Time
	found := false
	for _, o := range l.Dates {
		d, err := time.Parse(DateLayout, o.Date)
		if err != nil {
			continue
		}
		if !found || d.Before(first) {
			first = d
			found = true
		}
	}
	if found {
		return first, true
	}
	if l.NextDate != "" {
		if d, err := time.Parse(DateLayout, l.NextDate); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// OccurrenceDays returns every parseable occurrence date, falling back to
// NextDate when the row has no entries.
func (l *ListingSummary) OccurrenceDays() []time.Time {
	days := make([]time.Time, 0, len(l.Dates)+1)
	for _, o := range l.Dates {
		if d, err := time.Parse(DateLayout, o.Date); err == nil {
			days = append(days, d)
		}
	}
	if len(days) == 0 && l.NextDate != "" {
		if d, err := time.Parse(DateLayout, l.NextDate); err == nil {
			days = append(days, d)
		}
	}
	return days
}

// Clone returns a deep copy of the row.
func (l *ListingSummary) Clone() ListingSummary {
	c := *l
	if l.Dates != nil {
		c.Dates = append([]Occurrence(nil), l.Dates...)
	}
	if l.Rating != nil {
		r := *l.Rating
		c.Rating = &r
	}
	if l.ReviewCount != nil {
		n := *l.ReviewCount
		c.ReviewCount = &n
	}
	if l.PublishedAt != nil {
		p := *l.PublishedAt
		c.PublishedAt = &p
	}
	return c
}
