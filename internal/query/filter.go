// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package query

import (
	"strings"

	"github.com/tomtom215/sotonavi/internal/models"
)

// Filter returns the events matching every criterion set in c, in input
// order. With no criteria it returns all events.
//
// A date that cannot be parsed matches nothing. Any weekday value other than
// "next-week" selects the current week.
func Filter(events []models.ListingSummary, c Criteria) []models.ListingSummary {
	preds := make([]func(*models.ListingSummary) bool, 0, 5)

	if q := strings.ToLower(strings.TrimSpace(c.Query)); q != "" {
		preds = append(preds, func(e *models.ListingSummary) bool {
			return matchesText(e, q)
		})
	}
	if cat := strings.TrimSpace(c.Category); cat != "" {
		preds = append(preds, func(e *models.ListingSummary) bool {
			return e.CategoryID != "" && e.CategoryID == cat
		})
	}
	if area := strings.TrimSpace(c.Area); area != "" {
		preds = append(preds, func(e *models.ListingSummary) bool {
			return matchesArea(e, area)
		})
	}
	if c.Date != "" {
		target, ok := parseDay(c.Date)
		preds = append(preds, func(e *models.ListingSummary) bool {
			if !ok {
				return false
			}
			for _, d := range e.OccurrenceDays() {
				if d.Equal(target) {
					return true
				}
			}
			return false
		})
	}
	if c.Weekday != "" {
		start, end := c.week()
		preds = append(preds, func(e *models.ListingSummary) bool {
			for _, d := range e.OccurrenceDays() {
				if !d.Before(start) && !d.After(end) {
					return true
				}
			}
			return false
		})
	}

	out := make([]models.ListingSummary, 0, len(events))
next:
	for i := range events {
		for _, p := range preds {
			if !p(&events[i]) {
				continue next
			}
		}
		out = append(out, events[i])
	}
	return out
}

// matchesText reports whether the lowercase query q occurs in any of the
// event's text fields.
func matchesText(e *models.ListingSummary, q string) bool {
	for _, s := range []string{e.Title, e.Description, e.Area, e.CategoryName} {
		if s != "" && strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

// matchesArea tries the area ID, slug, display name and region in that
// order.
func matchesArea(e *models.ListingSummary, area string) bool {
	switch {
	case e.AreaID != "" && e.AreaID == area:
		return true
	case e.AreaSlug != "" && e.AreaSlug == area:
		return true
	case e.Area != "" && e.Area == area:
		return true
	}
	return e.Prefecture != "" && e.Prefecture == area
}
