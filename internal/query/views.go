// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package query

import (
	"sort"
	"time"

	"github.com/tomtom215/sotonavi/internal/models"
)

// DefaultUpcomingLimit is the size of the upcoming view when no limit is given.
const DefaultUpcomingLimit = 20

// Upcoming returns the events with at least one occurrence, earliest first,
// truncated to limit. A limit <= 0 keeps every event.
func Upcoming(events []models.ListingSummary, limit int) []models.ListingSummary {
	type dated struct {
		event models.ListingSummary
		first time.Time
	}
	rows := make([]dated, 0, len(events))
	for i := range events {
		if first, ok := events[i].FirstDate(); ok {
			rows = append(rows, dated{event: events[i], first: first})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].first.Before(rows[j].first)
	})

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]models.ListingSummary, len(rows))
	for i := range rows {
		out[i] = rows[i].event
	}
	return out
}

// Recent returns the events with a publication timestamp, newest first.
func Recent(events []models.ListingSummary) []models.ListingSummary {
	out := make([]models.ListingSummary, 0, len(events))
	for i := range events {
		if events[i].PublishedAt != nil {
			out = append(out, events[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublishedAt.After(*out[j].PublishedAt)
	})
	return out
}

// Recommended returns the events flagged recommended, in input order.
func Recommended(events []models.ListingSummary) []models.ListingSummary {
	out := make([]models.ListingSummary, 0)
	for i := range events {
		if events[i].IsRecommended {
			out = append(out, events[i])
		}
	}
	return out
}

// ByOrganizer returns the events of one organizer, in input order.
func ByOrganizer(events []models.ListingSummary, organizerID string) []models.ListingSummary {
	out := make([]models.ListingSummary, 0)
	if organizerID == "" {
		return out
	}
	for i := range events {
		if events[i].OrganizerID == organizerID {
			out = append(out, events[i])
		}
	}
	return out
}
