// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package query

import (
	"math"
	"time"

	"github.com/tomtom215/sotonavi/internal/models"
)

// Rating fallback values for listing cards.
const (
	DefaultRating      = 4.5
	DefaultReviewCount = 10
)

// Rating is the score shown on a listing card.
type Rating struct {
	Value       float64 `json:"value"`
	ReviewCount int     `json:"reviewCount"`
}

// RatingFor returns the event's own rating when it has both a non-zero
// rating and review count, else its organizer's, else the defaults. A
// missing or non-finite value reads as DefaultRating and 0 reviews.
func RatingFor(e *models.ListingSummary, organizers []models.Organizer) Rating {
	if e.Rating != nil && *e.Rating != 0 && e.ReviewCount != nil && *e.ReviewCount != 0 {
		return sanitize(e.Rating, e.ReviewCount)
	}
	if e.OrganizerID != "" {
		for i := range organizers {
			if organizers[i].ID == e.OrganizerID {
				return sanitize(organizers[i].Rating, organizers[i].ReviewCount)
			}
		}
	}
	return Rating{Value: DefaultRating, ReviewCount: DefaultReviewCount}
}

func sanitize(rating *float64, count *int) Rating {
	r := Rating{Value: DefaultRating}
	if rating != nil && !math.IsNaN(*rating) && !math.IsInf(*rating, 0) {
		r.Value = *rating
	}
	if count != nil {
		r.ReviewCount = *count
	}
	return r
}

// IsUpcomingSoon reports whether any occurrence falls within the next seven
// days, today included.
func IsUpcomingSoon(e *models.ListingSummary, now time.Time) bool {
	today := day(now)
	limit := today.AddDate(0, 0, 7)
	for _, d := range e.OccurrenceDays() {
		if !d.Before(today) && !d.After(limit) {
			return true
		}
	}
	return false
}

// Card is a listing row decorated with its display rating and badges.
type Card struct {
	models.ListingSummary
	DisplayRating  Rating `json:"displayRating"`
	IsUpcomingSoon bool   `json:"isUpcomingSoon"`
}

// Cards decorates events for listing pages.
func Cards(events []models.ListingSummary, organizers []models.Organizer, now time.Time) []Card {
	out := make([]Card, len(events))
	for i := range events {
		out[i] = Card{
			ListingSummary: events[i],
			DisplayRating:  RatingFor(&events[i], organizers),
			IsUpcomingSoon: IsUpcomingSoon(&events[i], now),
		}
	}
	return out
}
