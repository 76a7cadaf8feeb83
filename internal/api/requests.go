// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/sotonavi/internal/query"
)

// UpcomingRequest holds the validated upcoming view parameters.
// A zero limit returns every dated event.
type UpcomingRequest struct {
	Limit int `validate:"gte=0,lte=500"`
}

// SimilarRequest holds the validated similar view parameters.
type SimilarRequest struct {
	query.Criteria
	Limit int `validate:"gte=1,lte=50"`
}

// criteriaFromQuery reads listing criteria from the query string.
func (h *Handler) criteriaFromQuery(r *http.Request) query.Criteria {
	q := r.URL.Query()
	return query.Criteria{
		Query:    strings.TrimSpace(q.Get("q")),
		Category: strings.TrimSpace(q.Get("category")),
		Area:     strings.TrimSpace(q.Get("area")),
		Date:     strings.TrimSpace(q.Get("date")),
		Weekday:  strings.TrimSpace(q.Get("weekday")),
		Now:      h.now(),
	}
}
