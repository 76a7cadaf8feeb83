// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/sotonavi/internal/loader"
	"github.com/tomtom215/sotonavi/internal/logging"
	"github.com/tomtom215/sotonavi/internal/models"
	"github.com/tomtom215/sotonavi/internal/query"
)

// Events lists the events matching the q, category, area, date and weekday
// query parameters. No parameters lists every event.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	c := h.criteriaFromQuery(r)
	if apiErr := validateRequest(&c); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	ds := h.dataset.LoadDataset(r.Context())
	events := query.Filter(ds.Events, c)
	respondList(w, r, start, query.Cards(events, ds.Organizers, c.Now))
}

// UpcomingEvents lists dated events, soonest first.
func (h *Handler) UpcomingEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	limit, ok := getIntParam(r, "limit", query.DefaultUpcomingLimit)
	if !ok {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "limit must be an integer", nil)
		return
	}
	req := UpcomingRequest{Limit: limit}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	ds := h.dataset.LoadDataset(r.Context())
	respondList(w, r, start, query.Cards(query.Upcoming(ds.Events, req.Limit), ds.Organizers, h.now()))
}

// RecentEvents lists published events, newest first.
func (h *Handler) RecentEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ds := h.dataset.LoadDataset(r.Context())
	respondList(w, r, start, query.Cards(query.Recent(ds.Events), ds.Organizers, h.now()))
}

// RecommendedEvents lists recommended events.
func (h *Handler) RecommendedEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ds := h.dataset.LoadDataset(r.Context())
	respondList(w, r, start, query.Cards(query.Recommended(ds.Events), ds.Organizers, h.now()))
}

// SimilarEvents ranks events against the criteria. It never returns fewer
// than min(limit, total events) suggestions.
func (h *Handler) SimilarEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	limit, ok := getIntParam(r, "limit", query.DefaultSimilarLimit)
	if !ok {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "limit must be an integer", nil)
		return
	}
	req := SimilarRequest{Criteria: h.criteriaFromQuery(r), Limit: limit}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	ds := h.dataset.LoadDataset(r.Context())
	similar := query.Similar(ds.Events, req.Criteria, req.Limit)
	respondList(w, r, start, query.Cards(similar, ds.Organizers, req.Criteria.Now))
}

// Event returns the detail page of one event. Any load failure is reported
// as NOT_FOUND, matching what the listing site shows.
func (h *Handler) Event(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	detail, err := h.details.LoadDetail(r.Context(), id)
	if err != nil {
		if !errors.Is(err, loader.ErrNotFound) {
			logging.Ctx(r.Context()).Warn().Err(err).Str("event_id", sanitizeLogValue(id)).Msg("Event detail unavailable")
		}
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Event not found", nil)
		return
	}

	ds := h.dataset.LoadDataset(r.Context())
	respondSuccess(w, r, start, buildEventPage(&ds, detail, h.now()), nil)
}

// buildEventPage resolves the detail's organizer and category against the
// dataset and attaches related events. When the detail omits its organizer
// the index row's is used.
func buildEventPage(ds *models.Dataset, detail models.EventDetail, now time.Time) models.EventPage {
	organizerID := detail.OrganizerID
	if organizerID == "" {
		if row, ok := ds.Event(detail.ID); ok {
			organizerID = row.OrganizerID
		}
	}

	rating := query.RatingFor(&detail.ListingSummary, ds.Organizers)
	page := models.EventPage{
		Event:          detail,
		FacilityTags:   detail.FacilityTags(),
		Rating:         rating.Value,
		ReviewCount:    rating.ReviewCount,
		IsUpcomingSoon: query.IsUpcomingSoon(&detail.ListingSummary, now),
		Related:        query.Related(ds.Events, &detail.ListingSummary, query.DefaultRelatedLimit),
	}
	if page.FacilityTags == nil {
		page.FacilityTags = []string{}
	}
	if org, ok := ds.Organizer(organizerID); ok {
		page.Organizer = &org
	}
	if cat, ok := ds.Category(detail.CategoryID); ok {
		page.Category = &cat
	}
	return page
}

// Organizer returns one organizer with their events.
func (h *Handler) Organizer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	ds := h.dataset.LoadDataset(r.Context())
	org, ok := ds.Organizer(id)
	if !ok {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Organizer not found", nil)
		return
	}

	respondSuccess(w, r, start, models.OrganizerPage{
		Organizer: org,
		Events:    query.ByOrganizer(ds.Events, org.ID),
	}, nil)
}
