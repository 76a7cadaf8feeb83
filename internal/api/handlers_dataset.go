// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/sotonavi/internal/logging"
	"github.com/tomtom215/sotonavi/internal/models"
)

// RefreshResult summarizes a forced reload.
type RefreshResult struct {
	Hard       bool  `json:"hard"`
	Loaded     bool  `json:"loaded"`
	Events     int   `json:"events"`
	Organizers int   `json:"organizers"`
	Categories int   `json:"categories"`
	DurationMS int64 `json:"duration_ms"`
}

// Dataset returns the assembled dataset. An upstream outage yields an empty
// dataset, not an error.
func (h *Handler) Dataset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ds := h.dataset.LoadDataset(r.Context())
	n := len(ds.Events)
	respondSuccess(w, r, start, ds, &n)
}

// RefreshDataset reloads the dataset from upstream and swaps it in when the
// reload is non-empty. With hard=true it first drops every memoized and
// cached entry, so data still inside its freshness window is refetched too.
func (h *Handler) RefreshDataset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	hard := false
	if raw := r.URL.Query().Get("hard"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrCodeValidation, "hard must be a boolean", nil)
			return
		}
		hard = v
	}

	var ds models.Dataset
	if hard {
		h.dataset.Invalidate(r.Context())
		ds = h.dataset.LoadDataset(r.Context())
	} else {
		ds = h.dataset.Refresh(r.Context())
	}

	result := RefreshResult{
		Hard:       hard,
		Loaded:     !ds.IsEmpty(),
		Events:     len(ds.Events),
		Organizers: len(ds.Organizers),
		Categories: len(ds.Categories),
		DurationMS: time.Since(start).Milliseconds(),
	}
	logging.Ctx(r.Context()).Info().
		Bool("hard", hard).
		Int("events", result.Events).
		Int64("duration_ms", result.DurationMS).
		Msg("Dataset refreshed on request")

	respondSuccess(w, r, start, result, nil)
}
