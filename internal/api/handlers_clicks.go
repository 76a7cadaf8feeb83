// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/sotonavi/internal/models"
	"github.com/tomtom215/sotonavi/internal/tracking"
)

const maxClickBodyBytes = 4 << 10

// ClickResult reports what happened to a click.
type ClickResult struct {
	Outcome tracking.Outcome `json:"outcome"`
}

// Click records a listing click. Delivery to the counting sink is
// asynchronous; the response only reports whether the click was queued.
func (h *Handler) Click(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, maxClickBodyBytes)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, ErrCodeBodyTooLarge, "Request body too large", nil)
			return
		}
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Request body could not be read", nil)
		return
	}

	var req models.ClickRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON body", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	outcome := tracking.OutcomeDisabled
	if h.tracker != nil {
		outcome, err = h.tracker.Track(tracking.Click{
			EventID:     req.EventID,
			OrganizerID: req.OrganizerID,
			Visitor:     clientIP(r),
		})
		if errors.Is(err, tracking.ErrMissingEventID) {
			respondError(w, http.StatusBadRequest, ErrCodeValidation, "event_id is required", nil)
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Click could not be recorded", err)
			return
		}
	}

	respondSuccess(w, r, start, ClickResult{Outcome: outcome}, nil)
}
