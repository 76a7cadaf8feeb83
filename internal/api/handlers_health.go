// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/sotonavi/internal/models"
)

// HealthLive reports that the process is serving.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, time.Now(), map[string]string{"status": "alive"}, nil)
}

// HealthReady reports ready once a non-empty dataset has been loaded. It
// never triggers a load itself.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.dataset.Snapshot()
	health := models.HealthStatus{
		Status:        "ready",
		Version:       h.version,
		DatasetLoaded: ok && !ds.IsEmpty(),
		EventCount:    len(ds.Events),
		Uptime:        time.Since(h.startTime).Seconds(),
	}

	if !health.DatasetLoaded {
		health.Status = "loading"
		respondJSON(w, http.StatusServiceUnavailable, &models.APIResponse{
			Status:   "error",
			Data:     health,
			Metadata: models.Metadata{Timestamp: time.Now().UTC()},
			Error: &models.APIError{
				Code:    ErrCodeUnavailable,
				Message: "Dataset not loaded yet",
			},
		})
		return
	}

	respondSuccess(w, r, time.Now(), health, nil)
}
