// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package api

import (
	"context"
	"time"

	"github.com/tomtom215/sotonavi/internal/models"
	"github.com/tomtom215/sotonavi/internal/tracking"
)

// DatasetProvider supplies the assembled dataset.
type DatasetProvider interface {
	LoadDataset(ctx context.Context) models.Dataset
	Snapshot() (models.Dataset, bool)
	Refresh(ctx context.Context) models.Dataset
	Invalidate(ctx context.Context)
}

// DetailProvider loads single event details.
type DetailProvider interface {
	LoadDetail(ctx context.Context, id string) (models.EventDetail, error)
}

// ClickTracker records listing clicks.
type ClickTracker interface {
	Track(c tracking.Click) (tracking.Outcome, error)
}

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	dataset   DatasetProvider
	details   DetailProvider
	tracker   ClickTracker
	version   string
	startTime time.Time
	now       func() time.Time
}

// NewHandler creates a handler. A nil tracker disables the click endpoint.
func NewHandler(dataset DatasetProvider, details DetailProvider, tracker ClickTracker, version string) *Handler {
	return &Handler{
		dataset:   dataset,
		details:   details,
		tracker:   tracker,
		version:   version,
		startTime: time.Now(),
		now:       time.Now,
	}
}
