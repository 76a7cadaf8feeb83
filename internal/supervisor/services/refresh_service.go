// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/sotonavi/internal/logging"
	"github.com/tomtom215/sotonavi/internal/models"
)

// DefaultRefreshInterval matches the cache TTL.
const DefaultRefreshInterval = 2 * time.Minute

// DatasetLoader is the part of the assembler the refresher drives.
type DatasetLoader interface {
	LoadDataset(ctx context.Context) models.Dataset
	Refresh(ctx context.Context) models.Dataset
}

// DatasetRefresher warms the dataset on start and reloads it on a fixed
// interval, keeping the last good dataset when a reload comes back empty.
// Assembly never fails, so the service only stops on cancel.
type DatasetRefresher struct {
	loader   DatasetLoader
	interval time.Duration
}

// NewDatasetRefresher creates a refresher. A non-positive interval uses
// DefaultRefreshInterval.
func NewDatasetRefresher(loader DatasetLoader, interval time.Duration) *DatasetRefresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &DatasetRefresher{loader: loader, interval: interval}
}

// Serve implements suture.Service.
func (r *DatasetRefresher) Serve(ctx context.Context) error {
	log := logging.WithComponent("dataset-refresher")

	ds := r.loader.LoadDataset(logging.ContextWithNewLoadID(ctx))
	log.Info().Int("events", len(ds.Events)).Dur("interval", r.interval).Msg("Dataset warmed")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			ds := r.loader.Refresh(logging.ContextWithNewLoadID(ctx))
			level := zerolog.InfoLevel
			if ds.IsEmpty() {
				level = zerolog.WarnLevel
			}
			log.WithLevel(level).Int("events", len(ds.Events)).Dur("duration", time.Since(start)).Msg("Dataset refreshed")
		}
	}
}

// String names the service in supervisor logs.
func (r *DatasetRefresher) String() string {
	return "dataset-refresher"
}
