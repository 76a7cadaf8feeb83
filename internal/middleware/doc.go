// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

/*
Package middleware provides HTTP middleware for the listings API.

Key Components:

  - RequestID: propagates or generates X-Request-ID and seeds the logging context
  - PrometheusMetrics: request counts, latency and in-flight gauge per route
  - Compression: gzip for clients that accept it

All middleware has the chi signature func(http.Handler) http.Handler:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.With(middleware.Compression).Get("/api/v1/dataset", h.Dataset)

Metrics are labelled with the chi route pattern rather than the raw path, so
event IDs in URLs do not create new series.
*/
package middleware
