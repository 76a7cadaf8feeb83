// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

/*
Package api serves the assembled listings over HTTP.

Routes (all under /api/v1 unless noted):

	GET  /dataset                 assembled dataset
	POST /dataset/refresh         reload and swap in (hard=true drops caches first); operator token
	GET  /events                  filtered listing (q, category, area, date, weekday)
	GET  /events/upcoming         soonest first (limit)
	GET  /events/recent           newest first
	GET  /events/recommended      recommended only
	GET  /events/similar          ranked suggestions (criteria + limit)
	GET  /events/{id}             detail page with organizer and related events
	GET  /organizers/{id}         organizer and their events
	POST /clicks                  click beacon
	GET  /health/live             liveness
	GET  /health/ready            readiness, once a non-empty dataset is loaded
	GET  /metrics                 Prometheus (root path)

The refresh route requires "Authorization: Bearer <jwt>" with the operator
role; it answers 403 when no signing secret is configured.

Every response uses the models.APIResponse envelope. Empty results are a
success with an empty array.

Routing uses chi with go-chi/cors and go-chi/httprate. Handlers depend on
small interfaces (DatasetProvider, DetailProvider, ClickTracker) so they can
be tested with stubs.
*/
package api
