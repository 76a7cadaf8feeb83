// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

/*
Package models defines the data structures shared by the Sotonavi pipeline.

Upstream JSON is loosely typed and uses several spellings for the same field.
Loaders map raw rows onto these types once, at the fetch boundary, so that the
rest of the service (dataset assembly, listing queries, HTTP handlers) only ever
sees the canonical shape.

Key Components:

  - ListingSummary: one row of the events index, the source of truth for list views
  - EventDetail: the full per-event record, fetched on demand
  - Occurrence: one scheduled date of an event
  - Organizer, Category: shared reference data from meta.json
  - Meta: the organizer, category and area directories
  - Dataset: the assembled aggregate served to the front end
  - APIResponse: the HTTP response envelope

Optional identifiers are plain strings where "" means absent. Optional numbers
are pointers so that a missing rating is distinguishable from a zero rating.
*/
package models
