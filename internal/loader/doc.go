// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

/*
Package loader loads the three upstream resources of the listing pipeline.

  - IndexLoader: the events index, one ListingSummary per listing
  - MetaLoader: organizer, category and area directories
  - DetailLoader: one EventDetail by ID

Index and metadata loads go through the versioned cache and the quality-gated
source resolver. They are memoized once they produce a non-empty result, and
concurrent callers share a single in-flight load (singleflight). Neither
returns an error: on total failure they return empty collections so pages
can render an empty state.

DetailLoader is the exception. It always fetches, never caches, and returns
errors to the caller; ErrNotFound marks a missing or empty ID.

Upstream rows are mapped through the normalize alias table and validated with
validator/v10 before they leave this package. Invalid rows are dropped and
logged; duplicate IDs keep the first occurrence.
*/
package loader
