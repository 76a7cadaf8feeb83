// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

/*
Package source resolves a logical resource (events index, metadata) from a
primary host with a quality-gated fallback to a mirror.

The primary static host is updated first on deploy; the mirror lags behind.
Either side may briefly serve stale or partial data. Resolve scores what the
primary returned and only consults the mirror when the score is under the
threshold, and only adopts the mirror when it is non-empty and scores at
least as well. Quality therefore never regresses by switching sources.

Failures are not fatal here. A failed fetch or an unexpected JSON shape reads
as an empty result and the resolution continues; degraded final quality is
logged as a QualityDegradedError for operators, never returned.

Endpoints decides where resources live:

  - StaticEndpoints: {base}/events_index.json, {base}/meta.json,
    {base}/events/{id}.json on a static host plus a mirror base
  - LegacyEndpoints: the superseded RPC backend, {url}?type=index|meta|event&id=
*/
package source
