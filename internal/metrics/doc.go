// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

/*
Package metrics provides Prometheus instrumentation for Sotonavi.

All collectors are registered on the default registry through promauto and
exposed by the HTTP server at /metrics.

Metric Families:

Upstream fetches (fetch package):
  - sotonavi_fetch_requests_total{resource, outcome}
  - sotonavi_fetch_duration_seconds{resource}

Versioned cache (cache package):
  - sotonavi_cache_hits_total{key}
  - sotonavi_cache_misses_total{key, reason}: reason is absent, version, expired,
    unhealthy or error

Source resolution (source package):
  - sotonavi_source_fallbacks_total{resource, adopted}
  - sotonavi_source_quality{resource}: quality score of the last resolution

Dataset assembly (dataset package):
  - sotonavi_backfill_requests_total{pass, outcome}
  - sotonavi_dataset_load_duration_seconds
  - sotonavi_dataset_events: events in the last assembled dataset

Circuit breakers:
  - circuit_breaker_state{name}: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total{name, result}
  - circuit_breaker_consecutive_failures{name}
  - circuit_breaker_transitions_total{name, from, to}

Click beacon and HTTP API:
  - sotonavi_click_beacons_total{outcome}
  - api_requests_total{method, endpoint, status_code}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests
*/
package metrics
