// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Upstream Fetch Metrics
	FetchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sotonavi_fetch_requests_total",
			Help: "Total number of upstream JSON fetches",
		},
		[]string{"resource", "outcome"}, // outcome: "ok", "network", "http", "not_json", "decode", "rejected"
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sotonavi_fetch_duration_seconds",
			Help:    "Duration of upstream JSON fetches in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"resource"},
	)

	// Versioned Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sotonavi_cache_hits_total",
			Help: "Total number of versioned cache hits",
		},
		[]string{"key"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sotonavi_cache_misses_total",
			Help: "Total number of versioned cache misses",
		},
		[]string{"key", "reason"},
	)

	// Source Resolution Metrics
	SourceFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sotonavi_source_fallbacks_total",
			Help: "Total number of fallback source attempts",
		},
		[]string{"resource", "adopted"},
	)

	SourceQuality = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sotonavi_source_quality",
			Help: "Quality score (0..1) of the most recent resolution",
		},
		[]string{"resource"},
	)

	// Dataset Assembly Metrics
	BackfillRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sotonavi_backfill_requests_total",
			Help: "Total number of detail fetches issued during backfill",
		},
		[]string{"pass", "outcome"}, // pass: "dates", "organizer"
	)

	DatasetLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sotonavi_dataset_load_duration_seconds",
			Help:    "Duration of dataset assembly in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	DatasetEvents = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sotonavi_dataset_events",
			Help: "Number of events in the last assembled dataset",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Number of consecutive failures in circuit breaker",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Click Beacon Metrics
	ClickBeacons = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sotonavi_click_beacons_total",
			Help: "Total number of click beacon attempts",
		},
		[]string{"outcome"}, // "queued", "suppressed", "dropped", "disabled", "sent", "failed"
	)

	ClickSuppressionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sotonavi_click_suppressions_active",
			Help: "Number of visitor/event pairs currently held in the suppression window",
		},
	)

	ClickSuppressionHitRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sotonavi_click_suppression_hit_rate_percent",
			Help: "Percentage of tracked clicks that matched a live suppression",
		},
	)

	ClickSuppressionEvictions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sotonavi_click_suppression_evictions",
			Help: "Suppressions expired or released since the tracker started",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)
)

// RecordFetch records one upstream fetch.
func RecordFetch(resource, outcome string, duration time.Duration) {
	FetchRequests.WithLabelValues(resource, outcome).Inc()
	FetchDuration.WithLabelValues(resource).Observe(duration.Seconds())
}

// RecordCacheHit records a versioned cache hit.
func RecordCacheHit(key string) {
	CacheHits.WithLabelValues(key).Inc()
}

// RecordCacheMiss records a versioned cache miss with its reason.
func RecordCacheMiss(key, reason string) {
	CacheMisses.WithLabelValues(key, reason).Inc()
}

// RecordFallback records a fallback attempt and whether its result was adopted.
func RecordFallback(resource string, adopted bool) {
	SourceFallbacks.WithLabelValues(resource, strconv.FormatBool(adopted)).Inc()
}

// SetSourceQuality records the quality score of the latest resolution.
func SetSourceQuality(resource string, quality float64) {
	SourceQuality.WithLabelValues(resource).Set(quality)
}

// RecordBackfill records one backfill detail fetch.
func RecordBackfill(pass string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	BackfillRequests.WithLabelValues(pass, outcome).Inc()
}

// RecordDatasetLoad records the duration and size of a dataset assembly.
func RecordDatasetLoad(duration time.Duration, events int) {
	DatasetLoadDuration.Observe(duration.Seconds())
	DatasetEvents.Set(float64(events))
}

// RecordClick records a click beacon outcome.
func RecordClick(outcome string) {
	ClickBeacons.WithLabelValues(outcome).Inc()
}

// SetClickSuppressions publishes a snapshot of the click suppression window.
func SetClickSuppressions(active, evictions int64, hitRate float64) {
	ClickSuppressionsActive.Set(float64(active))
	ClickSuppressionEvictions.Set(float64(evictions))
	ClickSuppressionHitRate.Set(hitRate)
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
