// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package source

import (
	"context"

	"github.com/tomtom215/sotonavi/internal/fetch"
	"github.com/tomtom215/sotonavi/internal/logging"
	"github.com/tomtom215/sotonavi/internal/metrics"
)

// DefaultQualityThreshold is the score under which the fallback is consulted.
const DefaultQualityThreshold = 0.9

// Fetcher performs one strict JSON fetch.
type Fetcher interface {
	FetchJSONStrict(ctx context.Context, url string) (any, error)
}

// Resource describes one resolvable resource with payload type P.
type Resource[P any] struct {
	// Name identifies the resource in logs and metrics.
	Name string
	// Primary and Fallback URLs. An empty Fallback disables the fallback.
	Primary  string
	Fallback string
	// Decode turns a decoded JSON value into the payload. A *ShapeError
	// means the response is unusable and reads as empty.
	Decode func(raw any) (P, error)
	// Quality scores a payload in [0, 1].
	Quality func(P) float64
	// Size counts the records of a payload.
	Size func(P) int
}

// Origin says which source a resolution adopted.
type Origin string

// Resolution origins.
const (
	OriginPrimary  Origin = "primary"
	OriginFallback Origin = "fallback"
)

// Resolution is the outcome of Resolve.
type Resolution[P any] struct {
	Value   P
	Origin  Origin
	Quality float64
	Size    int
}

// Resolver runs quality-gated resolutions.
type Resolver struct {
	fetcher   Fetcher
	threshold float64
}

// NewResolver creates a resolver. A threshold outside (0, 1] uses
// DefaultQualityThreshold.
func NewResolver(fetcher Fetcher, threshold float64) *Resolver {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultQualityThreshold
	}
	return &Resolver{fetcher: fetcher, threshold: threshold}
}

// Threshold returns the configured quality threshold.
func (r *Resolver) Threshold() float64 {
	return r.threshold
}

// Resolve loads res from its primary URL and, when quality is under the
// threshold, from its fallback URL.
//
// The fallback value is adopted only if it is non-empty and its quality is
// at least the primary's. Resolve never fails: unusable sources read as the
// zero payload.
func Resolve[P any](ctx context.Context, r *Resolver, res Resource[P]) Resolution[P] {
	log := logging.Ctx(ctx)

	value := load(ctx, r, res, res.Primary)
	out := Resolution[P]{
		Value:   value,
		Origin:  OriginPrimary,
		Quality: res.Quality(value),
		Size:    res.Size(value),
	}

	if out.Quality < r.threshold && res.Fallback != "" {
		fb := load(ctx, r, res, res.Fallback)
		fbQuality, fbSize := res.Quality(fb), res.Size(fb)
		adopted := fbSize > 0 && fbQuality >= out.Quality
		metrics.RecordFallback(res.Name, adopted)

		log.Info().
			Str("resource", res.Name).
			Float64("primary_quality", out.Quality).
			Int("primary_size", out.Size).
			Float64("fallback_quality", fbQuality).
			Int("fallback_size", fbSize).
			Bool("adopted", adopted).
			Msg("Primary source under quality threshold, consulted fallback")

		if adopted {
			out = Resolution[P]{Value: fb, Origin: OriginFallback, Quality: fbQuality, Size: fbSize}
		}
	}

	metrics.SetSourceQuality(res.Name, out.Quality)

	if out.Quality < r.threshold && out.Size > 0 {
		degraded := &QualityDegradedError{
			Resource:  res.Name,
			Quality:   out.Quality,
			Threshold: r.threshold,
			Size:      out.Size,
		}
		log.Warn().
			Err(degraded).
			Str("resource", res.Name).
			Str("origin", string(out.Origin)).
			Msg("Serving degraded data")
	}

	return out
}

// load fetches and decodes one source, reading any failure as empty.
func load[P any](ctx context.Context, r *Resolver, res Resource[P], url string) P {
	var zero P
	if url == "" {
		return zero
	}

	raw, err := r.fetcher.FetchJSONStrict(ctx, url)
	if err != nil {
		logging.Ctx(ctx).Warn().
			Err(err).
			Fields(fetch.DiagnosticFields(err)).
			Str("resource", res.Name).
			Str("url", url).
			Msg("Source unavailable")
		return zero
	}

	value, err := res.Decode(raw)
	if err != nil {
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("resource", res.Name).
			Str("url", url).
			Msg("Source returned unexpected shape")
		return zero
	}
	return value
}
