// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package loader

import (
	"context"
	"time"

	"github.com/tomtom215/sotonavi/internal/cache"
	"github.com/tomtom215/sotonavi/internal/logging"
	"github.com/tomtom215/sotonavi/internal/models"
	"github.com/tomtom215/sotonavi/internal/source"
)

// resourceIndex names the index resource in logs, metrics and responses.
const resourceIndex = "events_index"

// IndexLoader loads the events index.
type IndexLoader struct {
	resolver  *source.Resolver
	endpoints source.Endpoints
	cache     *cache.Versioned
	ttl       time.Duration
	memo      *Memo[[]models.ListingSummary]
}

// NewIndexLoader creates an index loader. A nil cache disables caching.
func NewIndexLoader(resolver *source.Resolver, endpoints source.Endpoints, vc *cache.Versioned, ttl time.Duration) *IndexLoader {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &IndexLoader{
		resolver:  resolver,
		endpoints: endpoints,
		cache:     vc,
		ttl:       ttl,
		memo: NewMemo(resourceIndex, func(rows []models.ListingSummary) bool {
			return len(rows) > 0
		}),
	}
}

// LoadIndex returns the events index, never nil.
//
// The returned slice is shared between callers and must not be modified.
func (l *IndexLoader) LoadIndex(ctx context.Context) []models.ListingSummary {
	rows := l.memo.Get(ctx, l.load)
	if rows == nil {
		return []models.ListingSummary{}
	}
	return rows
}

// RefreshIndex fetches the index from upstream, skipping the cache, and
// swaps it in when non-empty. During an outage the previous index stays.
func (l *IndexLoader) RefreshIndex(ctx context.Context) []models.ListingSummary {
	rows := l.memo.Refresh(ctx, l.fetch)
	if rows == nil {
		return []models.ListingSummary{}
	}
	return rows
}

// Reset drops the memoized index so the next call reloads it.
func (l *IndexLoader) Reset() {
	l.memo.Reset()
}

func (l *IndexLoader) load(ctx context.Context) []models.ListingSummary {
	if l.cache != nil {
		if rows, ok := cache.Read(ctx, l.cache, cache.KeyIndex, l.ttl, indexCacheHealthy); ok {
			logging.Ctx(ctx).Debug().Int("events", len(rows)).Msg("Index served from cache")
			return rows
		}
	}
	return l.fetch(ctx)
}

// fetch resolves the index upstream and writes a non-empty result through
// to the cache.
func (l *IndexLoader) fetch(ctx context.Context) []models.ListingSummary {
	log := logging.Ctx(ctx)

	primary, fallback := l.endpoints.IndexURLs()
	res := source.Resolve(ctx, l.resolver, source.Resource[[]models.ListingSummary]{
		Name:     resourceIndex,
		Primary:  primary,
		Fallback: fallback,
		Decode: func(raw any) ([]models.ListingSummary, error) {
			return decodeIndex(ctx, raw)
		},
		Quality: IndexQuality,
		Size:    func(rows []models.ListingSummary) int { return len(rows) },
	})

	if res.Size == 0 {
		log.Warn().Msg("Index unavailable from every source, serving empty index")
		return []models.ListingSummary{}
	}

	if l.cache != nil {
		l.cache.Write(ctx, cache.KeyIndex, res.Value)
	}
	log.Info().
		Int("events", res.Size).
		Str("origin", string(res.Origin)).
		Float64("quality", res.Quality).
		Msg("Index loaded")
	return res.Value
}

// IndexQuality is the fraction of rows carrying an organizer ID.
func IndexQuality(rows []models.ListingSummary) float64 {
	if len(rows) == 0 {
		return 0
	}
	withOrganizer := 0
	for i := range rows {
		if rows[i].OrganizerID != "" {
			withOrganizer++
		}
	}
	return float64(withOrganizer) / float64(len(rows))
}

// indexCacheHealthy rejects a cached index whose first row lacks an
// organizer ID; such entries were written before organizer backfill existed.
func indexCacheHealthy(rows []models.ListingSummary) bool {
	return len(rows) == 0 || rows[0].OrganizerID != ""
}

// decodeIndex flattens and maps the index response. Invalid rows are
// dropped; duplicate IDs keep their first occurrence.
func decodeIndex(ctx context.Context, raw any) ([]models.ListingSummary, error) {
	arr, err := source.ToArray(resourceIndex, raw, "events_index", "events")
	if err != nil {
		return nil, err
	}
	objects, skipped := source.Objects(arr)

	rows := make([]models.ListingSummary, 0, len(objects))
	seen := make(map[string]struct{}, len(objects))
	invalid, duplicates := 0, 0
	for _, obj := range objects {
		row, err := mapListing(obj)
		if err != nil {
			invalid++
			continue
		}
		if _, dup := seen[row.ID]; dup {
			duplicates++
			continue
		}
		seen[row.ID] = struct{}{}
		rows = append(rows, row)
	}

	if skipped+invalid+duplicates > 0 {
		logging.Ctx(ctx).Warn().
			Int("non_object", skipped).
			Int("invalid", invalid).
			Int("duplicate", duplicates).
			Int("kept", len(rows)).
			Msg("Dropped unusable index rows")
	}
	return rows, nil
}
