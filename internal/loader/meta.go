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
	n "github.com/tomtom215/sotonavi/internal/normalize"
	"github.com/tomtom215/sotonavi/internal/source"
)

const resourceMeta = "meta"

// KeyMeta is the versioned cache key of the metadata.
const KeyMeta = "sotonavi_eventMeta_v1"

// MetaLoader loads the organizer, category and area directories.
type MetaLoader struct {
	resolver  *source.Resolver
	endpoints source.Endpoints
	cache     *cache.Versioned
	ttl       time.Duration
	memo      *Memo[models.Meta]
}

// NewMetaLoader creates a metadata loader. A nil cache disables caching.
func NewMetaLoader(resolver *source.Resolver, endpoints source.Endpoints, vc *cache.Versioned, ttl time.Duration) *MetaLoader {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &MetaLoader{
		resolver:  resolver,
		endpoints: endpoints,
		cache:     vc,
		ttl:       ttl,
		memo:      NewMemo(resourceMeta, metaHealthy),
	}
}

// LoadMeta returns the metadata with non-nil collections.
//
// The returned value is shared between callers and must not be modified.
func (l *MetaLoader) LoadMeta(ctx context.Context) models.Meta {
	return withCollections(l.memo.Get(ctx, l.load))
}

// withCollections replaces nil collections with empty ones.
func withCollections(m models.Meta) models.Meta {
	if m.Organizers == nil {
		m.Organizers = []models.Organizer{}
	}
	if m.Categories == nil {
		m.Categories = []models.Category{}
	}
	if m.Areas == nil {
		m.Areas = []string{}
	}
	return m
}

// RefreshMeta fetches the metadata from upstream, skipping the cache, and
// swaps it in when it lists organizers. During an outage the previous
// metadata stays.
func (l *MetaLoader) RefreshMeta(ctx context.Context) models.Meta {
	return withCollections(l.memo.Refresh(ctx, l.fetch))
}

// Reset drops the memoized metadata.
func (l *MetaLoader) Reset() {
	l.memo.Reset()
}

func (l *MetaLoader) load(ctx context.Context) models.Meta {
	if l.cache != nil {
		if m, ok := cache.Read(ctx, l.cache, KeyMeta, l.ttl, metaHealthy); ok {
			return m
		}
	}
	return l.fetch(ctx)
}

// fetch resolves the metadata upstream and writes healthy results through
// to the cache.
func (l *MetaLoader) fetch(ctx context.Context) models.Meta {
	log := logging.Ctx(ctx)

	primary, fallback := l.endpoints.MetaURLs()
	res := source.Resolve(ctx, l.resolver, source.Resource[models.Meta]{
		Name:     resourceMeta,
		Primary:  primary,
		Fallback: fallback,
		Decode: func(raw any) (models.Meta, error) {
			return decodeMeta(ctx, raw)
		},
		Quality: MetaQuality,
		Size:    func(m models.Meta) int { return len(m.Organizers) },
	})

	if !metaHealthy(res.Value) {
		log.Warn().Msg("Metadata has no organizers from any source, serving empty metadata")
		return models.EmptyMeta()
	}

	if l.cache != nil {
		l.cache.Write(ctx, KeyMeta, res.Value)
	}
	log.Info().
		Int("organizers", len(res.Value.Organizers)).
		Int("categories", len(res.Value.Categories)).
		Int("areas", len(res.Value.Areas)).
		Str("origin", string(res.Origin)).
		Msg("Metadata loaded")
	return res.Value
}

// MetaQuality is 1 when the directory lists any organizer and 0 otherwise.
// Every deployment has at least one organizer, so zero means broken data.
func MetaQuality(m models.Meta) float64 {
	if len(m.Organizers) > 0 {
		return 1
	}
	return 0
}

func metaHealthy(m models.Meta) bool {
	return len(m.Organizers) > 0
}

// decodeMeta maps the metadata object. Invalid entries are dropped.
func decodeMeta(ctx context.Context, raw any) (models.Meta, error) {
	obj, err := source.ToObject(resourceMeta, raw)
	if err != nil {
		return models.Meta{}, err
	}

	m := models.EmptyMeta()
	dropped := 0

	if list, ok := obj["organizers"].([]any); ok {
		rows, skipped := source.Objects(list)
		dropped += skipped
		seen := make(map[string]struct{}, len(rows))
		for _, r := range rows {
			o, err := mapOrganizer(r)
			if err != nil {
				dropped++
				continue
			}
			if _, dup := seen[o.ID]; dup {
				continue
			}
			seen[o.ID] = struct{}{}
			m.Organizers = append(m.Organizers, o)
		}
	}

	if list, ok := obj["categories"].([]any); ok {
		rows, skipped := source.Objects(list)
		dropped += skipped
		for _, r := range rows {
			c, err := mapCategory(r)
			if err != nil {
				dropped++
				continue
			}
			m.Categories = append(m.Categories, c)
		}
	}

	if list, ok := obj["areas"].([]any); ok {
		for _, item := range list {
			switch v := item.(type) {
			case map[string]any:
				if name := n.Text(v, n.FieldName); name != "" {
					m.Areas = append(m.Areas, name)
				}
			default:
				if name, ok := n.Normalize(v); ok {
					m.Areas = append(m.Areas, name)
				}
			}
		}
	}

	if dropped > 0 {
		logging.Ctx(ctx).Warn().Int("dropped", dropped).Msg("Dropped unusable metadata entries")
	}
	return m, nil
}
