// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/sotonavi/internal/logging"
	"github.com/tomtom215/sotonavi/internal/metrics"
)

// Cache keys and defaults shared with the browser front end.
const (
	KeyDataset = "sotonavi_eventData_v1"
	KeyIndex   = "sotonavi_eventIndex_v1"

	DefaultVersion = "v1_2025-12-18"
	DefaultTTL     = 2 * time.Minute
)

// envelope is the stored form of a cache entry.
type envelope struct {
	Timestamp int64           `json:"timestamp"`
	Version   string          `json:"version"`
	Data      json.RawMessage `json:"data"`
}

// Versioned is a version- and freshness-aware cache over a Store.
//
// Thread Safety: safe for concurrent use when the Store is. There is no
// transaction spanning a read and a later write; the worst race is a
// redundant refetch.
type Versioned struct {
	store   Store
	version string
	now     func() time.Time
}

// VersionedOption customizes a Versioned cache.
type VersionedOption func(*Versioned)

// WithClock replaces time.Now (used by tests to expire entries).
func WithClock(now func() time.Time) VersionedOption {
	return func(v *Versioned) {
		v.now = now
	}
}

// NewVersioned creates a versioned cache. An empty version uses DefaultVersion.
func NewVersioned(store Store, version string, opts ...VersionedOption) *Versioned {
	if version == "" {
		version = DefaultVersion
	}
	v := &Versioned{store: store, version: version, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Version returns the running version tag.
func (v *Versioned) Version() string {
	return v.version
}

// Read returns the payload stored under key when it is usable.
//
// The entry is rejected (ok=false) when it is absent, carries another
// version tag, is at least ttl old, fails to decode into T, or when healthy
// returns false. A nil healthy accepts any payload. Read never returns an
// error; storage failures are logged and count as a miss.
func Read[T any](ctx context.Context, v *Versioned, key string, ttl time.Duration, healthy func(T) bool) (T, bool) {
	var zero T

	raw, err := v.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.RecordCacheMiss(key, "absent")
		} else {
			metrics.RecordCacheMiss(key, "error")
			logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Cache read failed, treating as miss")
		}
		return zero, false
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		metrics.RecordCacheMiss(key, "error")
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Cache entry unreadable, treating as miss")
		return zero, false
	}

	if env.Version != v.version {
		metrics.RecordCacheMiss(key, "version")
		return zero, false
	}

	age := v.now().Sub(time.UnixMilli(env.Timestamp))
	if age >= ttl {
		metrics.RecordCacheMiss(key, "expired")
		return zero, false
	}

	var payload T
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		metrics.RecordCacheMiss(key, "error")
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Cache payload does not match expected shape")
		return zero, false
	}

	if healthy != nil && !healthy(payload) {
		metrics.RecordCacheMiss(key, "unhealthy")
		logging.Ctx(ctx).Debug().Str("key", key).Msg("Cached payload failed health check")
		return zero, false
	}

	metrics.RecordCacheHit(key)
	return payload, true
}

// Write stores payload under key with the running version and current time.
// Failures are logged and swallowed.
func (v *Versioned) Write(ctx context.Context, key string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Cache payload not serializable, skipping write")
		return
	}

	raw, err := json.Marshal(envelope{
		Timestamp: v.now().UnixMilli(),
		Version:   v.version,
		Data:      data,
	})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Cache envelope not serializable, skipping write")
		return
	}

	if err := v.store.Set(ctx, key, raw); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

// Delete removes key. Failures are logged and swallowed.
func (v *Versioned) Delete(ctx context.Context, key string) {
	if err := v.store.Delete(ctx, key); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Cache delete failed")
	}
}
