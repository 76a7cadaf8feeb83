// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package config

import (
	"fmt"
	"time"
)

// Source modes.
const (
	ModeStatic = "static"
	ModeLegacy = "legacy"
)

// Config holds the whole service configuration.
type Config struct {
	Sources  SourcesConfig  `koanf:"sources"`
	Cache    CacheConfig    `koanf:"cache"`
	Loader   LoaderConfig   `koanf:"loader"`
	Tracking TrackingConfig `koanf:"tracking"`
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// SourcesConfig configures the upstream data hosts.
type SourcesConfig struct {
	// Mode selects the backend: "static" reads {base}/events_index.json and
	// friends; "legacy" reads the full-dump RPC endpoint.
	Mode         string `koanf:"mode"`
	PrimaryBase  string `koanf:"primary_base"`
	MirrorBase   string `koanf:"mirror_base"`
	LegacyRPCURL string `koanf:"legacy_rpc_url"`

	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	UserAgent         string        `koanf:"user_agent"`
}

// CacheConfig configures the persistent versioned cache.
type CacheConfig struct {
	Path     string        `koanf:"path"`
	InMemory bool          `koanf:"in_memory"`
	Version  string        `koanf:"version"`
	TTL      time.Duration `koanf:"ttl"`
}

// LoaderConfig configures resolution and assembly.
type LoaderConfig struct {
	QualityThreshold float64 `koanf:"quality_threshold"`
	BackfillWidth    int     `koanf:"backfill_width"`

	// RefreshInterval reloads the dataset periodically. Zero disables it.
	RefreshInterval time.Duration `koanf:"refresh_interval"`
}

// TrackingConfig configures the click beacon.
type TrackingConfig struct {
	Enabled   bool          `koanf:"enabled"`
	URL       string        `koanf:"url"`
	Secret    string        `koanf:"secret"`
	Window    time.Duration `koanf:"window"`
	Timeout   time.Duration `koanf:"timeout"`
	QueueSize int           `koanf:"queue_size"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	Timeout           time.Duration `koanf:"timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig configures operator tokens for administrative endpoints.
type SecurityConfig struct {
	// JWTSecret signs operator tokens. Empty disables administrative
	// endpoints.
	JWTSecret string        `koanf:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl"`
}

// LoggingConfig configures zerolog.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
