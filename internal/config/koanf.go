// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config files searched, first match wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/sotonavi/config.yaml",
	"/etc/sotonavi/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults.
func defaultConfig() *Config {
	return &Config{
		Sources: SourcesConfig{
			Mode:              ModeStatic,
			PrimaryBase:       "https://sotonavi.jp/data",
			MirrorBase:        "https://raw.githubusercontent.com/sotonavi/sotonavi-data/main/data",
			LegacyRPCURL:      "",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 20,
			Burst:             10,
			UserAgent:         "sotonavi/1.0",
		},
		Cache: CacheConfig{
			Path:     "/data/cache",
			InMemory: false,
			Version:  "v1_2025-12-18",
			TTL:      2 * time.Minute,
		},
		Loader: LoaderConfig{
			QualityThreshold: 0.9,
			BackfillWidth:    5,
			RefreshInterval:  2 * time.Minute,
		},
		Tracking: TrackingConfig{
			Enabled:   false,
			URL:       "",
			Secret:    "",
			Window:    10 * time.Minute,
			Timeout:   5 * time.Second,
			QueueSize: 256,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         30 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   120,
			RateLimitWindow: time.Minute,
		},
		Security: SecurityConfig{
			JWTSecret: "",
			TokenTTL:  24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load reads defaults, then the optional YAML file, then the environment,
// and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns $CONFIG_PATH when it exists, else the first
// existing default path, else "".
func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sliceConfigPaths are split on commas when they arrive as strings.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated env values into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := strings.Split(s, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to config paths.
var envMappings = map[string]string{
	// Sources
	"sotonavi_source_mode":    "sources.mode",
	"sotonavi_primary_base":   "sources.primary_base",
	"sotonavi_mirror_base":    "sources.mirror_base",
	"sotonavi_legacy_rpc_url": "sources.legacy_rpc_url",
	"sotonavi_fetch_timeout":  "sources.timeout",
	"sotonavi_fetch_rps":      "sources.requests_per_second",
	"sotonavi_fetch_burst":    "sources.burst",
	"sotonavi_user_agent":     "sources.user_agent",

	// Cache
	"sotonavi_cache_path":      "cache.path",
	"sotonavi_cache_in_memory": "cache.in_memory",
	"sotonavi_cache_version":   "cache.version",
	"sotonavi_cache_ttl":       "cache.ttl",

	// Loader
	"sotonavi_quality_threshold": "loader.quality_threshold",
	"sotonavi_backfill_width":    "loader.backfill_width",
	"sotonavi_refresh_interval":  "loader.refresh_interval",

	// Tracking
	"sotonavi_click_enabled":    "tracking.enabled",
	"sotonavi_click_url":        "tracking.url",
	"sotonavi_click_secret":     "tracking.secret",
	"sotonavi_click_window":     "tracking.window",
	"sotonavi_click_timeout":    "tracking.timeout",
	"sotonavi_click_queue_size": "tracking.queue_size",

	// Server
	"http_host":           "server.host",
	"http_port":           "server.port",
	"http_timeout":        "server.timeout",
	"cors_origins":        "server.cors_origins",
	"rate_limit_requests": "server.rate_limit_reqs",
	"rate_limit_window":   "server.rate_limit_window",
	"disable_rate_limit":  "server.rate_limit_disabled",

	// Security
	"jwt_secret":    "security.jwt_secret",
	"jwt_token_ttl": "security.token_ttl",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable to its config path. Unknown
// variables map to "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
