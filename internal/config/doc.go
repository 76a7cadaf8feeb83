// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

/*
Package config loads the service configuration with Koanf v2.

# Loading Order

Later layers override earlier ones:

 1. Defaults from defaultConfig
 2. An optional YAML file: $CONFIG_PATH, else the first of DefaultConfigPaths
 3. Environment variables listed in the env mapping table

Environment variables outside the table are ignored.

# Environment Variables

Sources:
  - SOTONAVI_PRIMARY_BASE: static data host base URL
  - SOTONAVI_MIRROR_BASE: mirror base URL used as fallback
  - SOTONAVI_LEGACY_RPC_URL: legacy full-dump RPC endpoint
  - SOTONAVI_SOURCE_MODE: "static" (default) or "legacy"
  - SOTONAVI_FETCH_TIMEOUT, SOTONAVI_FETCH_RPS, SOTONAVI_FETCH_BURST

Cache:
  - SOTONAVI_CACHE_PATH: badger directory
  - SOTONAVI_CACHE_IN_MEMORY: keep the cache in memory only
  - SOTONAVI_CACHE_VERSION: version tag; bump to drop every cached entry
  - SOTONAVI_CACHE_TTL: freshness window (default 2m)

Loader:
  - SOTONAVI_QUALITY_THRESHOLD: fallback threshold in (0, 1] (default 0.9)
  - SOTONAVI_BACKFILL_WIDTH: concurrent detail fetches (default 5)
  - SOTONAVI_REFRESH_INTERVAL: dataset refresh period, 0 disables

Tracking:
  - SOTONAVI_CLICK_ENABLED, SOTONAVI_CLICK_URL, SOTONAVI_CLICK_SECRET
  - SOTONAVI_CLICK_WINDOW: repeat-click suppression (default 10m)

Server:
  - HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT
  - CORS_ORIGINS: comma-separated
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Example

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println(cfg.Sources.PrimaryBase)

Config is immutable after Load and safe for concurrent reads.
*/
package config
