// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	if err := c.validateSources(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateLoader(); err != nil {
		return err
	}
	if err := c.validateTracking(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSources() error {
	s := &c.Sources
	switch s.Mode {
	case ModeStatic:
		if s.PrimaryBase == "" {
			return errors.New("SOTONAVI_PRIMARY_BASE is required in static mode")
		}
		if err := validateHTTPURL(s.PrimaryBase, "SOTONAVI_PRIMARY_BASE"); err != nil {
			return err
		}
	case ModeLegacy:
		if s.LegacyRPCURL == "" {
			return errors.New("SOTONAVI_LEGACY_RPC_URL is required in legacy mode")
		}
		if err := validateHTTPURL(s.LegacyRPCURL, "SOTONAVI_LEGACY_RPC_URL"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("SOTONAVI_SOURCE_MODE must be %q or %q, got %q", ModeStatic, ModeLegacy, s.Mode)
	}

	if s.MirrorBase != "" {
		if err := validateHTTPURL(s.MirrorBase, "SOTONAVI_MIRROR_BASE"); err != nil {
			return err
		}
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("SOTONAVI_FETCH_TIMEOUT must be positive, got %v", s.Timeout)
	}
	if s.RequestsPerSecond <= 0 {
		return fmt.Errorf("SOTONAVI_FETCH_RPS must be positive, got %v", s.RequestsPerSecond)
	}
	if s.Burst < 1 {
		return fmt.Errorf("SOTONAVI_FETCH_BURST must be at least 1, got %d", s.Burst)
	}
	return nil
}

func (c *Config) validateCache() error {
	if !c.Cache.InMemory && c.Cache.Path == "" {
		return errors.New("SOTONAVI_CACHE_PATH is required unless SOTONAVI_CACHE_IN_MEMORY=true")
	}
	if strings.TrimSpace(c.Cache.Version) == "" {
		return errors.New("SOTONAVI_CACHE_VERSION must not be empty")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("SOTONAVI_CACHE_TTL must be positive, got %v", c.Cache.TTL)
	}
	return nil
}

func (c *Config) validateLoader() error {
	if q := c.Loader.QualityThreshold; q <= 0 || q > 1 {
		return fmt.Errorf("SOTONAVI_QUALITY_THRESHOLD must be in (0, 1], got %v", q)
	}
	if c.Loader.BackfillWidth < 1 {
		return fmt.Errorf("SOTONAVI_BACKFILL_WIDTH must be at least 1, got %d", c.Loader.BackfillWidth)
	}
	if c.Loader.RefreshInterval < 0 {
		return fmt.Errorf("SOTONAVI_REFRESH_INTERVAL must not be negative, got %v", c.Loader.RefreshInterval)
	}
	return nil
}

func (c *Config) validateTracking() error {
	t := &c.Tracking
	if !t.Enabled {
		return nil
	}
	if t.URL == "" {
		return errors.New("SOTONAVI_CLICK_URL is required when SOTONAVI_CLICK_ENABLED=true")
	}
	if err := validateEndpointURL(t.URL, "SOTONAVI_CLICK_URL"); err != nil {
		return err
	}
	if t.Secret == "" {
		return errors.New("SOTONAVI_CLICK_SECRET is required when SOTONAVI_CLICK_ENABLED=true")
	}
	if t.Window <= 0 {
		return fmt.Errorf("SOTONAVI_CLICK_WINDOW must be positive, got %v", t.Window)
	}
	return nil
}

func (c *Config) validateServer() error {
	s := &c.Server
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", s.Port)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", s.Timeout)
	}
	if !s.RateLimitDisabled {
		if s.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", s.RateLimitReqs)
		}
		if s.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", s.RateLimitWindow)
		}
	}
	return nil
}

// MinJWTSecretLength matches the signing requirement of internal/auth.
const MinJWTSecretLength = 32

func (c *Config) validateSecurity() error {
	s := &c.Security
	if s.JWTSecret != "" && len(s.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters, got %d", MinJWTSecretLength, len(s.JWTSecret))
	}
	if s.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TOKEN_TTL must be positive, got %v", s.TokenTTL)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// validateHTTPURL checks a base URL: http or https with a host and no query.
// A path is allowed since data hosts serve from a sub-directory.
func validateHTTPURL(rawURL, fieldName string) error {
	u, err := validateEndpointURLParsed(rawURL, fieldName)
	if err != nil {
		return err
	}
	if u.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, u.RawQuery)
	}
	return nil
}

// validateEndpointURL checks an endpoint URL, where a query is allowed.
func validateEndpointURL(rawURL, fieldName string) error {
	_, err := validateEndpointURLParsed(rawURL, fieldName)
	return err
}

func validateEndpointURLParsed(rawURL, fieldName string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%s host is required", fieldName)
	}
	return u, nil
}
