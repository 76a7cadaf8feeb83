// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/sotonavi/internal/auth"
	"github.com/tomtom215/sotonavi/internal/config"
	"github.com/tomtom215/sotonavi/internal/source"
)

func TestEndpointsFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		cfg       config.SourcesConfig
		wantIndex string
		wantErr   bool
	}{
		{
			name:      "static",
			cfg:       config.SourcesConfig{Mode: config.ModeStatic, PrimaryBase: "https://a.example/data", MirrorBase: "https://b.example"},
			wantIndex: "https://a.example/data/events_index.json",
		},
		{
			name:      "empty mode is static",
			cfg:       config.SourcesConfig{PrimaryBase: "https://a.example/data/"},
			wantIndex: "https://a.example/data/events_index.json",
		},
		{
			name:      "legacy",
			cfg:       config.SourcesConfig{Mode: config.ModeLegacy, LegacyRPCURL: "https://rpc.example/exec"},
			wantIndex: "https://rpc.example/exec?type=index",
		},
		{name: "unknown", cfg: config.SourcesConfig{Mode: "ftp"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ep, err := endpointsFor(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if primary, _ := ep.IndexURLs(); primary != tt.wantIndex {
				t.Errorf("index url = %q, want %q", primary, tt.wantIndex)
			}
		})
	}

	if _, ok := mustEndpoints(t, config.SourcesConfig{Mode: config.ModeLegacy}).(source.LegacyEndpoints); !ok {
		t.Error("legacy mode should yield LegacyEndpoints")
	}
}

func mustEndpoints(t *testing.T, cfg config.SourcesConfig) source.Endpoints {
	t.Helper()
	ep, err := endpointsFor(cfg)
	if err != nil {
		t.Fatalf("endpointsFor: %v", err)
	}
	return ep
}

func TestFetchAndTrackingConfig(t *testing.T) {
	t.Parallel()

	fc := fetchConfig(config.SourcesConfig{Timeout: 3 * time.Second, RequestsPerSecond: 7, UserAgent: "test/1"})
	if fc.Timeout != 3*time.Second || fc.RequestsPerSecond != 7 || fc.UserAgent != "test/1" || fc.Burst <= 0 {
		t.Errorf("fetch config = %+v", fc)
	}

	tc := trackingConfig(config.TrackingConfig{Enabled: true, URL: "https://sink.example", QueueSize: 3})
	if !tc.Enabled || tc.URL != "https://sink.example" || tc.QueueSize != 3 || tc.Window != 10*time.Minute {
		t.Errorf("tracking config = %+v", tc)
	}
}

func TestIssueToken(t *testing.T) {
	t.Parallel()

	secret := strings.Repeat("k", auth.MinSecretLength)
	tests := []struct {
		name    string
		cfg     config.SecurityConfig
		wantErr bool
	}{
		{"configured", config.SecurityConfig{JWTSecret: secret, TokenTTL: time.Hour}, false},
		{"no secret", config.SecurityConfig{TokenTTL: time.Hour}, true},
		{"short secret", config.SecurityConfig{JWTSecret: "short", TokenTTL: time.Hour}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			token, err := issueToken(tt.cfg, "deploy-bot")
			if tt.wantErr {
				if err == nil {
					t.Fatal("issueToken() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("issueToken() error = %v", err)
			}
			jm, _ := auth.NewJWTManager(secret, time.Hour)
			claims, err := jm.ValidateToken(token)
			if err != nil {
				t.Fatalf("ValidateToken() error = %v", err)
			}
			if claims.Role != auth.RoleOperator || claims.Subject != "deploy-bot" {
				t.Errorf("claims = %+v", claims)
			}
		})
	}
}

func TestWire_RefreshRequiresOperator(t *testing.T) {
	t.Parallel()

	secret := strings.Repeat("k", auth.MinSecretLength)
	cfg := &config.Config{
		Sources:  config.SourcesConfig{Mode: config.ModeStatic, PrimaryBase: "http://127.0.0.1:1/data", Timeout: time.Second},
		Cache:    config.CacheConfig{InMemory: true, Version: "test", TTL: time.Minute},
		Loader:   config.LoaderConfig{QualityThreshold: 0.9, BackfillWidth: 5},
		Server:   config.ServerConfig{Host: "127.0.0.1", Port: 0, Timeout: time.Second, RateLimitDisabled: true},
		Security: config.SecurityConfig{JWTSecret: secret, TokenTTL: time.Hour},
	}

	a, err := wire(cfg, "test")
	if err != nil {
		t.Fatalf("wire: %v", err)
	}
	t.Cleanup(func() { _ = a.closer() })

	rec := httptest.NewRecorder()
	a.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/dataset/refresh", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("refresh without token = %d, want 401", rec.Code)
	}
}

func TestWire_ServesHealth(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Sources: config.SourcesConfig{Mode: config.ModeStatic, PrimaryBase: "http://127.0.0.1:1/data", Timeout: time.Second},
		Cache:   config.CacheConfig{InMemory: true, Version: "test", TTL: time.Minute},
		Loader:  config.LoaderConfig{QualityThreshold: 0.9, BackfillWidth: 5},
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: 0, Timeout: time.Second, RateLimitDisabled: true},
	}

	a, err := wire(cfg, "test")
	if err != nil {
		t.Fatalf("wire: %v", err)
	}
	t.Cleanup(func() { _ = a.closer() })

	rec := httptest.NewRecorder()
	a.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("live status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	a.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready status before any load = %d, want 503", rec.Code)
	}
}
