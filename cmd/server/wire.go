// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/sotonavi/internal/api"
	"github.com/tomtom215/sotonavi/internal/auth"
	"github.com/tomtom215/sotonavi/internal/cache"
	"github.com/tomtom215/sotonavi/internal/config"
	"github.com/tomtom215/sotonavi/internal/dataset"
	"github.com/tomtom215/sotonavi/internal/fetch"
	"github.com/tomtom215/sotonavi/internal/loader"
	"github.com/tomtom215/sotonavi/internal/logging"
	"github.com/tomtom215/sotonavi/internal/source"
	"github.com/tomtom215/sotonavi/internal/tracking"
)

// app holds the wired components.
type app struct {
	store     cache.Store
	closer    func() error
	assembler *dataset.Assembler
	tracker   *tracking.Tracker
	server    *http.Server
}

// endpointsFor selects the upstream URL layout for the configured mode.
func endpointsFor(cfg config.SourcesConfig) (source.Endpoints, error) {
	switch cfg.Mode {
	case config.ModeStatic, "":
		return source.StaticEndpoints{PrimaryBase: cfg.PrimaryBase, MirrorBase: cfg.MirrorBase}, nil
	case config.ModeLegacy:
		return source.LegacyEndpoints{RPCURL: cfg.LegacyRPCURL, MirrorBase: cfg.MirrorBase}, nil
	default:
		return nil, fmt.Errorf("unknown sources mode %q", cfg.Mode)
	}
}

// openStore opens the Badger-backed cache store. The returned closer
// releases the database.
func openStore(cfg config.CacheConfig) (cache.Store, func() error, error) {
	db, err := cache.OpenBadger(cfg.Path, cfg.InMemory)
	if err != nil {
		return nil, nil, fmt.Errorf("open cache: %w", err)
	}
	return cache.NewBadgerStore(db), db.Close, nil
}

// fetchConfig maps source settings onto the fetch client.
func fetchConfig(cfg config.SourcesConfig) fetch.Config {
	fc := fetch.DefaultConfig()
	if cfg.Timeout > 0 {
		fc.Timeout = cfg.Timeout
	}
	fc.RequestsPerSecond = cfg.RequestsPerSecond
	if cfg.Burst > 0 {
		fc.Burst = cfg.Burst
	}
	if cfg.UserAgent != "" {
		fc.UserAgent = cfg.UserAgent
	}
	return fc
}

// trackingConfig maps tracking settings onto the tracker.
func trackingConfig(cfg config.TrackingConfig) tracking.Config {
	tc := tracking.DefaultConfig()
	tc.Enabled = cfg.Enabled
	tc.URL = cfg.URL
	tc.Secret = cfg.Secret
	if cfg.Window > 0 {
		tc.Window = cfg.Window
	}
	if cfg.Timeout > 0 {
		tc.Timeout = cfg.Timeout
	}
	if cfg.QueueSize > 0 {
		tc.QueueSize = cfg.QueueSize
	}
	return tc
}

// operatorTokens builds the token manager guarding administrative routes.
// It returns nil when no secret is configured.
func operatorTokens(cfg config.SecurityConfig) (*auth.JWTManager, error) {
	if cfg.JWTSecret == "" {
		return nil, nil
	}
	jm, err := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("operator tokens: %w", err)
	}
	return jm, nil
}

// wire builds every component from cfg.
func wire(cfg *config.Config, version string) (*app, error) {
	endpoints, err := endpointsFor(cfg.Sources)
	if err != nil {
		return nil, err
	}

	tokens, err := operatorTokens(cfg.Security)
	if err != nil {
		return nil, err
	}

	store, closer, err := openStore(cfg.Cache)
	if err != nil {
		return nil, err
	}
	vc := cache.NewVersioned(store, cfg.Cache.Version)

	client := fetch.NewClient(fetchConfig(cfg.Sources))
	resolver := source.NewResolver(client, cfg.Loader.QualityThreshold)

	index := loader.NewIndexLoader(resolver, endpoints, vc, cfg.Cache.TTL)
	meta := loader.NewMetaLoader(resolver, endpoints, vc, cfg.Cache.TTL)
	details := loader.NewDetailLoader(client, endpoints)

	assembler := dataset.NewAssembler(index, meta, details, vc, dataset.Config{
		BackfillWidth: cfg.Loader.BackfillWidth,
		TTL:           cfg.Cache.TTL,
	})

	tracker := tracking.New(trackingConfig(cfg.Tracking))

	handler := api.NewHandler(assembler, details, tracker, version)
	mw := api.NewChiMiddlewareFromServer(
		cfg.Server.CORSOrigins,
		cfg.Server.RateLimitReqs,
		cfg.Server.RateLimitWindow,
		cfg.Server.RateLimitDisabled,
	)

	if tokens != nil {
		mw.WithOperatorTokens(tokens)
	} else {
		logging.Warn().Msg("JWT_SECRET not set, dataset refresh endpoint disabled")
	}
	router := api.NewRouter(handler, mw)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// Writes include cold dataset assembly
		WriteTimeout: cfg.Server.Timeout + 2*cfg.Sources.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	return &app{
		store:     store,
		closer:    closer,
		assembler: assembler,
		tracker:   tracker,
		server:    server,
	}, nil
}
