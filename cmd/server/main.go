// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/sotonavi/internal/auth"
	"github.com/tomtom215/sotonavi/internal/config"
	"github.com/tomtom215/sotonavi/internal/logging"
	"github.com/tomtom215/sotonavi/internal/supervisor"
	"github.com/tomtom215/sotonavi/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	issueFor := flag.String("issue-token", "", "print an operator token for `subject` and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	if *issueFor != "" {
		token, err := issueToken(cfg.Security, *issueFor)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to issue operator token")
		}
		fmt.Println(token)
		return
	}

	logging.Info().
		Str("version", version).
		Str("mode", cfg.Sources.Mode).
		Str("primary", cfg.Sources.PrimaryBase).
		Str("cache_path", cfg.Cache.Path).
		Str("cache_version", cfg.Cache.Version).
		Bool("tracking", cfg.Tracking.Enabled).
		Msg("Starting Sotonavi")

	a, err := wire(cfg, version)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize")
	}
	defer func() {
		if err := a.closer(); err != nil {
			logging.Error().Err(err).Msg("Error closing cache store")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// sutureslog needs slog; the adapter forwards to zerolog
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create supervisor tree")
		return
	}

	if cfg.Loader.RefreshInterval > 0 {
		tree.AddDataService(services.NewDatasetRefresher(a.assembler, cfg.Loader.RefreshInterval))
	} else {
		logging.Info().Msg("Periodic dataset refresh disabled")
	}
	tree.AddTrackingService(a.tracker)
	tree.AddAPIService(services.NewHTTPServerService(a.server, supervisor.DefaultTreeConfig().ShutdownTimeout))
	logging.Info().Str("addr", a.server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	if err := <-tree.ServeBackground(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Sotonavi stopped")
}

// issueToken signs an operator token with the configured secret.
func issueToken(cfg config.SecurityConfig, subject string) (string, error) {
	tokens, err := operatorTokens(cfg)
	if err != nil {
		return "", err
	}
	if tokens == nil {
		return "", errors.New("JWT_SECRET is not set")
	}
	return tokens.GenerateToken(subject, auth.RoleOperator)
}
