// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

// Package main is the entry point for the Gazetteer server.
//
// Gazetteer keeps a lint cache of BTC Map areas, continuously synced from
// the upstream API, and serves data quality reports plus validated area
// mutations over HTTP.
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered from defaults, config file and
//     GAZETTEER_* environment variables
//  2. Upstream client: JSON-RPC client for the BTC Map API with a circuit
//     breaker
//  3. Lint cache: linter, fixer and in-memory report store
//  4. Sync engine: cursor-based incremental sync from /v3/areas
//  5. HTTP server: Chi router with lint, area and health endpoints
//  6. Supervision: suture tree running the sync loop and HTTP server
//
// The server handles graceful shutdown on SIGINT and SIGTERM: the sync
// loop stops, in-flight requests drain and the process exits.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/btcmap/gazetteer/internal/api"
	"github.com/btcmap/gazetteer/internal/cache"
	"github.com/btcmap/gazetteer/internal/config"
	"github.com/btcmap/gazetteer/internal/lint"
	"github.com/btcmap/gazetteer/internal/logging"
	"github.com/btcmap/gazetteer/internal/rpc"
	"github.com/btcmap/gazetteer/internal/supervisor"
	"github.com/btcmap/gazetteer/internal/supervisor/services"
	areasync "github.com/btcmap/gazetteer/internal/sync"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	logging.Info().
		Str("addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)).
		Str("upstream", cfg.Upstream.BaseURL).
		Msg("Starting gazetteer")

	client := rpc.NewClient(cfg.Upstream)
	linter := lint.New(cfg.Lint, cfg.Upstream.StaticBaseURL)
	fixer := lint.NewFixer(client, linter, cfg.Lint.IconDownloadTimeout)
	lintCache := cache.New(linter)
	engine := areasync.NewEngine(client, lintCache, cfg.Sync)

	handler := api.NewHandler(lintCache, engine, fixer, client)
	router := api.NewRouter(handler, cfg.Security)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: cfg.Server.Timeout,
	}

	tree, err := supervisor.NewTree(logging.SlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("building supervisor tree: %w", err)
	}
	tree.AddSyncService(services.NewSyncService(engine, cfg.Sync.Interval, cfg.Sync.FullOnStartup))
	tree.AddAPIService(services.NewHTTPServerService(server, supervisor.DefaultTreeConfig().ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logging.Info().Msg("Shutdown complete")
	_ = os.Stdout.Sync()
	return nil
}
