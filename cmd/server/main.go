// Basinview - River Basin Monitoring and Forecast Visualization
// Copyright 2026 Basinview Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aquamind/basinview

// Package main is the entry point for the Basinview server.
//
// Basinview is the dashboard backend for the AQUAMIND hydrological
// prediction platform covering the Senegal river basin. It polls the
// platform's REST API, maintains per-page view models (dashboard, maps,
// forecasts, alerts, optimization, agriculture, analytics), and serves
// them over HTTP and WebSocket to the web frontend.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered sources (defaults, YAML, env)
//  2. Upstream client: circuit-breaker protected prediction API client
//  3. Page views: one aggregator per dashboard page
//  4. WebSocket hub: live view-model updates to connected clients
//  5. Supervisor tree: pollers, hub, and HTTP server under suture
//
// # Polling cadences
//
// System status refreshes every 5 minutes, the dashboard overview and
// alerts every 30 seconds. The remaining pages load once at startup and
// re-fetch when a user parameter (location, farmer, layer) changes.
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: pollers stop, in-flight
// requests drain within the shutdown timeout, and WebSocket clients are
// closed cleanly.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aquamind/basinview/internal/api"
	"github.com/aquamind/basinview/internal/config"
	"github.com/aquamind/basinview/internal/logging"
	"github.com/aquamind/basinview/internal/scenario"
	"github.com/aquamind/basinview/internal/supervisor"
	"github.com/aquamind/basinview/internal/supervisor/services"
	"github.com/aquamind/basinview/internal/upstream"
	"github.com/aquamind/basinview/internal/view"
	ws "github.com/aquamind/basinview/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	logging.Info().
		Str("upstream", cfg.Upstream.BaseURL).
		Str("addr", cfg.Server.Addr()).
		Dur("status_interval", cfg.Poll.StatusInterval).
		Dur("overview_interval", cfg.Poll.OverviewInterval).
		Msg("Starting Basinview")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := upstream.NewClient(cfg.Upstream)
	pages := view.NewPages(client, cfg.Forecast.DefaultLocation, cfg.Agriculture.DefaultFarmer)
	defer pages.Close()
	simulator := scenario.NewSimulator(client)

	hub := ws.NewHub()

	// Live updates: the pages that refresh in the background push their
	// snapshots to connected clients.
	pages.Shell.OnUpdate(hub.BroadcastViewUpdate)
	pages.Dashboard.OnUpdate(hub.BroadcastViewUpdate)
	pages.Alerts.OnUpdate(hub.BroadcastViewUpdate)

	handler := api.NewHandler(pages, simulator, hub)
	router := api.NewRouter(cfg.Server, handler)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddViewService(services.NewViewService(pages, cfg.Poll))
	tree.AddMessagingService(services.NewHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Basinview stopped gracefully")
}
