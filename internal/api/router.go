// Basinview - River Basin Monitoring and Forecast Visualization
// Copyright 2026 Basinview Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aquamind/basinview

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aquamind/basinview/internal/config"
)

// NewRouter wires all routes behind the global middleware stack.
func NewRouter(cfg config.ServerConfig, handler *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(AccessLog)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/api/v1/health", handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/views", func(r chi.Router) {
		r.Get("/shell", handler.ShellView)
		r.Get("/dashboard", handler.DashboardView)

		r.Get("/maps", handler.MapsView)
		r.Post("/maps/layer", handler.SetMapLayer)

		r.Get("/forecasts", handler.ForecastsView)
		r.Post("/forecasts/location", handler.SetForecastLocation)

		r.Get("/alerts", handler.AlertsView)
		r.Get("/optimization", handler.OptimizationView)

		r.Get("/agriculture", handler.AgricultureView)
		r.Post("/agriculture/farmer", handler.SetFarmer)

		r.Get("/analytics", handler.AnalyticsView)
	})

	r.Post("/api/v1/scenario", handler.SubmitScenario)
	r.Get("/api/v1/ws", handler.WebSocket)

	return r
}
