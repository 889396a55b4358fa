// Basinview - River Basin Monitoring and Forecast Visualization
// Copyright 2026 Basinview Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aquamind/basinview

// Package api serves the per-page view models over HTTP and WebSocket.
// Handlers never call the prediction platform directly: GETs read the
// aggregators' current snapshots, and parameter changes go through the
// views' refetch controllers.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	gorillaws "github.com/gorilla/websocket"

	"github.com/aquamind/basinview/internal/alerting"
	"github.com/aquamind/basinview/internal/geo"
	"github.com/aquamind/basinview/internal/logging"
	"github.com/aquamind/basinview/internal/models"
	"github.com/aquamind/basinview/internal/scenario"
	"github.com/aquamind/basinview/internal/upstream"
	"github.com/aquamind/basinview/internal/view"
	"github.com/aquamind/basinview/internal/websocket"
)

// Handler holds the dependencies for all HTTP handlers.
type Handler struct {
	pages     *view.Pages
	simulator *scenario.Simulator
	hub       *websocket.Hub
	validate  *validator.Validate
	upgrader  gorillaws.Upgrader
}

// NewHandler builds a Handler over the page views, simulator, and hub.
func NewHandler(pages *view.Pages, simulator *scenario.Simulator, hub *websocket.Hub) *Handler {
	return &Handler{
		pages:     pages,
		simulator: simulator,
		hub:       hub,
		validate:  validator.New(),
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Cross-origin policy is enforced by the CORS middleware.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// ShellView returns the system status banner view model.
func (h *Handler) ShellView(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, h.pages.Shell.Snapshot())
}

// DashboardView returns the dashboard view model.
func (h *Handler) DashboardView(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, h.pages.Dashboard.Snapshot())
}

// MapsView returns the composed map content for the active layer.
func (h *Handler) MapsView(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, h.pages.Maps.Snapshot())
}

// SetMapLayer switches the active map layer.
func (h *Handler) SetMapLayer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Layer string `json:"layer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_BODY", "request body must be JSON", err)
		return
	}
	layer, ok := geo.ParseLayer(req.Layer)
	if !ok {
		respondError(w, r, http.StatusBadRequest, "INVALID_LAYER", "layer must be one of all, dams, stations, basins", nil)
		return
	}
	// The refetch runs after this handler returns; detach it from the
	// request's cancellation while keeping its values for logging.
	h.pages.Maps.SetLayer(context.WithoutCancel(r.Context()), layer)
	respondJSON(w, r, http.StatusOK, map[string]string{"layer": string(layer)})
}

// ForecastsView returns the forecast view model for the current location.
func (h *Handler) ForecastsView(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, h.pages.Forecasts.Snapshot())
}

// SetForecastLocation switches the forecast location.
func (h *Handler) SetForecastLocation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LocationID string `json:"location_id" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_BODY", "request body must be JSON", err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "location_id is required", err)
		return
	}
	h.pages.Forecasts.SetLocation(context.WithoutCancel(r.Context()), req.LocationID)
	respondJSON(w, r, http.StatusOK, map[string]string{"location_id": req.LocationID})
}

// AlertsView returns the alert list filtered by the type query parameter.
func (h *Handler) AlertsView(w http.ResponseWriter, r *http.Request) {
	filter, ok := alerting.ParseFilter(r.URL.Query().Get("type"))
	if !ok {
		respondError(w, r, http.StatusBadRequest, "INVALID_FILTER", "type must be one of all, flood, drought, salinity", nil)
		return
	}
	respondJSON(w, r, http.StatusOK, h.pages.Alerts.Snapshot(filter))
}

// OptimizationView returns the recommended dam operating point.
func (h *Handler) OptimizationView(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, h.pages.Optimization.Snapshot())
}

// SubmitScenario runs a what-if discharge plan through the platform.
func (h *Handler) SubmitScenario(w http.ResponseWriter, r *http.Request) {
	var input models.ScenarioInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_BODY", "request body must be JSON", err)
		return
	}

	result, err := h.simulator.Submit(r.Context(), input)
	if err != nil {
		if errors.Is(err, scenario.ErrSubmissionInFlight) {
			respondError(w, r, http.StatusConflict, "SCENARIO_IN_FLIGHT", "a scenario analysis is already running", nil)
			return
		}
		switch upstream.KindOf(err) {
		case upstream.KindApplication:
			respondError(w, r, http.StatusBadGateway, "UPSTREAM_REJECTED", "the prediction platform rejected the scenario", err)
		case upstream.KindDecode:
			respondError(w, r, http.StatusBadGateway, "UPSTREAM_MALFORMED", "the prediction platform returned a malformed result", err)
		default:
			respondError(w, r, http.StatusBadGateway, "UPSTREAM_UNREACHABLE", "the prediction platform is unreachable", err)
		}
		return
	}
	respondJSON(w, r, http.StatusOK, result)
}

// AgricultureView returns the recommendations for the current farmer.
func (h *Handler) AgricultureView(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, h.pages.Agriculture.Snapshot())
}

// SetFarmer switches the agriculture view to another farmer.
func (h *Handler) SetFarmer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FarmerID string `json:"farmer_id" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_BODY", "request body must be JSON", err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "farmer_id is required", err)
		return
	}
	h.pages.Agriculture.SetFarmer(context.WithoutCancel(r.Context()), req.FarmerID)
	respondJSON(w, r, http.StatusOK, map[string]string{"farmer_id": req.FarmerID})
}

// AnalyticsView returns the analytics view model.
func (h *Handler) AnalyticsView(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, h.pages.Analytics.Snapshot())
}

// WebSocket upgrades the connection and registers the client for live
// view updates.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	client := websocket.NewClient(h.hub, conn)
	h.hub.Register <- client
	client.Start()
}
