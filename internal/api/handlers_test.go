// Basinview - River Basin Monitoring and Forecast Visualization
// Copyright 2026 Basinview Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aquamind/basinview

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquamind/basinview/internal/config"
	"github.com/aquamind/basinview/internal/models"
	"github.com/aquamind/basinview/internal/scenario"
	"github.com/aquamind/basinview/internal/view"
	"github.com/aquamind/basinview/internal/websocket"
)

// fixedSource returns canned payloads for every endpoint.
type fixedSource struct {
	scenarioErr error
}

func (fixedSource) SystemStatus(context.Context) (*models.SystemStatus, error) {
	return &models.SystemStatus{Status: "operational"}, nil
}

func (fixedSource) DashboardOverview(context.Context) (*models.DashboardOverview, error) {
	return &models.DashboardOverview{ActiveAlerts: 2}, nil
}

func (fixedSource) MapData(context.Context) (*models.MapData, error) {
	return &models.MapData{
		Dams: []models.Dam{{ID: "dam_manantali", Name: "Manantali"}},
	}, nil
}

func (fixedSource) Statistics(context.Context) (*models.Statistics, error) {
	return &models.Statistics{Alerts24h: 3}, nil
}

func (fixedSource) Alerts(context.Context) (models.AlertList, error) {
	return models.AlertList{
		{AlertID: "a1", AlertType: models.AlertTypeFlood, Location: "Bakel"},
		{AlertID: "a2", AlertType: models.AlertTypeDrought, Location: "Matam"},
	}, nil
}

func (fixedSource) ForecastShortTerm(_ context.Context, loc string) (*models.ForecastShortTerm, error) {
	return &models.ForecastShortTerm{StationID: loc}, nil
}

func (fixedSource) ForecastSeasonal(_ context.Context, loc string) (*models.ForecastSeasonal, error) {
	return &models.ForecastSeasonal{StationID: loc}, nil
}

func (fixedSource) ForecastFlood(context.Context, string) (*models.ForecastFlood, error) {
	return &models.ForecastFlood{}, nil
}

func (fixedSource) ForecastEnsemble(_ context.Context, loc string) (*models.ForecastEnsemble, error) {
	return &models.ForecastEnsemble{LocationID: loc}, nil
}

func (fixedSource) EcosystemServices(context.Context) ([]models.EcosystemService, error) {
	return []models.EcosystemService{}, nil
}

func (fixedSource) DamOptimization(context.Context) (*models.OptimizationResult, error) {
	return &models.OptimizationResult{MultiObjectiveScore: 78.5}, nil
}

func (fixedSource) AgricultureRecommendations(_ context.Context, farmer string) (*models.AgricultureRecommendation, error) {
	return &models.AgricultureRecommendation{FarmerID: farmer}, nil
}

func (s fixedSource) SubmitScenario(context.Context, models.ScenarioInput) (*models.ScenarioResult, error) {
	if s.scenarioErr != nil {
		return nil, s.scenarioErr
	}
	return &models.ScenarioResult{ScenarioID: "scn_1", MultiObjectiveScore: 82}, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *view.Pages) {
	t.Helper()
	src := fixedSource{}
	pages := view.NewPages(src, "station_001", "farmer_001")
	handler := NewHandler(pages, scenario.NewSimulator(src), websocket.NewHub())
	router := NewRouter(config.ServerConfig{CORSOrigins: []string{"*"}}, handler)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, pages
}

func decodeResponse(t *testing.T, resp *http.Response) APIResponse {
	t.Helper()
	defer resp.Body.Close()
	var out APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/v1/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeResponse(t, resp)
	assert.Equal(t, "ok", out.Status)
	assert.NotEmpty(t, out.Metadata.RequestID)
}

func TestDashboardViewBeforeAndAfterLoad(t *testing.T) {
	srv, pages := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/views/dashboard")
	require.NoError(t, err)
	out := decodeResponse(t, resp)
	pv := out.Data.(map[string]any)
	assert.Equal(t, "loading", pv["status"])

	pages.Dashboard.Load(context.Background())

	resp, err = http.Get(srv.URL + "/api/v1/views/dashboard")
	require.NoError(t, err)
	out = decodeResponse(t, resp)
	pv = out.Data.(map[string]any)
	assert.Equal(t, "ready", pv["status"])
}

func TestAlertsViewFilterQuery(t *testing.T) {
	srv, pages := newTestServer(t)
	pages.Alerts.Refresh(context.Background())

	resp, err := http.Get(srv.URL + "/api/v1/views/alerts?type=flood")
	require.NoError(t, err)
	out := decodeResponse(t, resp)
	pv := out.Data.(map[string]any)
	slices := pv["slices"].(map[string]any)
	alerts := slices["alerts"].(map[string]any)["data"].([]any)
	require.Len(t, alerts, 1)
	assert.Equal(t, "a1", alerts[0].(map[string]any)["alert_id"])

	resp, err = http.Get(srv.URL + "/api/v1/views/alerts?type=seismic")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	out = decodeResponse(t, resp)
	assert.Equal(t, "INVALID_FILTER", out.Error.Code)
}

func TestSetMapLayerValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/views/maps/layer", "application/json",
		strings.NewReader(`{"layer": "dams"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Post(srv.URL+"/api/v1/views/maps/layer", "application/json",
		strings.NewReader(`{"layer": "volcanoes"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	out := decodeResponse(t, resp)
	assert.Equal(t, "INVALID_LAYER", out.Error.Code)
}

func TestSetForecastLocationRequiresID(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/views/forecasts/location", "application/json",
		strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	out := decodeResponse(t, resp)
	assert.Equal(t, "VALIDATION_ERROR", out.Error.Code)

	resp, err = http.Post(srv.URL+"/api/v1/views/forecasts/location", "application/json",
		strings.NewReader(`{"location_id": "station_002"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

// delayedSource simulates a slow upstream whose fetches honor context
// cancellation, like the real HTTP client does.
type delayedSource struct {
	fixedSource
	delay time.Duration
}

func (s delayedSource) wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.delay):
		return nil
	}
}

func (s delayedSource) ForecastShortTerm(ctx context.Context, loc string) (*models.ForecastShortTerm, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.fixedSource.ForecastShortTerm(ctx, loc)
}

func (s delayedSource) ForecastSeasonal(ctx context.Context, loc string) (*models.ForecastSeasonal, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.fixedSource.ForecastSeasonal(ctx, loc)
}

func (s delayedSource) ForecastFlood(ctx context.Context, loc string) (*models.ForecastFlood, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.fixedSource.ForecastFlood(ctx, loc)
}

func (s delayedSource) ForecastEnsemble(ctx context.Context, loc string) (*models.ForecastEnsemble, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.fixedSource.ForecastEnsemble(ctx, loc)
}

// A location change accepted over HTTP must complete its refetch even
// though the request context is canceled as soon as the handler returns.
func TestSetForecastLocationRefetchOutlivesRequest(t *testing.T) {
	src := delayedSource{delay: 100 * time.Millisecond}
	pages := view.NewPages(src, "station_001", "farmer_001")
	t.Cleanup(pages.Close)
	handler := NewHandler(pages, scenario.NewSimulator(src), websocket.NewHub())
	router := NewRouter(config.ServerConfig{CORSOrigins: []string{"*"}}, handler)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+"/api/v1/views/forecasts/location", "application/json",
		strings.NewReader(`{"location_id": "station_002"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	require.Eventually(t, func() bool {
		resp, err := http.Get(srv.URL + "/api/v1/views/forecasts")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var out APIResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return false
		}
		pv, ok := out.Data.(map[string]any)
		if !ok || pv["status"] != "ready" {
			return false
		}
		short, ok := pv["slices"].(map[string]any)["short_term"].(map[string]any)
		if !ok || short["state"] != "ready" {
			return false
		}
		data, ok := short["data"].(map[string]any)
		return ok && data["station_id"] == "station_002"
	}, 2*time.Second, 25*time.Millisecond, "refetch for the new location never completed")
}

func TestSubmitScenario(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{"manantali_discharge_m3_s": 1200, "diama_discharge_m3_s": 950, "felou_discharge_m3_s": 400}`
	resp, err := http.Post(srv.URL+"/api/v1/scenario", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeResponse(t, resp)
	result := out.Data.(map[string]any)
	assert.Equal(t, "scn_1", result["scenario_id"])
	assert.InDelta(t, 82, result["multi_objective_score"].(float64), 0.001)
}

func TestRequestIDPropagation(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "trace-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, "trace-123", resp.Header.Get("X-Request-ID"))
	out := decodeResponse(t, resp)
	assert.Equal(t, "trace-123", out.Metadata.RequestID)
}
