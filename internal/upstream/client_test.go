// Basinview - River Basin Monitoring and Forecast Visualization
// Copyright 2026 Basinview Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aquamind/basinview

package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquamind/basinview/internal/config"
	"github.com/aquamind/basinview/internal/models"
)

func testScenarioInput() models.ScenarioInput {
	return models.ScenarioInput{
		ManantaliDischargeM3s: 1200,
		DiamaDischargeM3s:     950,
		FelouDischargeM3s:     400,
	}
}

func testConfig(baseURL string) config.UpstreamConfig {
	return config.UpstreamConfig{
		BaseURL:            baseURL,
		Timeout:            2 * time.Second,
		BreakerMaxFailures: 5,
		BreakerOpenPeriod:  time.Minute,
	}
}

func TestSystemStatusSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/system/status", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "operational",
			"uptime_percent": 99.7,
			"last_data_update": "2026-08-28T10:15:00.123456",
			"backend_status": "online",
			"database_status": "online",
			"ai_models_status": "online",
			"total_alerts_24h": 3
		}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	status, err := client.SystemStatus(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "operational", status.Status)
	assert.InDelta(t, 99.7, status.UptimePercent, 0.001)
	assert.Equal(t, 3, status.TotalAlerts24h)
	// Naive upstream timestamps decode as UTC.
	assert.Equal(t, 2026, status.LastDataUpdate.Year())
	assert.Equal(t, time.UTC, status.LastDataUpdate.Location())
}

func TestNetworkErrorKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(testConfig(srv.URL))
	_, err := client.Alerts(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
}

func TestApplicationErrorKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "internal error"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, err := client.Statistics(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindApplication, KindOf(err))

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusInternalServerError, fe.Status)
}

func TestDecodeErrorKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, err := client.DashboardOverview(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindDecode, KindOf(err))
}

func TestShapeValidationIsDecodeError(t *testing.T) {
	// Valid JSON, but a basin without an id fails shape validation.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"dams": [],
			"stations": {},
			"basins": [{"name": "Haut Bassin", "area_km2": 0}]
		}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, err := client.MapData(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindDecode, KindOf(err))
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.BreakerMaxFailures = 3
	client := NewClient(cfg)

	for range 3 {
		_, err := client.SystemStatus(context.Background())
		assert.Equal(t, KindApplication, KindOf(err))
	}

	// Breaker is open now; the failure surfaces as a network-class error
	// because no request is attempted.
	_, err := client.SystemStatus(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
}

func TestSubmitScenarioPostsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/optimization/scenario", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{
			"scenario_id": "scn_42",
			"predicted_energy_gwh": 310.5,
			"predicted_salinity_risk": 0.12,
			"multi_objective_score": 82
		}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	result, err := client.SubmitScenario(context.Background(), testScenarioInput())
	require.NoError(t, err)

	assert.Equal(t, "scn_42", result.ScenarioID)
	assert.InDelta(t, 82, result.MultiObjectiveScore, 0.001)
}

func TestForecastPathEscapesLocation(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"station_id": "station_001"}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, err := client.ForecastShortTerm(context.Background(), "station_001")
	require.NoError(t, err)
	assert.Equal(t, "/api/forecast/station_001/short-term", gotPath)
}
