// Basinview - River Basin Monitoring and Forecast Visualization
// Copyright 2026 Basinview Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aquamind/basinview

package upstream

import (
	"context"
	"net/url"

	"github.com/aquamind/basinview/internal/models"
)

// SystemStatus fetches the platform health snapshot.
func (c *Client) SystemStatus(ctx context.Context) (*models.SystemStatus, error) {
	out := &models.SystemStatus{}
	if err := c.getJSON(ctx, "/api/system/status", out); err != nil {
		return nil, err
	}
	return out, nil
}

// DashboardOverview fetches the near-real-time station and dam snapshot.
func (c *Client) DashboardOverview(ctx context.Context) (*models.DashboardOverview, error) {
	out := &models.DashboardOverview{}
	if err := c.getJSON(ctx, "/api/dashboard/overview", out); err != nil {
		return nil, err
	}
	return out, nil
}

// MapData fetches the geospatial feature set for the interactive map.
func (c *Client) MapData(ctx context.Context) (*models.MapData, error) {
	out := &models.MapData{}
	if err := c.getJSON(ctx, "/api/dashboard/map-data", out); err != nil {
		return nil, err
	}
	return out, nil
}

// Statistics fetches the aggregated basin metrics.
func (c *Client) Statistics(ctx context.Context) (*models.Statistics, error) {
	out := &models.Statistics{}
	if err := c.getJSON(ctx, "/api/dashboard/statistics", out); err != nil {
		return nil, err
	}
	return out, nil
}

// Alerts fetches all current alerts in backend order.
func (c *Client) Alerts(ctx context.Context) (models.AlertList, error) {
	var out models.AlertList
	if err := c.getJSON(ctx, "/api/alerts", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ForecastShortTerm fetches the 7-day discharge forecast for a location.
func (c *Client) ForecastShortTerm(ctx context.Context, locationID string) (*models.ForecastShortTerm, error) {
	out := &models.ForecastShortTerm{}
	if err := c.getJSON(ctx, "/api/forecast/"+url.PathEscape(locationID)+"/short-term", out); err != nil {
		return nil, err
	}
	return out, nil
}

// ForecastSeasonal fetches the seasonal outlook for a location.
func (c *Client) ForecastSeasonal(ctx context.Context, locationID string) (*models.ForecastSeasonal, error) {
	out := &models.ForecastSeasonal{}
	if err := c.getJSON(ctx, "/api/forecast/"+url.PathEscape(locationID)+"/seasonal", out); err != nil {
		return nil, err
	}
	return out, nil
}

// ForecastFlood fetches the spatial flood prediction for a location.
func (c *Client) ForecastFlood(ctx context.Context, locationID string) (*models.ForecastFlood, error) {
	out := &models.ForecastFlood{}
	if err := c.getJSON(ctx, "/api/forecast/"+url.PathEscape(locationID)+"/flood", out); err != nil {
		return nil, err
	}
	return out, nil
}

// ForecastEnsemble fetches the combined multi-model output for a location.
func (c *Client) ForecastEnsemble(ctx context.Context, locationID string) (*models.ForecastEnsemble, error) {
	out := &models.ForecastEnsemble{}
	if err := c.getJSON(ctx, "/api/forecast/"+url.PathEscape(locationID)+"/ensemble", out); err != nil {
		return nil, err
	}
	return out, nil
}

// EcosystemServices fetches the valued ecosystem services.
func (c *Client) EcosystemServices(ctx context.Context) ([]models.EcosystemService, error) {
	var out []models.EcosystemService
	if err := c.getJSON(ctx, "/api/ecosystem/services", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DamOptimization fetches the current recommended dam operating point.
func (c *Client) DamOptimization(ctx context.Context) (*models.OptimizationResult, error) {
	out := &models.OptimizationResult{}
	if err := c.getJSON(ctx, "/api/optimization/dams", out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitScenario submits a discharge plan for impact analysis.
func (c *Client) SubmitScenario(ctx context.Context, input models.ScenarioInput) (*models.ScenarioResult, error) {
	out := &models.ScenarioResult{}
	if err := c.postJSON(ctx, "/api/optimization/scenario", input, out); err != nil {
		return nil, err
	}
	return out, nil
}

// AgricultureRecommendations fetches agronomic advice for a farmer.
func (c *Client) AgricultureRecommendations(ctx context.Context, farmerID string) (*models.AgricultureRecommendation, error) {
	out := &models.AgricultureRecommendation{}
	if err := c.getJSON(ctx, "/api/agriculture/recommendations/"+url.PathEscape(farmerID), out); err != nil {
		return nil, err
	}
	return out, nil
}
