// Basinview - River Basin Monitoring and Forecast Visualization
// Copyright 2026 Basinview Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aquamind/basinview

package view

import (
	"context"

	"github.com/aquamind/basinview/internal/alerting"
	"github.com/aquamind/basinview/internal/geo"
	"github.com/aquamind/basinview/internal/models"
)

// Page names, used as metric labels, route segments, and broadcast topics.
const (
	PageShell        = "shell"
	PageDashboard    = "dashboard"
	PageMaps         = "maps"
	PageForecasts    = "forecasts"
	PageAlerts       = "alerts"
	PageOptimization = "optimization"
	PageAgriculture  = "agriculture"
	PageAnalytics    = "analytics"
)

// dashboardAlertLimit caps the alert entries embedded in the Dashboard
// summary; the full list lives on the Alerts page.
const dashboardAlertLimit = 5

// DataSource is the upstream surface the page aggregators consume.
// *upstream.Client implements it; tests substitute stubs.
type DataSource interface {
	SystemStatus(ctx context.Context) (*models.SystemStatus, error)
	DashboardOverview(ctx context.Context) (*models.DashboardOverview, error)
	MapData(ctx context.Context) (*models.MapData, error)
	Statistics(ctx context.Context) (*models.Statistics, error)
	Alerts(ctx context.Context) (models.AlertList, error)
	ForecastShortTerm(ctx context.Context, locationID string) (*models.ForecastShortTerm, error)
	ForecastSeasonal(ctx context.Context, locationID string) (*models.ForecastSeasonal, error)
	ForecastFlood(ctx context.Context, locationID string) (*models.ForecastFlood, error)
	ForecastEnsemble(ctx context.Context, locationID string) (*models.ForecastEnsemble, error)
	EcosystemServices(ctx context.Context) ([]models.EcosystemService, error)
	DamOptimization(ctx context.Context) (*models.OptimizationResult, error)
	AgricultureRecommendations(ctx context.Context, farmerID string) (*models.AgricultureRecommendation, error)
}

// ShellView is the top-level system status banner, polled every five
// minutes. On failure the last known status stays visible; the shell
// never blanks out.
type ShellView struct {
	agg *Aggregator
	src DataSource
}

func NewShellView(src DataSource) *ShellView {
	return &ShellView{
		agg: NewAggregator(PageShell, "status"),
		src: src,
	}
}

// Refresh fetches the status snapshot. Safe to call from overlapping
// poll ticks.
func (v *ShellView) Refresh(ctx context.Context) {
	gen := v.agg.Generation()
	v.agg.Run(ctx, gen, []Task{
		{Name: "status", Fetch: func(ctx context.Context) (any, error) {
			return v.src.SystemStatus(ctx)
		}},
	})
}

func (v *ShellView) Snapshot() PageView         { return v.agg.Snapshot() }
func (v *ShellView) OnUpdate(fn func(PageView)) { v.agg.OnUpdate(fn) }
func (v *ShellView) Close()                     { v.agg.Close() }

// DashboardView combines the 30-second overview poll with the
// once-per-load map, statistics, and alert summary fetches. The map
// slice feeds the dashboard's embedded overview map, which has no layer
// selection of its own.
type DashboardView struct {
	agg *Aggregator
	src DataSource
}

func NewDashboardView(src DataSource) *DashboardView {
	return &DashboardView{
		agg: NewAggregator(PageDashboard, "overview", "map_data", "statistics", "alerts"),
		src: src,
	}
}

// Load runs the full initial fetch group concurrently and blocks until
// the group settles.
func (v *DashboardView) Load(ctx context.Context) {
	gen := v.agg.Generation()
	v.agg.Run(ctx, gen, []Task{
		{Name: "overview", Fetch: v.fetchOverview},
		{Name: "map_data", Fetch: func(ctx context.Context) (any, error) {
			return v.src.MapData(ctx)
		}},
		{Name: "statistics", Fetch: func(ctx context.Context) (any, error) {
			return v.src.Statistics(ctx)
		}},
		{Name: "alerts", Fetch: v.fetchAlertSummary},
	})
}

// RefreshOverview re-fetches only the near-real-time slices, driven by
// the 30-second poll.
func (v *DashboardView) RefreshOverview(ctx context.Context) {
	gen := v.agg.Generation()
	v.agg.Run(ctx, gen, []Task{
		{Name: "overview", Fetch: v.fetchOverview},
		{Name: "alerts", Fetch: v.fetchAlertSummary},
	})
}

func (v *DashboardView) fetchOverview(ctx context.Context) (any, error) {
	return v.src.DashboardOverview(ctx)
}

func (v *DashboardView) fetchAlertSummary(ctx context.Context) (any, error) {
	alerts, err := v.src.Alerts(ctx)
	if err != nil {
		return nil, err
	}
	return alerting.Summarize(alerts, dashboardAlertLimit), nil
}

func (v *DashboardView) Snapshot() PageView         { return v.agg.Snapshot() }
func (v *DashboardView) OnUpdate(fn func(PageView)) { v.agg.OnUpdate(fn) }
func (v *DashboardView) Close()                     { v.agg.Close() }

// MapsView owns the geospatial feature set and the active layer
// selection. Changing the layer re-issues the map-data fetch under a new
// generation; composition itself is a pure derivation applied at
// snapshot time.
type MapsView struct {
	agg   *Aggregator
	src   DataSource
	layer *Controller[geo.Layer]
}

func NewMapsView(src DataSource) *MapsView {
	agg := NewAggregator(PageMaps, "map_data")
	return &MapsView{
		agg:   agg,
		src:   src,
		layer: NewController(agg, geo.LayerAll),
	}
}

func (v *MapsView) Load(ctx context.Context) {
	v.run(ctx, v.agg.Generation())
}

// SetLayer switches the active layer. A changed value invalidates the
// view and re-fetches; re-selecting the current layer does nothing.
func (v *MapsView) SetLayer(ctx context.Context, layer geo.Layer) {
	changed, gen := v.layer.Set(layer)
	if !changed {
		return
	}
	go v.run(ctx, gen)
}

func (v *MapsView) Layer() geo.Layer { return v.layer.Get() }

func (v *MapsView) run(ctx context.Context, gen uint64) {
	v.agg.Run(ctx, gen, []Task{
		{Name: "map_data", Fetch: func(ctx context.Context) (any, error) {
			return v.src.MapData(ctx)
		}},
	})
}

// Snapshot composes the raw feature set with the current layer.
func (v *MapsView) Snapshot() PageView {
	pv := v.agg.Snapshot()
	if sv, ok := pv.Slices["map_data"]; ok {
		if data, ok := sv.Data.(*models.MapData); ok {
			sv.Data = geo.Compose(data, v.layer.Get())
			pv.Slices["map_data"] = sv
		}
	}
	return pv
}

func (v *MapsView) OnUpdate(fn func(PageView)) { v.agg.OnUpdate(fn) }
func (v *MapsView) Close()                     { v.agg.Close() }

// ForecastsView holds the four model outputs for the selected location.
// All four tasks re-issue together when the location changes; responses
// for a superseded location are discarded, never displayed.
type ForecastsView struct {
	agg      *Aggregator
	src      DataSource
	location *Controller[string]
}

func NewForecastsView(src DataSource, defaultLocation string) *ForecastsView {
	agg := NewAggregator(PageForecasts, "short_term", "seasonal", "flood", "ensemble")
	return &ForecastsView{
		agg:      agg,
		src:      src,
		location: NewController(agg, defaultLocation),
	}
}

func (v *ForecastsView) Load(ctx context.Context) {
	v.run(ctx, v.agg.Generation(), v.location.Get())
}

// SetLocation switches the forecast location and re-issues the fetch set.
func (v *ForecastsView) SetLocation(ctx context.Context, locationID string) {
	changed, gen := v.location.Set(locationID)
	if !changed {
		return
	}
	go v.run(ctx, gen, locationID)
}

func (v *ForecastsView) Location() string { return v.location.Get() }

// run captures the location at issue time; the generation check in the
// aggregator rejects completions for superseded locations.
func (v *ForecastsView) run(ctx context.Context, gen uint64, locationID string) {
	v.agg.Run(ctx, gen, []Task{
		{Name: "short_term", Fetch: func(ctx context.Context) (any, error) {
			return v.src.ForecastShortTerm(ctx, locationID)
		}},
		{Name: "seasonal", Fetch: func(ctx context.Context) (any, error) {
			return v.src.ForecastSeasonal(ctx, locationID)
		}},
		{Name: "flood", Fetch: func(ctx context.Context) (any, error) {
			return v.src.ForecastFlood(ctx, locationID)
		}},
		{Name: "ensemble", Fetch: func(ctx context.Context) (any, error) {
			return v.src.ForecastEnsemble(ctx, locationID)
		}},
	})
}

func (v *ForecastsView) Snapshot() PageView         { return v.agg.Snapshot() }
func (v *ForecastsView) OnUpdate(fn func(PageView)) { v.agg.OnUpdate(fn) }
func (v *ForecastsView) Close()                     { v.agg.Close() }

// AlertsView holds the full alert list. The type filter is a pure
// derivation applied at snapshot time, so switching filters never
// triggers a fetch.
type AlertsView struct {
	agg *Aggregator
	src DataSource
}

func NewAlertsView(src DataSource) *AlertsView {
	return &AlertsView{
		agg: NewAggregator(PageAlerts, "alerts"),
		src: src,
	}
}

func (v *AlertsView) Refresh(ctx context.Context) {
	gen := v.agg.Generation()
	v.agg.Run(ctx, gen, []Task{
		{Name: "alerts", Fetch: func(ctx context.Context) (any, error) {
			return v.src.Alerts(ctx)
		}},
	})
}

// Snapshot applies the type filter to the fetched list, preserving
// backend order.
func (v *AlertsView) Snapshot(filter alerting.TypeFilter) PageView {
	pv := v.agg.Snapshot()
	if sv, ok := pv.Slices["alerts"]; ok {
		if alerts, ok := sv.Data.(models.AlertList); ok {
			sv.Data = alerting.Filter(alerts, filter)
			pv.Slices["alerts"] = sv
		}
	}
	return pv
}

func (v *AlertsView) OnUpdate(fn func(PageView)) { v.agg.OnUpdate(fn) }
func (v *AlertsView) Close()                     { v.agg.Close() }

// OptimizationView shows the current recommended dam operating point.
// Scenario submissions run through the scenario package and do not touch
// this view's state.
type OptimizationView struct {
	agg *Aggregator
	src DataSource
}

func NewOptimizationView(src DataSource) *OptimizationView {
	return &OptimizationView{
		agg: NewAggregator(PageOptimization, "optimization"),
		src: src,
	}
}

func (v *OptimizationView) Load(ctx context.Context) {
	gen := v.agg.Generation()
	v.agg.Run(ctx, gen, []Task{
		{Name: "optimization", Fetch: func(ctx context.Context) (any, error) {
			return v.src.DamOptimization(ctx)
		}},
	})
}

func (v *OptimizationView) Snapshot() PageView { return v.agg.Snapshot() }
func (v *OptimizationView) Close()             { v.agg.Close() }

// AgricultureView holds per-farmer recommendations, keyed by the
// selected farmer id.
type AgricultureView struct {
	agg    *Aggregator
	src    DataSource
	farmer *Controller[string]
}

func NewAgricultureView(src DataSource, defaultFarmerID string) *AgricultureView {
	agg := NewAggregator(PageAgriculture, "recommendations")
	return &AgricultureView{
		agg:    agg,
		src:    src,
		farmer: NewController(agg, defaultFarmerID),
	}
}

func (v *AgricultureView) Load(ctx context.Context) {
	v.run(ctx, v.agg.Generation(), v.farmer.Get())
}

// SetFarmer switches the farmer and re-issues the recommendation fetch.
func (v *AgricultureView) SetFarmer(ctx context.Context, farmerID string) {
	changed, gen := v.farmer.Set(farmerID)
	if !changed {
		return
	}
	go v.run(ctx, gen, farmerID)
}

func (v *AgricultureView) Farmer() string { return v.farmer.Get() }

func (v *AgricultureView) run(ctx context.Context, gen uint64, farmerID string) {
	v.agg.Run(ctx, gen, []Task{
		{Name: "recommendations", Fetch: func(ctx context.Context) (any, error) {
			return v.src.AgricultureRecommendations(ctx, farmerID)
		}},
	})
}

func (v *AgricultureView) Snapshot() PageView { return v.agg.Snapshot() }
func (v *AgricultureView) Close()             { v.agg.Close() }

// AnalyticsView aggregates basin statistics and valued ecosystem
// services.
type AnalyticsView struct {
	agg *Aggregator
	src DataSource
}

func NewAnalyticsView(src DataSource) *AnalyticsView {
	return &AnalyticsView{
		agg: NewAggregator(PageAnalytics, "statistics", "ecosystem_services"),
		src: src,
	}
}

func (v *AnalyticsView) Load(ctx context.Context) {
	gen := v.agg.Generation()
	v.agg.Run(ctx, gen, []Task{
		{Name: "statistics", Fetch: func(ctx context.Context) (any, error) {
			return v.src.Statistics(ctx)
		}},
		{Name: "ecosystem_services", Fetch: func(ctx context.Context) (any, error) {
			return v.src.EcosystemServices(ctx)
		}},
	})
}

func (v *AnalyticsView) Snapshot() PageView { return v.agg.Snapshot() }
func (v *AnalyticsView) Close()             { v.agg.Close() }

// Pages bundles every page view for wiring into the HTTP layer.
type Pages struct {
	Shell        *ShellView
	Dashboard    *DashboardView
	Maps         *MapsView
	Forecasts    *ForecastsView
	Alerts       *AlertsView
	Optimization *OptimizationView
	Agriculture  *AgricultureView
	Analytics    *AnalyticsView
}

// NewPages builds all page views over one data source.
func NewPages(src DataSource, defaultLocation, defaultFarmer string) *Pages {
	return &Pages{
		Shell:        NewShellView(src),
		Dashboard:    NewDashboardView(src),
		Maps:         NewMapsView(src),
		Forecasts:    NewForecastsView(src, defaultLocation),
		Alerts:       NewAlertsView(src),
		Optimization: NewOptimizationView(src),
		Agriculture:  NewAgricultureView(src, defaultFarmer),
		Analytics:    NewAnalyticsView(src),
	}
}

// Close invalidates every page so late completions become no-ops.
func (p *Pages) Close() {
	p.Shell.Close()
	p.Dashboard.Close()
	p.Maps.Close()
	p.Forecasts.Close()
	p.Alerts.Close()
	p.Optimization.Close()
	p.Agriculture.Close()
	p.Analytics.Close()
}
