// Basinview - River Basin Monitoring and Forecast Visualization
// Copyright 2026 Basinview Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aquamind/basinview

package services

import (
	"context"
	"sync"

	"github.com/aquamind/basinview/internal/config"
	"github.com/aquamind/basinview/internal/poll"
	"github.com/aquamind/basinview/internal/view"
)

// ViewService owns the background fetch activity for every page: the
// one-shot initial loads plus the periodic pollers. Stopping the service
// stops all poll handles; in-flight fetches resolve but their effect is
// discarded once the pages are closed.
type ViewService struct {
	pages *view.Pages
	cfg   config.PollConfig
}

// NewViewService wraps the page views for supervision.
func NewViewService(pages *view.Pages, cfg config.PollConfig) *ViewService {
	return &ViewService{pages: pages, cfg: cfg}
}

// Serve implements suture.Service. Initial loads run concurrently so
// startup latency is the slowest page, not the sum of all pages.
func (s *ViewService) Serve(ctx context.Context) error {
	var loads sync.WaitGroup
	for _, load := range []func(context.Context){
		s.pages.Dashboard.Load,
		s.pages.Maps.Load,
		s.pages.Forecasts.Load,
		s.pages.Optimization.Load,
		s.pages.Agriculture.Load,
		s.pages.Analytics.Load,
	} {
		loads.Add(1)
		go func(fn func(context.Context)) {
			defer loads.Done()
			fn(ctx)
		}(load)
	}

	statusPoller := poll.Start(ctx, "system-status", s.cfg.StatusInterval, s.pages.Shell.Refresh)
	overviewPoller := poll.Start(ctx, "dashboard-overview", s.cfg.OverviewInterval, s.pages.Dashboard.RefreshOverview)
	alertsPoller := poll.Start(ctx, "alerts", s.cfg.OverviewInterval, s.pages.Alerts.Refresh)

	<-ctx.Done()

	statusPoller.Stop()
	overviewPoller.Stop()
	alertsPoller.Stop()
	loads.Wait()
	return ctx.Err()
}

// String identifies the service in supervisor logs.
func (s *ViewService) String() string {
	return "view-pollers"
}
