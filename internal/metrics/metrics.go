// Basinview - River Basin Monitoring and Forecast Visualization
// Copyright 2026 Basinview Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aquamind/basinview

// Package metrics provides Prometheus instrumentation for Basinview:
// upstream fetch throughput and failures, poll cadence, stale-response
// discards, view refresh latency, and WebSocket connections.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Upstream fetch metrics
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of requests issued to the prediction platform",
		},
		[]string{"endpoint", "outcome"}, // outcome: "ok", "error"
	)

	UpstreamErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_errors_total",
			Help: "Total number of upstream fetch failures by error kind",
		},
		[]string{"endpoint", "kind"}, // kind: "network", "decode", "application"
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Upstream request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	// Poll scheduler metrics
	PollTicks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poll_ticks_total",
			Help: "Total number of poll scheduler invocations (immediate run included)",
		},
		[]string{"poller"},
	)

	// View aggregation metrics
	StaleResponsesDiscarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "view_stale_responses_discarded_total",
			Help: "Responses discarded because their originating parameter was superseded",
		},
		[]string{"page"},
	)

	ViewRefreshDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "view_refresh_duration_seconds",
			Help:    "Time for a view aggregator's fetch group to settle",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"page"},
	)

	SliceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "view_slice_errors_total",
			Help: "Slice fetch attempts that ended in the error state",
		},
		[]string{"page", "slice"},
	)

	// Scenario metrics
	ScenarioSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scenario_submissions_total",
			Help: "Scenario analysis submissions by outcome",
		},
		[]string{"outcome"}, // "ok", "error", "rejected_in_flight"
	)

	// WebSocket metrics
	WSClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_clients",
			Help: "Current number of connected WebSocket clients",
		},
	)

	WSMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of broadcast messages sent to WebSocket clients",
		},
		[]string{"type"},
	)
)
