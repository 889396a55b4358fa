// Basinview - River Basin Monitoring and Forecast Visualization
// Copyright 2026 Basinview Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aquamind/basinview

// Package upstream implements the typed HTTP client for the AQUAMIND
// prediction platform. All fetches share a circuit breaker, an optional
// rate limiter, and a uniform error taxonomy (network, decode, application).
package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/aquamind/basinview/internal/config"
	"github.com/aquamind/basinview/internal/logging"
	"github.com/aquamind/basinview/internal/metrics"
)

// maxResponseBytes bounds response bodies so a misbehaving upstream cannot
// exhaust memory. The largest real payload (flood grid metadata) is under 1MB.
const maxResponseBytes = 16 << 20

// validatable is implemented by payload types with a required shape.
type validatable interface {
	Validate() error
}

// Client fetches typed snapshots from the prediction platform.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// NewClient builds a Client from the upstream configuration.
func NewClient(cfg config.UpstreamConfig) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logging.With().Str("component", "upstream").Logger(),
	}

	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "prediction-platform",
		Timeout: cfg.BreakerOpenPeriod,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerMaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})

	if cfg.RateLimitPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitPerSecond), int(cfg.RateLimitPerSecond)+1)
	}

	return c
}

// getJSON fetches path and decodes the response body into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// postJSON sends in as a JSON body to path and decodes the response into out.
func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return decodeError(path, fmt.Errorf("encode request: %w", err))
	}
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, reqBody []byte, out any) error {
	start := time.Now()
	endpoint := endpointLabel(path)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return networkError(path, err)
		}
	}

	respBody, err := c.breaker.Execute(func() ([]byte, error) {
		return c.roundTrip(ctx, method, path, reqBody)
	})

	metrics.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		fe, ok := err.(*FetchError)
		if !ok {
			// Breaker rejections (open state, too many half-open requests)
			// surface here as plain errors. No response was attempted.
			fe = networkError(path, err)
		}
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		metrics.UpstreamErrors.WithLabelValues(endpoint, string(fe.Kind)).Inc()
		c.logger.Warn().
			Str("endpoint", path).
			Str("kind", string(fe.Kind)).
			Err(fe).
			Msg("Upstream fetch failed")
		return fe
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		metrics.UpstreamErrors.WithLabelValues(endpoint, string(KindDecode)).Inc()
		return decodeError(path, err)
	}
	if v, ok := out.(validatable); ok {
		if err := v.Validate(); err != nil {
			metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
			metrics.UpstreamErrors.WithLabelValues(endpoint, string(KindDecode)).Inc()
			return decodeError(path, err)
		}
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
	return nil
}

// roundTrip performs one HTTP exchange. It returns a *FetchError for
// transport and application failures so the breaker counts both.
func (c *Client) roundTrip(ctx context.Context, method, path string, reqBody []byte) ([]byte, error) {
	var bodyReader io.Reader
	if reqBody != nil {
		bodyReader = bytes.NewReader(reqBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, networkError(path, err)
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, networkError(path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, networkError(path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, applicationError(path, resp.StatusCode, truncate(string(body), 200))
	}

	return body, nil
}

// endpointLabel collapses a request path to a bounded metric label by
// stripping path parameters (location and farmer ids).
func endpointLabel(path string) string {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for i, p := range parts {
		if strings.HasPrefix(p, "station_") || strings.HasPrefix(p, "dam_") || strings.HasPrefix(p, "farmer_") {
			parts[i] = "{id}"
		}
	}
	return "/" + strings.Join(parts, "/")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
