// Basinview - River Basin Monitoring and Forecast Visualization
// Copyright 2026 Basinview Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aquamind/basinview

// Package poll runs fixed-interval background fetch loops. Each poller
// fires once immediately on start and then on every tick until stopped.
// Ticks launch the task in its own goroutine, so a slow fetch never
// delays or suppresses the next tick.
package poll

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aquamind/basinview/internal/logging"
	"github.com/aquamind/basinview/internal/metrics"
)

// Clock abstracts ticker creation so tests can drive the schedule manually.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

// Ticker is the subset of time.Ticker the scheduler needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// RealClock is the production Clock backed by time.Ticker.
type RealClock struct{}

func (RealClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(d)}
}

type realTicker struct {
	t *time.Ticker
}

func (r *realTicker) C() <-chan time.Time { return r.t.C }
func (r *realTicker) Stop()               { r.t.Stop() }

// Handle controls a running poller.
type Handle struct {
	name     string
	interval time.Duration
	fn       func(context.Context)
	clock    Clock
	logger   zerolog.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
	inflight sync.WaitGroup
}

// Start launches a poller with the real clock. fn runs once immediately
// and then every interval until Stop.
func Start(ctx context.Context, name string, interval time.Duration, fn func(context.Context)) *Handle {
	return StartWithClock(ctx, name, interval, fn, RealClock{})
}

// StartWithClock is Start with an injected clock, used by tests.
func StartWithClock(ctx context.Context, name string, interval time.Duration, fn func(context.Context), clock Clock) *Handle {
	h := &Handle{
		name:     name,
		interval: interval,
		fn:       fn,
		clock:    clock,
		logger:   logging.With().Str("component", "poll").Str("poller", name).Logger(),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	go h.run(ctx)
	return h
}

// Stop halts the schedule. No further invocations start after Stop
// returns; invocations already in flight run to completion.
func (h *Handle) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopCh)
	})
	<-h.done
}

// Drain blocks until all in-flight invocations have returned.
// Callers typically Stop first.
func (h *Handle) Drain() {
	h.inflight.Wait()
}

func (h *Handle) run(ctx context.Context) {
	defer close(h.done)

	h.logger.Debug().Dur("interval", h.interval).Msg("Poller started")
	h.invoke(ctx)

	ticker := h.clock.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stopCh:
			h.logger.Debug().Msg("Poller stopped")
			return
		case <-ctx.Done():
			h.logger.Debug().Msg("Poller context cancelled")
			return
		case <-ticker.C():
			h.invoke(ctx)
		}
	}
}

func (h *Handle) invoke(ctx context.Context) {
	metrics.PollTicks.WithLabelValues(h.name).Inc()
	h.inflight.Add(1)
	go func() {
		defer h.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				h.logger.Error().Interface("panic", r).Msg("Poll task panicked")
			}
		}()
		h.fn(ctx)
	}()
}
