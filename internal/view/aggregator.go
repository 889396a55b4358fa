// Basinview - River Basin Monitoring and Forecast Visualization
// Copyright 2026 Basinview Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aquamind/basinview

// Package view maintains per-page view models. Each page owns an Aggregator
// that runs its named fetch tasks concurrently, folds their completions into
// a slice state machine, and discards responses whose originating parameter
// generation has been superseded.
package view

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aquamind/basinview/internal/logging"
	"github.com/aquamind/basinview/internal/metrics"
)

// FetchFunc produces one slice's data. The returned value replaces the
// slice's previous data wholesale.
type FetchFunc func(ctx context.Context) (any, error)

// Task binds a slice name to a fetch. Pages rebuild their task lists on
// every run so parameter-bound tasks capture the parameter at issue time.
type Task struct {
	Name  string
	Fetch FetchFunc
}

// Aggregator folds concurrent task completions into a page view model.
// All events are applied under one mutex; completion order across tasks
// is deliberately unconstrained.
type Aggregator struct {
	page   string
	logger zerolog.Logger

	mu       sync.Mutex
	slices   map[string]*slice
	order    []string
	gen      uint64
	onUpdate func(PageView)
}

// NewAggregator builds an aggregator for a page with a fixed set of slice
// names, all starting in StateLoading.
func NewAggregator(page string, sliceNames ...string) *Aggregator {
	a := &Aggregator{
		page:   page,
		logger: logging.With().Str("component", "view").Str("page", page).Logger(),
		slices: make(map[string]*slice, len(sliceNames)),
		order:  append([]string(nil), sliceNames...),
	}
	for _, name := range sliceNames {
		a.slices[name] = &slice{state: StateLoading}
	}
	return a
}

// OnUpdate registers a callback invoked with a fresh snapshot after every
// accepted state change. Used to push live updates to WebSocket clients.
func (a *Aggregator) OnUpdate(fn func(PageView)) {
	a.mu.Lock()
	a.onUpdate = fn
	a.mu.Unlock()
}

// Generation returns the current parameter generation. Fetch groups issued
// under an older generation have their responses discarded.
func (a *Aggregator) Generation() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gen
}

// Invalidate advances the parameter generation and resets every slice to
// StateLoading. Called when a user-controlled parameter changes: data for
// the old parameter must not be displayed as if it were current, and any
// in-flight response from the old generation becomes stale.
func (a *Aggregator) Invalidate() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gen++
	for _, s := range a.slices {
		s.state = StateLoading
		s.data = nil
		s.err = nil
		s.settledOnce = false
	}
	a.logger.Debug().Uint64("generation", a.gen).Msg("View invalidated")
	return a.gen
}

// Close permanently invalidates the aggregator. Responses arriving after
// Close are no-ops.
func (a *Aggregator) Close() {
	a.Invalidate()
}

// Run executes the task group concurrently and blocks until every task has
// settled. gen is the generation the group was issued under; completions
// are discarded if the generation has moved on by the time they arrive.
// Overlapping Runs are permitted.
func (a *Aggregator) Run(ctx context.Context, gen uint64, tasks []Task) {
	start := time.Now()

	var wg sync.WaitGroup
	for _, task := range tasks {
		a.taskStarted(task.Name, gen)
		wg.Add(1)
		go func(t Task) {
			defer wg.Done()
			data, err := t.Fetch(ctx)
			if err != nil {
				a.taskFailed(t.Name, gen, err)
				return
			}
			a.taskSucceeded(t.Name, gen, data)
		}(task)
	}
	wg.Wait()

	metrics.ViewRefreshDuration.WithLabelValues(a.page).Observe(time.Since(start).Seconds())
}

// taskStarted marks a slice as loading (first fetch) or refreshing
// (last known value remains visible).
func (a *Aggregator) taskStarted(name string, gen uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.gen {
		return
	}
	s, ok := a.slices[name]
	if !ok {
		return
	}
	if s.settledOnce {
		s.state = StateRefreshing
	} else {
		s.state = StateLoading
	}
}

// taskSucceeded replaces the slice's data wholesale with the new value.
func (a *Aggregator) taskSucceeded(name string, gen uint64, data any) {
	a.mu.Lock()
	if gen != a.gen {
		a.mu.Unlock()
		metrics.StaleResponsesDiscarded.WithLabelValues(a.page).Inc()
		a.logger.Debug().Str("slice", name).Uint64("generation", gen).Msg("Discarded stale response")
		return
	}
	s, ok := a.slices[name]
	if !ok {
		a.mu.Unlock()
		return
	}
	s.state = StateReady
	s.data = data
	s.err = nil
	s.updatedAt = time.Now().UTC()
	s.settledOnce = true
	snapshot, fn := a.snapshotLocked(), a.onUpdate
	a.mu.Unlock()

	if fn != nil {
		fn(snapshot)
	}
}

// taskFailed records the error but keeps the slice's previous data so the
// page can show the last known value next to the failure.
func (a *Aggregator) taskFailed(name string, gen uint64, err error) {
	a.mu.Lock()
	if gen != a.gen {
		a.mu.Unlock()
		metrics.StaleResponsesDiscarded.WithLabelValues(a.page).Inc()
		return
	}
	s, ok := a.slices[name]
	if !ok {
		a.mu.Unlock()
		return
	}
	s.state = StateError
	s.err = err
	s.settledOnce = true
	snapshot, fn := a.snapshotLocked(), a.onUpdate
	a.mu.Unlock()

	metrics.SliceErrors.WithLabelValues(a.page, name).Inc()
	a.logger.Warn().Str("slice", name).Err(err).Msg("Slice fetch failed")

	if fn != nil {
		fn(snapshot)
	}
}

// Snapshot returns the current view model.
func (a *Aggregator) Snapshot() PageView {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

func (a *Aggregator) snapshotLocked() PageView {
	pv := PageView{
		Page:   a.page,
		Status: StatusReady,
		Slices: make(map[string]SliceView, len(a.slices)),
	}
	for _, name := range a.order {
		s := a.slices[name]
		if !s.settledOnce {
			pv.Status = StatusLoading
		}
		sv := SliceView{
			State:     s.state,
			Data:      s.data,
			UpdatedAt: s.updatedAt,
		}
		if s.err != nil {
			sv.Error = s.err.Error()
		}
		pv.Slices[name] = sv
	}
	return pv
}
