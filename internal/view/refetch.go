// Basinview - River Basin Monitoring and Forecast Visualization
// Copyright 2026 Basinview Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aquamind/basinview

package view

import (
	"sync"
)

// Controller observes a user-controlled parameter (location id, farmer id,
// map layer) and ties each change to a fresh aggregator generation.
//
// The staleness contract: a response is accepted into the view model only
// if the parameter at response time still equals the parameter at request
// time. The aggregator enforces this by generation number; the controller
// guarantees that every parameter change advances the generation before
// any fetch for the new value is issued. In-flight requests for the old
// value are not cancelled at the transport level, only discarded.
type Controller[T comparable] struct {
	mu    sync.Mutex
	value T
	agg   *Aggregator
}

// NewController builds a controller bound to agg with an initial value.
func NewController[T comparable](agg *Aggregator, initial T) *Controller[T] {
	return &Controller[T]{value: initial, agg: agg}
}

// Get returns the current parameter value.
func (c *Controller[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Set updates the parameter. When the value actually changes it
// invalidates the aggregator and returns the new generation; setting the
// same value again is a no-op so repeated selections do not reload.
func (c *Controller[T]) Set(v T) (changed bool, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v == c.value {
		return false, c.agg.Generation()
	}
	c.value = v
	return true, c.agg.Invalidate()
}
