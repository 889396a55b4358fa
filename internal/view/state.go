// Basinview - River Basin Monitoring and Forecast Visualization
// Copyright 2026 Basinview Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aquamind/basinview

package view

import (
	"time"
)

// SliceState is the lifecycle state of one named data slice within a page.
//
// A slice starts in StateLoading, moves to StateReady on its first
// successful fetch, to StateRefreshing while a later fetch is pending
// (last known value stays visible), and to StateError when its most
// recent attempt failed. Errors never blank out sibling slices.
type SliceState string

const (
	StateLoading    SliceState = "loading"
	StateReady      SliceState = "ready"
	StateRefreshing SliceState = "refreshing"
	StateError      SliceState = "error"
)

// PageStatus is the page-level rollup: StatusLoading until every slice
// has settled (success or failure) at least once, StatusReady after.
type PageStatus string

const (
	StatusLoading PageStatus = "loading"
	StatusReady   PageStatus = "ready"
)

// SliceView is the externally visible form of one slice.
type SliceView struct {
	State SliceState `json:"state"`
	// Data is the last accepted value. It survives a failed refresh so
	// the page keeps showing the previous snapshot alongside the error.
	Data      any       `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// PageView is the full view model for one page.
type PageView struct {
	Page   string               `json:"page"`
	Status PageStatus           `json:"status"`
	Slices map[string]SliceView `json:"slices"`
}

// slice is the internal mutable slice record, guarded by the
// aggregator's mutex.
type slice struct {
	state       SliceState
	data        any
	err         error
	updatedAt   time.Time
	settledOnce bool
}
