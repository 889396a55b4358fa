// Basinview - River Basin Monitoring and Forecast Visualization
// Copyright 2026 Basinview Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aquamind/basinview

// Package alerting filters and summarizes hydrological alerts. Filtering is
// a pure derivation over the fetched list and preserves the backend's order;
// no re-ranking happens on this side.
package alerting

import (
	"github.com/aquamind/basinview/internal/models"
)

// TypeFilter selects alerts by alert_type.
type TypeFilter string

const (
	FilterAll      TypeFilter = "all"
	FilterFlood    TypeFilter = models.AlertTypeFlood
	FilterDrought  TypeFilter = models.AlertTypeDrought
	FilterSalinity TypeFilter = models.AlertTypeSalinity
)

// ParseFilter validates a filter name, defaulting to FilterAll for "".
func ParseFilter(s string) (TypeFilter, bool) {
	switch TypeFilter(s) {
	case FilterAll, FilterFlood, FilterDrought, FilterSalinity:
		return TypeFilter(s), true
	case "":
		return FilterAll, true
	default:
		return "", false
	}
}

// Filter returns the alerts matching the type filter, in their original
// order. FilterAll is the identity. The result is always a fresh slice so
// callers never alias the source.
func Filter(alerts models.AlertList, filter TypeFilter) models.AlertList {
	out := make(models.AlertList, 0, len(alerts))
	for _, a := range alerts {
		if filter == FilterAll || a.AlertType == string(filter) {
			out = append(out, a)
		}
	}
	return out
}

// Summary is the Dashboard's compact alert readout: the unfiltered count
// plus the first few entries for display.
type Summary struct {
	Total  int              `json:"total"`
	Recent models.AlertList `json:"recent"`
}

// Summarize builds the Dashboard summary from the full alert list,
// truncating the displayed entries to limit.
func Summarize(alerts models.AlertList, limit int) Summary {
	s := Summary{Total: len(alerts)}
	if limit > len(alerts) {
		limit = len(alerts)
	}
	if limit > 0 {
		s.Recent = append(models.AlertList{}, alerts[:limit]...)
	} else {
		s.Recent = models.AlertList{}
	}
	return s
}
