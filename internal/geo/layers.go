// Basinview - River Basin Monitoring and Forecast Visualization
// Copyright 2026 Basinview Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aquamind/basinview

// Package geo derives render geometry for the interactive map. Composition
// is a pure function over an already-fetched feature set; it performs no
// I/O and is deterministic for identical inputs.
package geo

import (
	"math"
	"sort"

	"github.com/aquamind/basinview/internal/models"
)

// Layer selects which feature collections are rendered.
type Layer string

const (
	LayerAll      Layer = "all"
	LayerDams     Layer = "dams"
	LayerStations Layer = "stations"
	LayerBasins   Layer = "basins"
)

// ParseLayer validates a layer name, defaulting to LayerAll for "".
func ParseLayer(s string) (Layer, bool) {
	switch Layer(s) {
	case LayerAll, LayerDams, LayerStations, LayerBasins:
		return Layer(s), true
	case "":
		return LayerAll, true
	default:
		return "", false
	}
}

// basinRadiusScaleM converts sqrt(area_km2) to a render radius in metres.
// A fixed display constant, not physically calibrated.
const basinRadiusScaleM = 500.0

// riverRoute is the Senegal river course from the Fouta Djallon headwaters
// to the Diama delta, as ordered (lat, lon) waypoints.
var riverRoute = [][2]float64{
	{10.5, -10.5},
	{12.08, -7.98},
	{13.2, -8.1},
	{14.22, -11.92},
	{14.13, -11.77},
	{13.83, -13.15},
	{14.72, -14.65},
	{14.8, -14.5},
}

// DamMarker is a rendered dam feature.
type DamMarker struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Coordinates     models.Coordinates `json:"coordinates"`
	LevelPercent    float64            `json:"level_percent"`
	DischargeM3s    float64            `json:"discharge_m3_s"`
	CapacityM3      float64            `json:"capacity_m3"`
	PowerCapacityMw float64            `json:"power_capacity_mw"`
}

// StationMarker is a rendered hydrometric station feature.
type StationMarker struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Coordinates  models.Coordinates `json:"coordinates"`
	DischargeM3s float64            `json:"discharge_m3_s"`
}

// BasinCircle is a rendered sub-basin, drawn as a circle around the
// centroid with a radius derived from area.
type BasinCircle struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Coordinates models.Coordinates `json:"coordinates"`
	AreaKm2     float64            `json:"area_km2"`
	Population  int                `json:"population"`
	RadiusM     float64            `json:"radius_m"`
}

// RenderSet is the composed, layer-filtered map content.
type RenderSet struct {
	Layer      Layer           `json:"layer"`
	Dams       []DamMarker     `json:"dams"`
	Stations   []StationMarker `json:"stations"`
	Basins     []BasinCircle   `json:"basins"`
	RiverRoute [][2]float64    `json:"river_route,omitempty"`
}

// Compose filters the feature set by the active layer and derives render
// geometry. Basins and the river route render only under LayerAll.
func Compose(data *models.MapData, layer Layer) RenderSet {
	set := RenderSet{Layer: layer}
	if data == nil {
		return set
	}

	if layer == LayerAll || layer == LayerDams {
		set.Dams = make([]DamMarker, 0, len(data.Dams))
		for _, d := range data.Dams {
			set.Dams = append(set.Dams, DamMarker{
				ID:              d.ID,
				Name:            d.Name,
				Coordinates:     d.Coordinates,
				LevelPercent:    d.LevelPercent,
				DischargeM3s:    d.DischargeM3s,
				CapacityM3:      d.CapacityM3,
				PowerCapacityMw: d.PowerCapacityMw,
			})
		}
	}

	if layer == LayerAll || layer == LayerStations {
		set.Stations = make([]StationMarker, 0, len(data.Stations))
		for id, s := range data.Stations {
			set.Stations = append(set.Stations, StationMarker{
				ID:           id,
				Name:         s.Name,
				Coordinates:  s.Coords,
				DischargeM3s: s.Discharge,
			})
		}
		// Map iteration order varies; sort by id so identical inputs
		// always yield an identical RenderSet.
		sort.Slice(set.Stations, func(i, j int) bool {
			return set.Stations[i].ID < set.Stations[j].ID
		})
	}

	if layer == LayerAll {
		set.Basins = make([]BasinCircle, 0, len(data.Basins))
		for _, b := range data.Basins {
			set.Basins = append(set.Basins, BasinCircle{
				ID:          b.ID,
				Name:        b.Name,
				Coordinates: b.Coordinates,
				AreaKm2:     b.AreaKm2,
				Population:  b.Population,
				RadiusM:     BasinRadiusM(b.AreaKm2),
			})
		}
		set.RiverRoute = RiverRoute()
	}

	return set
}

// BasinRadiusM derives the render radius in metres for a basin area.
func BasinRadiusM(areaKm2 float64) float64 {
	return math.Sqrt(areaKm2) * basinRadiusScaleM
}

// RiverRoute returns a copy of the river course waypoints.
func RiverRoute() [][2]float64 {
	route := make([][2]float64, len(riverRoute))
	copy(route, riverRoute)
	return route
}
