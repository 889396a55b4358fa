// Basinview - River Basin Monitoring and Forecast Visualization
// Copyright 2026 Basinview Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aquamind/basinview

package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquamind/basinview/internal/models"
)

func sampleMapData() *models.MapData {
	return &models.MapData{
		Dams: []models.Dam{
			{ID: "dam_manantali", Name: "Manantali", Coordinates: models.Coordinates{Lat: 13.2, Lon: -10.43}, LevelPercent: 72.5},
			{ID: "dam_diama", Name: "Diama", Coordinates: models.Coordinates{Lat: 16.22, Lon: -16.41}, LevelPercent: 88.1},
		},
		Stations: map[string]models.Station{
			"station_002": {Name: "Matam", Coords: models.Coordinates{Lat: 15.65, Lon: -13.25}, Discharge: 310},
			"station_001": {Name: "Bakel", Coords: models.Coordinates{Lat: 14.9, Lon: -12.45}, Discharge: 450},
		},
		Basins: []models.Basin{
			{ID: "haut_bassin", Name: "Haut Bassin", Coordinates: models.Coordinates{Lat: 12.5, Lon: -10.0}, AreaKm2: 218000, Population: 3500000},
			{ID: "delta", Name: "Delta", Coordinates: models.Coordinates{Lat: 16.3, Lon: -16.2}, AreaKm2: 8000, Population: 900000},
		},
	}
}

func TestComposeAllLayers(t *testing.T) {
	set := Compose(sampleMapData(), LayerAll)

	assert.Len(t, set.Dams, 2)
	assert.Len(t, set.Stations, 2)
	assert.Len(t, set.Basins, 2)
	require.Len(t, set.RiverRoute, 8)
	assert.Equal(t, [2]float64{10.5, -10.5}, set.RiverRoute[0])
	assert.Equal(t, [2]float64{14.8, -14.5}, set.RiverRoute[7])

	// Stations come out sorted by id regardless of map iteration order.
	assert.Equal(t, "station_001", set.Stations[0].ID)
	assert.Equal(t, "station_002", set.Stations[1].ID)
}

func TestComposeSingleLayers(t *testing.T) {
	data := sampleMapData()

	dams := Compose(data, LayerDams)
	assert.Len(t, dams.Dams, 2)
	assert.Empty(t, dams.Stations)
	assert.Empty(t, dams.Basins)
	assert.Empty(t, dams.RiverRoute)

	stations := Compose(data, LayerStations)
	assert.Empty(t, stations.Dams)
	assert.Len(t, stations.Stations, 2)
	assert.Empty(t, stations.Basins)
	assert.Empty(t, stations.RiverRoute)

	// The basins layer selection renders no basin circles; those appear
	// only under the combined view.
	basins := Compose(data, LayerBasins)
	assert.Empty(t, basins.Dams)
	assert.Empty(t, basins.Stations)
	assert.Empty(t, basins.Basins)
	assert.Empty(t, basins.RiverRoute)
}

func TestBasinRadiusDerivation(t *testing.T) {
	set := Compose(sampleMapData(), LayerAll)
	for _, b := range set.Basins {
		assert.Equal(t, math.Sqrt(b.AreaKm2)*500, b.RadiusM, b.ID)
	}
	assert.Equal(t, 500.0, BasinRadiusM(1))
	assert.Equal(t, 5000.0, BasinRadiusM(100))
}

func TestComposeIsIdempotent(t *testing.T) {
	data := sampleMapData()
	first := Compose(data, LayerAll)
	second := Compose(data, LayerAll)
	assert.Equal(t, first, second)
}

func TestComposeNilData(t *testing.T) {
	set := Compose(nil, LayerAll)
	assert.Empty(t, set.Dams)
	assert.Empty(t, set.Stations)
	assert.Empty(t, set.Basins)
	assert.Empty(t, set.RiverRoute)
}

func TestParseLayer(t *testing.T) {
	tests := []struct {
		in    string
		want  Layer
		valid bool
	}{
		{"all", LayerAll, true},
		{"dams", LayerDams, true},
		{"stations", LayerStations, true},
		{"basins", LayerBasins, true},
		{"", LayerAll, true},
		{"rivers", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseLayer(tt.in)
		assert.Equal(t, tt.valid, ok, tt.in)
		if tt.valid {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}
