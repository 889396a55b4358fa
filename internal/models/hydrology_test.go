// Basinview - River Basin Monitoring and Forecast Visualization
// Copyright 2026 Basinview Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aquamind/basinview

package models

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampAcceptsNaiveISO8601(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{
			name: "rfc3339",
			in:   `"2026-08-28T10:15:00Z"`,
			want: time.Date(2026, 8, 28, 10, 15, 0, 0, time.UTC),
		},
		{
			name: "rfc3339 with offset",
			in:   `"2026-08-28T10:15:00+02:00"`,
			want: time.Date(2026, 8, 28, 8, 15, 0, 0, time.UTC),
		},
		{
			name: "naive with microseconds",
			in:   `"2026-08-28T10:15:00.123456"`,
			want: time.Date(2026, 8, 28, 10, 15, 0, 123456000, time.UTC),
		},
		{
			name: "naive without fraction",
			in:   `"2026-08-28T10:15:00"`,
			want: time.Date(2026, 8, 28, 10, 15, 0, 0, time.UTC),
		},
		{
			name: "date only",
			in:   `"2026-08-28"`,
			want: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, ts.Equal(tt.want), "got %v, want %v", ts.Time, tt.want)
		})
	}
}

func TestTimestampNullAndEmpty(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`""`), &ts))
	assert.True(t, ts.IsZero())
}

func TestTimestampRejectsGarbage(t *testing.T) {
	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"28/08/2026"`), &ts))
	assert.Error(t, json.Unmarshal([]byte(`12345`), &ts))
}

func TestMapDataValidate(t *testing.T) {
	valid := MapData{
		Dams:   []Dam{{ID: "dam_manantali", Name: "Manantali"}},
		Basins: []Basin{{ID: "basin_upper", Name: "Upper Basin", AreaKm2: 1200}},
	}
	require.NoError(t, valid.Validate())

	missingDamID := MapData{Dams: []Dam{{Name: "Manantali"}}}
	assert.Error(t, missingDamID.Validate())

	zeroArea := MapData{Basins: []Basin{{ID: "basin_upper", AreaKm2: 0}}}
	assert.Error(t, zeroArea.Validate())
}

func TestAlertListValidate(t *testing.T) {
	require.NoError(t, AlertList{{AlertID: "a1", AlertType: "flood"}}.Validate())
	assert.Error(t, AlertList{{AlertID: "a1"}}.Validate())
	require.NoError(t, AlertList{}.Validate())
}
