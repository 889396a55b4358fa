// Basinview - River Basin Monitoring and Forecast Visualization
// Copyright 2026 Basinview Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aquamind/basinview

package models

import (
	"fmt"
	"time"
)

// Timestamp is a time.Time that tolerates the timestamp formats the
// prediction platform actually emits. The backend serializes naive ISO-8601
// without a zone designator ("2026-08-28T10:15:00.123456") alongside strict
// RFC 3339, so a plain time.Time field would fail to decode half the payloads.
// Naive timestamps are interpreted as UTC.
type Timestamp struct {
	time.Time
}

// timestampLayouts lists accepted formats in order of preference.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// UnmarshalJSON decodes a JSON string into a Timestamp.
// An empty string or null leaves the zero value.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		t.Time = time.Time{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("timestamp: not a JSON string: %s", s)
	}
	s = s[1 : len(s)-1]

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognized format %q", s)
}

// MarshalJSON encodes the Timestamp as RFC 3339.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + t.UTC().Format(time.RFC3339Nano) + `"`), nil
}
