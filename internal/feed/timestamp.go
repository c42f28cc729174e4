// FeedRank - Personalized Feed Ranking and Selection
// Copyright 2026 Driftlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlab/feedrank

package feed

import (
	"bytes"
	"strconv"
	"time"
)

// Timestamp is a time.Time that unmarshals from the timestamp shapes the
// upstream query layer emits: RFC3339, a bare "2006-01-02 15:04:05" string
// without a zone (treated as UTC), or epoch seconds as a JSON number.
// Unparseable input decodes to the zero value rather than failing the
// batch; consumers substitute a safe default.
type Timestamp struct {
	time.Time
}

// timestampLayouts are tried in order for string input. Layouts without a
// zone are parsed in UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// NewTimestamp wraps a time.Time.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// UnmarshalJSON implements json.Unmarshaler with lenient parsing.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	if data[0] == '"' {
		s := string(bytes.Trim(data, `"`))
		t.Time = parseTimestampString(s)
		return nil
	}

	// Epoch seconds; fractional values carry sub-second precision.
	if f, err := strconv.ParseFloat(string(data), 64); err == nil {
		sec := int64(f)
		nsec := int64((f - float64(sec)) * float64(time.Second))
		t.Time = time.Unix(sec, nsec).UTC()
		return nil
	}

	t.Time = time.Time{}
	return nil
}

// MarshalJSON renders RFC3339 in UTC, or null for the zero value.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.UTC().Format(time.RFC3339) + `"`), nil
}

// parseTimestampString tries the known layouts, zoneless ones in UTC.
func parseTimestampString(s string) time.Time {
	for _, layout := range timestampLayouts {
		var parsed time.Time
		var err error
		if layoutHasZone(layout) {
			parsed, err = time.Parse(layout, s)
		} else {
			parsed, err = time.ParseInLocation(layout, s, time.UTC)
		}
		if err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func layoutHasZone(layout string) bool {
	return layout == time.RFC3339 || layout == time.RFC3339Nano
}
