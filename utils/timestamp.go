package utils

import (
	"fmt"
	"strings"
	"time"
)

// ISO 8601 layouts accepted from clients. Layouts without a zone are read as UTC.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// TimestampLayout is the layout encoding/json uses for time.Time, so
// hand-rendered timestamps match the ones serialized from models.
const TimestampLayout = time.RFC3339Nano

func ParseISO8601(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO8601 timestamp %q", s)
}

// SplitTimestamp returns the instant in UTC and the original offset in seconds.
func SplitTimestamp(t time.Time) (time.Time, int) {
	_, offset := t.Zone()
	return t.UTC(), offset
}

// JoinTimestamp restores a stored UTC instant to the offset it was recorded with.
func JoinTimestamp(utc time.Time, offset int) time.Time {
	if offset == 0 {
		return utc.UTC()
	}
	return utc.In(time.FixedZone("", offset))
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseDate reads a YYYY-MM-DD calendar date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}
