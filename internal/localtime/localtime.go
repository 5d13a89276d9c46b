// Package localtime resolves the clinic API's ambiguous timestamp
// convention. The upstream sometimes suffixes timestamps with "Z" even
// though the value is a naive local wall-clock time, not UTC. Every place
// that displays or buckets a slot time must go through Parse, or the same
// slot ends up on different calendar days in different views.
package localtime

import (
	"fmt"
	"strings"
	"time"
)

var layouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Parse reads an upstream timestamp as local wall-clock time. A trailing
// "Z" is stripped rather than honored: the marker is a known upstream data
// inconsistency, so "2025-10-08T08:00:00Z" and "2025-10-08T08:00:00" both
// mean 08:00 local on Oct 8. Correcting the convention here would shift
// every displayed time.
func Parse(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "Z")

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}

// DateKey returns the calendar date portion, local time, as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// TimeLabel returns the wall-clock time as zero-padded 24-hour HH:MM.
func TimeLabel(t time.Time) string {
	return t.Format("15:04")
}

// Combine places the wall-clock time of clock onto the calendar date of
// day. Appointments carry their date and their slot's time separately.
func Combine(day, clock time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), 0, 0, time.Local)
}
