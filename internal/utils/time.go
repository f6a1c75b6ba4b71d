package utils

import (
	"fmt"
	"strings"
	"time"
)

// ParseDay parses a calendar day in YYYY-MM-DD form as UTC midnight. Full
// RFC3339 timestamps are accepted and truncated to their UTC day.
func ParseDay(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if t, err := time.Parse(DateLayout, value); err == nil {
		return t.UTC(), nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return StartOfDay(t.UTC()), nil
}

// FormatDay renders the UTC calendar day of t.
func FormatDay(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// SameDay compares the UTC calendar day of two instants.
func SameDay(a, b time.Time) bool {
	return FormatDay(a) == FormatDay(b)
}

// DayBounds returns [start, end) of the UTC calendar day containing t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := StartOfDay(t.UTC())
	return start, start.AddDate(0, 0, 1)
}

func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
