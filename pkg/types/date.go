package types

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used across the API (YYYY-MM-DD)
const DateLayout = "2006-01-02"

// ParseDate parses YYYY-MM-DD into a calendar day at UTC midnight
func ParseDate(s string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOnly(parsed), nil
}

// DateOnly keeps the year/month/day components of t exactly as they are
// in t's own location and returns them at UTC midnight.
// The instant is never converted, so a day picked in one zone stays the same day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
