// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/finance-planner/pkg/constants"
)

const (
	// DateLayout is the format expected for sample dates in plan files and
	// API payloads.
	DateLayout = constants.DateLayout

	hoursPerDay   = 24
	daysPerMonth  = constants.DaysPerYear / constants.MonthsPerYear
	rfc3339Prefix = len("2006-01-02")
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDate parses a calendar date. Full RFC 3339 timestamps are accepted
// and truncated to their date.
func ParseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) > rfc3339Prefix && trimmed[rfc3339Prefix] == 'T' {
		trimmed = trimmed[:rfc3339Prefix]
	}
	t, err := time.Parse(DateLayout, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected %s", value, DateLayout)
	}
	return t, nil
}

// DaysBetween returns the whole days from start to end (negative if end is earlier).
func DaysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / hoursPerDay)
}

// MonthsBetween returns the elapsed time from start to end in average-length months.
func MonthsBetween(start, end time.Time) float64 {
	return float64(DaysBetween(start, end)) / daysPerMonth
}
