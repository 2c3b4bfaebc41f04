package domain

import (
	"fmt"
	"time"
)

// DateLayout is the canonical date-key format used on the wire and in the cache
const DateLayout = "2006-01-02"

// Epoch is the earliest day content exists for
var Epoch = time.Date(1995, time.June, 16, 0, 0, 0, 0, time.UTC)

// Day truncates t to its calendar day (in t's own location) at UTC midnight
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// FormatDate renders the canonical YYYY-MM-DD key for t's calendar day
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a canonical YYYY-MM-DD key into a UTC-midnight day
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Clock provides the current wall-clock time
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock returns the process wall clock
func SystemClock() Clock {
	return ClockFunc(time.Now)
}

// Today returns the clock's current calendar day
func Today(c Clock) time.Time {
	return Day(c.Now())
}
