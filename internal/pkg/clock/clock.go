// Package clock provides the calendar arithmetic used for event dates.
//
// Event dates are calendar days stored as midnight UTC; start times are offsets from
// midnight. "Now" is always read on the wall clock of the configured time zone.
package clock

import (
	"fmt"
	"time"
)

// Layouts used across the API
const (
	DateLayout            = "2006-01-02"
	TimeOfDayLayout       = "15:04"
	CertificateDateLayout = "January 02, 2006"
)

// Clock returns the current time
type Clock func() time.Time

// InLocation returns a clock reading the system time in loc
func InLocation(loc *time.Location) Clock {
	return func() time.Time {
		return time.Now().In(loc)
	}
}

// Fixed returns a clock that always reads t
func Fixed(t time.Time) Clock {
	return func() time.Time {
		return t
	}
}

// DateOf returns the calendar date of t, read in t's own location, as midnight UTC
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TimeOfDay returns how far t is past midnight on its own wall clock
func TimeOfDay(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second + time.Duration(t.Nanosecond())
}

// ParseDate parses a YYYY-MM-DD date
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS" into an offset from midnight
func ParseTimeOfDay(s string) (time.Duration, error) {
	for _, layout := range []string{TimeOfDayLayout, "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDay(t), nil
		}
	}
	return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
}

// FormatTimeOfDay renders an offset from midnight as HH:MM
func FormatTimeOfDay(d time.Duration) string {
	return time.Time{}.Add(d).Format(TimeOfDayLayout)
}
