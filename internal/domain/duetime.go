package domain

import (
	"fmt"
	"time"
)

// DueTime is a time of day expressed as minutes past midnight.
type DueTime int

// ParseDueTime parses an "HH:MM" string into a DueTime.
func ParseDueTime(s string) (DueTime, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("due time %q must be HH:MM: %w", s, ErrValidation)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("due time %q out of range: %w", s, ErrValidation)
	}
	return DueTime(h*60 + m), nil
}

// MustDueTime parses an "HH:MM" string and panics on failure. Test helper.
func MustDueTime(s string) DueTime {
	d, err := ParseDueTime(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d DueTime) Hour() int   { return int(d) / 60 }
func (d DueTime) Minute() int { return int(d) % 60 }

func (d DueTime) String() string {
	return fmt.Sprintf("%02d:%02d", d.Hour(), d.Minute())
}

// On anchors the time of day to a calendar date in the given location.
func (d DueTime) On(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), d.Hour(), d.Minute(), 0, 0, loc)
}
