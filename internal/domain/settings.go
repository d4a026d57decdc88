package domain

import (
	"fmt"
	"time"
)

// Settings carries the externally-administered knobs the engine depends on.
// It is threaded explicitly through every evaluator and status-engine call;
// nothing in this module reads process-wide mutable state.
type Settings struct {
	WorkingDays       []time.Weekday
	NewTaskCutoffHour int

	// MissedCutoff is the time of day after which an incomplete
	// before_cutoff or closing instance is reclassified overdue.
	MissedCutoff DueTime

	// ShiftEnd is the end-of-shift boundary used as the overdue cutoff for
	// opening tasks.
	ShiftEnd DueTime

	// MissedGraceDays delays the overdue->missed day rollover per timing
	// class. Zero means the instance goes missed at the first midnight
	// after its due date.
	MissedGraceDays map[TimingClass]int

	LookAheadDays  int
	LookBehindDays int

	HolidayPushForward bool

	Timezone string
}

// DefaultSettings mirrors the seeded settings row.
func DefaultSettings() *Settings {
	return &Settings{
		WorkingDays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		},
		NewTaskCutoffHour:  10,
		MissedCutoff:       DueTime(17 * 60),
		ShiftEnd:           DueTime(11 * 60),
		MissedGraceDays:    map[TimingClass]int{},
		LookAheadDays:      0,
		LookBehindDays:     7,
		HolidayPushForward: true,
		Timezone:           "UTC",
	}
}

// Location resolves the configured timezone identifier.
func (s *Settings) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", s.Timezone, ErrValidation)
	}
	return loc, nil
}

// IsWorkingDay reports whether w is in the configured working-day set.
func (s *Settings) IsWorkingDay(w time.Weekday) bool {
	for _, d := range s.WorkingDays {
		if d == w {
			return true
		}
	}
	return false
}

// GraceDays returns the overdue->missed rollover grace for a timing class.
func (s *Settings) GraceDays(class TimingClass) int {
	if s.MissedGraceDays == nil {
		return 0
	}
	return s.MissedGraceDays[class]
}
