package domain

import "time"

// MasterTask is a recurring task template owned by administrators. Once a
// task owns instances it is archived, never hard-deleted.
type MasterTask struct {
	ID             string
	Title          string
	Responsibility []string // position identifiers sharing the task
	Categories     []string
	Rule           RecurrenceRule
	TimingClass    TimingClass
	DueTime        DueTime
	PublishStatus  PublishStatus

	// PublishDelayUntil holds generation back until the given date.
	PublishDelayUntil *time.Time

	// Validity window. EndDate nil means open-ended.
	StartDate time.Time
	EndDate   *time.Time

	// StickyOnceOff tasks produce exactly one instance ever, regardless of
	// how many dates are scanned.
	StickyOnceOff bool

	AllowEditWhenLocked bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WindowContains reports whether date falls inside the task's validity window.
func (t *MasterTask) WindowContains(date time.Time) bool {
	d := DateOnly(date)
	if d.Before(DateOnly(t.StartDate)) {
		return false
	}
	if t.EndDate != nil && d.After(DateOnly(*t.EndDate)) {
		return false
	}
	return true
}

// GenerationEligible reports whether the task may produce an instance on
// date: it must be active and its publish delay, if any, must have passed.
func (t *MasterTask) GenerationEligible(date time.Time) bool {
	if t.PublishStatus != PublishActive {
		return false
	}
	if t.PublishDelayUntil != nil && DateOnly(date).Before(DateOnly(*t.PublishDelayUntil)) {
		return false
	}
	return true
}

// DateOnly truncates a timestamp to midnight UTC, the canonical form for
// instance and comparison dates.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether two timestamps fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}
