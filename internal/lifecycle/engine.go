package lifecycle

import (
	"time"

	"github.com/hjaltland/rota/internal/domain"
)

// Policy carries the time rules a status computation depends on. It is
// built from the settings provider and threaded explicitly; the engine
// never reads machine-local time or timezone.
type Policy struct {
	Location *time.Location

	// MissedCutoff is the overdue boundary for before_cutoff and closing
	// tasks; ShiftEnd is the overdue boundary for opening tasks.
	MissedCutoff domain.DueTime
	ShiftEnd     domain.DueTime

	// GraceDays delays the missed rollover per timing class. The rollover
	// itself is the first midnight after the due date plus grace.
	GraceDays map[domain.TimingClass]int
}

// PolicyFromSettings resolves a Policy from stored settings.
func PolicyFromSettings(s *domain.Settings) (Policy, error) {
	loc, err := s.Location()
	if err != nil {
		return Policy{}, err
	}
	return Policy{
		Location:     loc,
		MissedCutoff: s.MissedCutoff,
		ShiftEnd:     s.ShiftEnd,
		GraceDays:    s.MissedGraceDays,
	}, nil
}

// Input is everything a status computation needs. Completed is the
// position aggregate from the completion set, not the cached instance
// status.
type Input struct {
	DueDate     time.Time
	DueTime     domain.DueTime
	TimingClass domain.TimingClass
	Completed   bool
	Now         time.Time
}

// Compute derives the current status. It is a pure function: repeated or
// concurrent evaluation of the same input converges to the same result,
// and undo simply recomputes from the current time rather than restoring
// a cached prior value.
//
// Absent completion the status only advances within a day:
// not_due -> due_today -> overdue -> missed.
func Compute(in Input, p Policy) domain.InstanceStatus {
	if in.Completed {
		return domain.StatusDone
	}

	now := in.Now.In(p.Location)

	if now.Before(in.DueTime.On(in.DueDate, p.Location)) {
		return domain.StatusNotDue
	}
	if !now.Before(p.missedBoundary(in.TimingClass, in.DueDate)) {
		return domain.StatusMissed
	}
	if cutoff, ok := p.overdueCutoff(in.TimingClass, in.DueDate); ok && !now.Before(cutoff) {
		return domain.StatusOverdue
	}
	return domain.StatusDueToday
}

// CanEdit reports whether an instance in the given status accepts
// completion edits. Missed instances are locked unless the owning master
// task allows editing when locked.
func CanEdit(status domain.InstanceStatus, allowEditWhenLocked bool) bool {
	if status == domain.StatusMissed {
		return allowEditWhenLocked
	}
	return true
}

// overdueCutoff returns the timing-class cutoff on the due date. Anytime
// tasks have no intraday cutoff; they stay due_today until the missed
// rollover.
func (p Policy) overdueCutoff(class domain.TimingClass, dueDate time.Time) (time.Time, bool) {
	switch class {
	case domain.TimingOpening:
		return p.ShiftEnd.On(dueDate, p.Location), true
	case domain.TimingBeforeCutoff, domain.TimingClosing:
		return p.MissedCutoff.On(dueDate, p.Location), true
	default:
		return time.Time{}, false
	}
}

// missedBoundary is the first midnight after the due date plus the timing
// class's grace days, in the configured timezone.
func (p Policy) missedBoundary(class domain.TimingClass, dueDate time.Time) time.Time {
	grace := 0
	if p.GraceDays != nil {
		grace = p.GraceDays[class]
	}
	d := dueDate.AddDate(0, 0, 1+grace)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, p.Location)
}
