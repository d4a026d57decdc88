package recurrence

import (
	"fmt"
	"time"

	"github.com/hjaltland/rota/internal/domain"
)

// maxShiftWalk bounds the holiday push-forward scan. Holiday runs longer
// than a month would indicate corrupt calendar data.
const maxShiftWalk = 31

// Calendar is the read-only holiday list the evaluator consults.
type Calendar interface {
	IsHoliday(date time.Time) bool
}

// Evaluator decides whether a task's recurrence rule produces an occurrence
// on a candidate date. It is a pure function of its inputs: the working-day
// set, the holiday calendar and the push-forward flag are injected from the
// settings provider, never read from ambient state.
type Evaluator struct {
	workingDays map[time.Weekday]bool
	calendar    Calendar
	pushForward bool
}

func NewEvaluator(settings *domain.Settings, calendar Calendar) *Evaluator {
	days := make(map[time.Weekday]bool, len(settings.WorkingDays))
	for _, d := range settings.WorkingDays {
		days[d] = true
	}
	return &Evaluator{
		workingDays: days,
		calendar:    calendar,
		pushForward: settings.HolidayPushForward,
	}
}

// OccursOn reports whether task has an occurrence on date. Draft and
// archived tasks, and dates outside the validity window, never occur
// regardless of rule shape.
func (e *Evaluator) OccursOn(task *domain.MasterTask, date time.Time) (bool, error) {
	if err := task.Rule.Validate(); err != nil {
		return false, err
	}
	if !task.GenerationEligible(date) {
		return false, nil
	}

	date = domain.DateOnly(date)
	if !task.WindowContains(date) {
		return false, nil
	}

	natural, err := e.naturalOccurrence(task, date)
	if err != nil {
		return false, err
	}
	if natural {
		// A holiday occurrence is shifted away from the original date when
		// push-forward is enabled, so it must not be produced here too.
		if e.pushForward && e.isHoliday(date) {
			return false, nil
		}
		return true, nil
	}

	if e.pushForward {
		return e.shiftedOnto(task, date)
	}
	return false, nil
}

// shiftedOnto reports whether date receives an occurrence pushed forward
// from an earlier holiday. The push target is the next business day after
// the holiday, so date must be a business day and every day between the
// holiday and date must be non-business.
func (e *Evaluator) shiftedOnto(task *domain.MasterTask, date time.Time) (bool, error) {
	if !e.isBusinessDay(date) {
		return false, nil
	}
	d := date.AddDate(0, 0, -1)
	for steps := 0; steps < maxShiftWalk && !e.isBusinessDay(d); steps++ {
		if e.isHoliday(d) && task.WindowContains(d) && task.GenerationEligible(d) {
			raw, err := e.rawOccurrence(task, d)
			if err != nil {
				return false, err
			}
			if raw {
				return true, nil
			}
		}
		d = d.AddDate(0, 0, -1)
	}
	return false, nil
}

// naturalOccurrence applies the rule including its business-day constraint.
func (e *Evaluator) naturalOccurrence(task *domain.MasterTask, date time.Time) (bool, error) {
	raw, err := e.rawOccurrence(task, date)
	if err != nil || !raw {
		return false, err
	}
	if task.Rule.Kind == domain.RuleEveryNDays && task.Rule.BusinessDaysOnly && !e.isBusinessDay(date) {
		return false, nil
	}
	return true, nil
}

// rawOccurrence applies the rule's date arithmetic without the business-day
// filter. The push-forward walk uses it to find occurrences that computed
// onto a holiday.
func (e *Evaluator) rawOccurrence(task *domain.MasterTask, date time.Time) (bool, error) {
	rule := task.Rule
	start := domain.DateOnly(task.StartDate)

	switch rule.Kind {
	case domain.RuleOnceOff:
		return date.Equal(start), nil

	case domain.RuleEveryNDays:
		days := int(date.Sub(start).Hours() / 24)
		if days < 0 {
			return false, nil
		}
		return days%rule.IntervalDays == 0, nil

	case domain.RuleSpecificWeekdays:
		return rule.HasWeekday(date.Weekday()), nil

	case domain.RuleStartOfMonth:
		return date.Day() == 1, nil

	case domain.RuleEndOfMonth:
		return date.Day() == daysInMonth(date), nil

	case domain.RuleEveryMonth:
		return date.Day() == anchorDay(start, date), nil

	case domain.RuleCertainMonths:
		if !rule.HasMonth(date.Month()) {
			return false, nil
		}
		return date.Day() == anchorDay(start, date), nil

	default:
		return false, fmt.Errorf("unknown rule kind %q: %w", rule.Kind, domain.ErrValidation)
	}
}

func (e *Evaluator) isHoliday(date time.Time) bool {
	return e.calendar != nil && e.calendar.IsHoliday(date)
}

func (e *Evaluator) isBusinessDay(date time.Time) bool {
	return e.workingDays[date.Weekday()] && !e.isHoliday(date)
}

// daysInMonth returns the length of date's month, computed as
// next-month-minus-one so leap years fall out correctly.
func daysInMonth(date time.Time) int {
	firstOfNext := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1).Day()
}

// anchorDay is the start date's day-of-month clamped to the target month.
func anchorDay(start, date time.Time) int {
	day := start.Day()
	if max := daysInMonth(date); day > max {
		return max
	}
	return day
}
