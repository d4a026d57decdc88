package domain

import (
	"fmt"
	"time"
)

// RecurrenceRule is a closed tagged variant. Kind selects the variant and
// the remaining fields carry its payload; fields irrelevant to the kind are
// ignored. Unknown kinds are rejected at the boundary by Validate.
type RecurrenceRule struct {
	Kind             RuleKind
	IntervalDays     int // every_n_days
	BusinessDaysOnly bool
	Weekdays         []time.Weekday // specific_weekdays
	Months           []time.Month   // certain_months
}

// Validate checks the rule payload for its kind. The switch is exhaustive
// over the declared kinds; anything else is a validation error.
func (r RecurrenceRule) Validate() error {
	switch r.Kind {
	case RuleOnceOff, RuleStartOfMonth, RuleEndOfMonth, RuleEveryMonth:
		return nil
	case RuleEveryNDays:
		if r.IntervalDays < 1 {
			return fmt.Errorf("every_n_days interval must be >= 1, got %d: %w", r.IntervalDays, ErrValidation)
		}
		return nil
	case RuleSpecificWeekdays:
		if len(r.Weekdays) == 0 {
			return fmt.Errorf("specific_weekdays requires at least one weekday: %w", ErrValidation)
		}
		for _, w := range r.Weekdays {
			if w < time.Sunday || w > time.Saturday {
				return fmt.Errorf("invalid weekday %d: %w", w, ErrValidation)
			}
		}
		return nil
	case RuleCertainMonths:
		if len(r.Months) == 0 {
			return fmt.Errorf("certain_months requires at least one month: %w", ErrValidation)
		}
		for _, m := range r.Months {
			if m < time.January || m > time.December {
				return fmt.Errorf("invalid month %d: %w", m, ErrValidation)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown rule kind %q: %w", r.Kind, ErrValidation)
	}
}

// HasWeekday reports whether w is in the rule's weekday set.
func (r RecurrenceRule) HasWeekday(w time.Weekday) bool {
	for _, d := range r.Weekdays {
		if d == w {
			return true
		}
	}
	return false
}

// HasMonth reports whether m is in the rule's month set.
func (r RecurrenceRule) HasMonth(m time.Month) bool {
	for _, v := range r.Months {
		if v == m {
			return true
		}
	}
	return false
}
