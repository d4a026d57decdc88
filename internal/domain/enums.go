package domain

type PublishStatus string

const (
	PublishDraft    PublishStatus = "draft"
	PublishActive   PublishStatus = "active"
	PublishArchived PublishStatus = "archived"
)

type TimingClass string

const (
	TimingOpening      TimingClass = "opening"
	TimingAnytime      TimingClass = "anytime"
	TimingBeforeCutoff TimingClass = "before_cutoff"
	TimingClosing      TimingClass = "closing"
)

type InstanceStatus string

const (
	StatusNotDue   InstanceStatus = "not_due"
	StatusDueToday InstanceStatus = "due_today"
	StatusOverdue  InstanceStatus = "overdue"
	StatusMissed   InstanceStatus = "missed"
	StatusDone     InstanceStatus = "done"
)

// Open reports whether the status still expects work: anything that is
// neither done nor missed.
func (s InstanceStatus) Open() bool {
	return s == StatusNotDue || s == StatusDueToday || s == StatusOverdue
}

type RuleKind string

const (
	RuleOnceOff          RuleKind = "once_off"
	RuleEveryNDays       RuleKind = "every_n_days"
	RuleSpecificWeekdays RuleKind = "specific_weekdays"
	RuleStartOfMonth     RuleKind = "start_of_month"
	RuleEndOfMonth       RuleKind = "end_of_month"
	RuleEveryMonth       RuleKind = "every_month"
	RuleCertainMonths    RuleKind = "certain_months"
)

// ValidTimingClasses is the canonical set of accepted timing class strings.
var ValidTimingClasses = map[TimingClass]bool{
	TimingOpening: true, TimingAnytime: true,
	TimingBeforeCutoff: true, TimingClosing: true,
}
