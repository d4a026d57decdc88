package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/hjaltland/rota/internal/domain"
)

// MasterTask options
type TaskOption func(*domain.MasterTask)

func WithRule(r domain.RecurrenceRule) TaskOption {
	return func(t *domain.MasterTask) {
		t.Rule = r
	}
}

func WithResponsibility(positions ...string) TaskOption {
	return func(t *domain.MasterTask) {
		t.Responsibility = positions
	}
}

func WithTimingClass(c domain.TimingClass) TaskOption {
	return func(t *domain.MasterTask) {
		t.TimingClass = c
	}
}

func WithDueTime(s string) TaskOption {
	return func(t *domain.MasterTask) {
		t.DueTime = domain.MustDueTime(s)
	}
}

func WithPublishStatus(s domain.PublishStatus) TaskOption {
	return func(t *domain.MasterTask) {
		t.PublishStatus = s
	}
}

func WithPublishDelay(d time.Time) TaskOption {
	return func(t *domain.MasterTask) {
		t.PublishDelayUntil = &d
	}
}

func WithStartDate(d time.Time) TaskOption {
	return func(t *domain.MasterTask) {
		t.StartDate = d
	}
}

func WithEndDate(d time.Time) TaskOption {
	return func(t *domain.MasterTask) {
		t.EndDate = &d
	}
}

func WithSticky() TaskOption {
	return func(t *domain.MasterTask) {
		t.StickyOnceOff = true
	}
}

func WithAllowEditWhenLocked() TaskOption {
	return func(t *domain.MasterTask) {
		t.AllowEditWhenLocked = true
	}
}

// NewTestTask builds an active daily task starting 2025-01-01, due 09:00,
// owned by one position.
func NewTestTask(title string, opts ...TaskOption) *domain.MasterTask {
	now := time.Now().UTC()
	t := &domain.MasterTask{
		ID:             uuid.New().String(),
		Title:          title,
		Responsibility: []string{"duty-manager"},
		Rule:           domain.RecurrenceRule{Kind: domain.RuleEveryNDays, IntervalDays: 1},
		TimingClass:    domain.TimingBeforeCutoff,
		DueTime:        domain.MustDueTime("09:00"),
		PublishStatus:  domain.PublishActive,
		StartDate:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewTestInstance builds an instance for the given task and date.
func NewTestInstance(task *domain.MasterTask, date time.Time, status domain.InstanceStatus) *domain.TaskInstance {
	now := time.Now().UTC()
	return &domain.TaskInstance{
		ID:           uuid.New().String(),
		MasterTaskID: task.ID,
		InstanceDate: domain.DateOnly(date),
		DueDate:      domain.DateOnly(date),
		DueTime:      task.DueTime,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewTestHoliday builds a holiday entry.
func NewTestHoliday(date time.Time, name string) *domain.Holiday {
	return &domain.Holiday{Date: domain.DateOnly(date), Name: name}
}
