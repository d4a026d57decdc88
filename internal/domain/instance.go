package domain

import "time"

// TaskInstance is one dated occurrence materialized from a MasterTask.
// Instances are unique per (master_task_id, instance_date) and are never
// deleted; they carry the audit history of the occurrence.
type TaskInstance struct {
	ID           string
	MasterTaskID string
	InstanceDate time.Time
	DueDate      time.Time
	DueTime      DueTime
	Status       InstanceStatus
	CompletedAt  *time.Time
	CompletedBy  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PositionCompletion is a per-position completion marker on a TaskInstance.
// Records are toggled on undo, never deleted.
type PositionCompletion struct {
	ID            string
	InstanceID    string
	PositionID    string
	IsCompleted   bool
	CompletedAt   *time.Time
	CompletedBy   string
	UncompletedAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Active reports whether the completion currently counts toward the
// instance aggregate.
func (c *PositionCompletion) Active() bool {
	return c.IsCompleted
}

// Holiday is one entry in the externally-owned holiday calendar.
type Holiday struct {
	Date   time.Time
	Name   string
	Region string
}
