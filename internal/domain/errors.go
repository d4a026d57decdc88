package domain

import "errors"

var (
	// ErrValidation indicates malformed date or rule input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates an unknown master task, instance or settings row.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a duplicate-instance race on the unique
	// (master_task_id, instance_date) key.
	ErrConflict = errors.New("conflict")

	// ErrStoreUnavailable indicates the instance store or holiday calendar
	// could not be reached.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrLocked indicates a missed instance rejecting edits while its
	// master task disallows editing when locked.
	ErrLocked = errors.New("instance locked")
)
