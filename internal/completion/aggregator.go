package completion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hjaltland/rota/internal/db"
	"github.com/hjaltland/rota/internal/domain"
	"github.com/hjaltland/rota/internal/lifecycle"
	"github.com/hjaltland/rota/internal/repository"
)

// Done reports the instance-level aggregate: every required position must
// hold an active completion. It is recomputed from the full completion set
// on every call, never cached.
func Done(required []string, completions []*domain.PositionCompletion) bool {
	if len(required) == 0 {
		return false
	}
	active := make(map[string]bool, len(completions))
	for _, c := range completions {
		if c.Active() {
			active[c.PositionID] = true
		}
	}
	for _, pos := range required {
		if !active[pos] {
			return false
		}
	}
	return true
}

// Aggregator reconciles per-position completion records into one instance
// status. Each completion action commits atomically: the record toggle and
// the derived status land in the same transaction.
type Aggregator struct {
	uow    db.UnitOfWork
	policy lifecycle.Policy
	clock  domain.Clock
}

func NewAggregator(uow db.UnitOfWork, policy lifecycle.Policy, clock domain.Clock) *Aggregator {
	return &Aggregator{uow: uow, policy: policy, clock: clock}
}

// RecordCompletion marks one position complete or incomplete and returns
// the resulting aggregate status. Undoing a completion demotes the status
// to whatever the lifecycle engine computes for the current time, not
// directly to not_due, and leaves other positions' records untouched.
func (a *Aggregator) RecordCompletion(ctx context.Context, instanceID, positionID string, completed bool, actor string) (domain.InstanceStatus, error) {
	if positionID == "" {
		return "", fmt.Errorf("position id is required: %w", domain.ErrValidation)
	}

	var status domain.InstanceStatus
	err := a.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		instances := repository.NewSQLiteInstanceRepo(tx)
		tasks := repository.NewSQLiteMasterTaskRepo(tx)
		completions := repository.NewSQLiteCompletionRepo(tx)

		inst, err := instances.GetByID(ctx, instanceID)
		if err != nil {
			return err
		}
		task, err := tasks.GetByID(ctx, inst.MasterTaskID)
		if err != nil {
			return err
		}
		if !responsible(task, positionID) {
			return fmt.Errorf("position %s is not responsible for task %s: %w",
				positionID, task.ID, domain.ErrValidation)
		}

		now := a.clock.Now()
		records, err := completions.ListByInstance(ctx, instanceID)
		if err != nil {
			return err
		}

		// Locking: a missed instance rejects edits unless the master task
		// allows them. The check uses the time-derived state, not the
		// possibly stale cached column.
		current := lifecycle.Compute(lifecycle.Input{
			DueDate:     inst.DueDate,
			DueTime:     inst.DueTime,
			TimingClass: task.TimingClass,
			Completed:   Done(task.Responsibility, records),
			Now:         now,
		}, a.policy)
		if !lifecycle.CanEdit(current, task.AllowEditWhenLocked) {
			return fmt.Errorf("instance %s is missed: %w", instanceID, domain.ErrLocked)
		}

		records, err = a.toggle(ctx, completions, records, instanceID, positionID, completed, actor, now)
		if err != nil {
			return err
		}

		status = lifecycle.Compute(lifecycle.Input{
			DueDate:     inst.DueDate,
			DueTime:     inst.DueTime,
			TimingClass: task.TimingClass,
			Completed:   Done(task.Responsibility, records),
			Now:         now,
		}, a.policy)

		if status == domain.StatusDone {
			doneAt := now.UTC()
			inst.CompletedAt = &doneAt
			inst.CompletedBy = actor
		} else {
			inst.CompletedAt = nil
			inst.CompletedBy = ""
		}
		inst.Status = status
		inst.UpdatedAt = now.UTC()
		return instances.Update(ctx, inst)
	})
	if err != nil {
		return "", err
	}
	return status, nil
}

// toggle creates the position's record on first action and flips it in
// place afterwards. Records are never deleted.
func (a *Aggregator) toggle(
	ctx context.Context,
	completions repository.CompletionRepo,
	records []*domain.PositionCompletion,
	instanceID, positionID string,
	completed bool,
	actor string,
	now time.Time,
) ([]*domain.PositionCompletion, error) {
	ts := now.UTC()

	var existing *domain.PositionCompletion
	for _, c := range records {
		if c.PositionID == positionID {
			existing = c
			break
		}
	}

	fromSet := existing != nil

	if existing == nil {
		rec := &domain.PositionCompletion{
			ID:          uuid.New().String(),
			InstanceID:  instanceID,
			PositionID:  positionID,
			IsCompleted: completed,
			CreatedAt:   ts,
			UpdatedAt:   ts,
		}
		if completed {
			rec.CompletedAt = &ts
			rec.CompletedBy = actor
		} else {
			rec.UncompletedAt = &ts
		}
		if err := completions.Create(ctx, rec); err != nil {
			// A concurrent action created the row first; re-read and toggle.
			if !errors.Is(err, domain.ErrConflict) {
				return nil, err
			}
			var readErr error
			existing, readErr = completions.GetByInstanceAndPosition(ctx, instanceID, positionID)
			if readErr != nil {
				return nil, readErr
			}
		} else {
			return append(records, rec), nil
		}
	}

	existing.IsCompleted = completed
	existing.UpdatedAt = ts
	if completed {
		existing.CompletedAt = &ts
		existing.CompletedBy = actor
		existing.UncompletedAt = nil
	} else {
		existing.UncompletedAt = &ts
	}
	if err := completions.Update(ctx, existing); err != nil {
		return nil, err
	}
	if !fromSet {
		records = append(records, existing)
	}
	return records, nil
}

func responsible(task *domain.MasterTask, positionID string) bool {
	for _, p := range task.Responsibility {
		if p == positionID {
			return true
		}
	}
	return false
}
