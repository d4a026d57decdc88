package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hjaltland/rota/internal/domain"
	"github.com/hjaltland/rota/internal/lifecycle"
	"github.com/hjaltland/rota/internal/recurrence"
	"github.com/hjaltland/rota/internal/repository"
)

// Options controls a generation run.
type Options struct {
	// ForceRegenerate recomputes due fields on existing instances instead
	// of skipping them. Completion state is preserved.
	ForceRegenerate bool
	// DryRun evaluates everything without persisting and returns the
	// would-be instances.
	DryRun bool
}

// PairError records a failure on one (task, date) pair. Pair failures never
// abort the batch; they are counted and surfaced.
type PairError struct {
	TaskID string
	Date   time.Time
	Err    error
}

func (e PairError) Error() string {
	return fmt.Sprintf("task %s on %s: %v", e.TaskID, e.Date.Format("2006-01-02"), e.Err)
}

// Result is the outcome of a generation run. Success is Errors == 0.
type Result struct {
	Created   int
	Skipped   int
	Errors    int
	Instances []*domain.TaskInstance
	Failures  []PairError
}

// Generator drives the recurrence evaluator across a date range and task
// set and creates instances idempotently: the store's unique
// (master_task_id, instance_date) key makes repeated or concurrent runs
// converge on the same instance set.
type Generator struct {
	instances repository.InstanceRepo
	evaluator *recurrence.Evaluator
	policy    lifecycle.Policy
	clock     domain.Clock
}

func NewGenerator(
	instances repository.InstanceRepo,
	evaluator *recurrence.Evaluator,
	policy lifecycle.Policy,
	clock domain.Clock,
) *Generator {
	return &Generator{
		instances: instances,
		evaluator: evaluator,
		policy:    policy,
		clock:     clock,
	}
}

// Generate evaluates every (task, date) pair in [from, to] and creates the
// due instances. Cancelling ctx aborts further pairs; already-committed
// pairs stay committed, since each one commits atomically on its own.
func (g *Generator) Generate(ctx context.Context, tasks []*domain.MasterTask, from, to time.Time, opts Options) (*Result, error) {
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	if to.Before(from) {
		return nil, fmt.Errorf("date range %s..%s is inverted: %w",
			from.Format("2006-01-02"), to.Format("2006-01-02"), domain.ErrValidation)
	}

	res := &Result{}
	// stickySeen records sticky tasks satisfied earlier in this run: later
	// dates skip them without re-querying the store, and dry runs predict
	// the set a real run would persist.
	stickySeen := map[string]bool{}
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		for _, task := range tasks {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			g.generatePair(ctx, task, date, opts, res, stickySeen)
		}
	}
	return res, nil
}

// GenerateForDate is Generate over a single-day range.
func (g *Generator) GenerateForDate(ctx context.Context, tasks []*domain.MasterTask, date time.Time, opts Options) (*Result, error) {
	return g.Generate(ctx, tasks, date, date, opts)
}

func (g *Generator) generatePair(ctx context.Context, task *domain.MasterTask, date time.Time, opts Options, res *Result, stickySeen map[string]bool) {
	occurs, err := g.evaluator.OccursOn(task, date)
	if err != nil {
		res.fail(task.ID, date, err)
		return
	}
	if !occurs {
		return
	}

	// Sticky tasks are checked for existence globally, not per date.
	if task.StickyOnceOff {
		if stickySeen[task.ID] {
			res.Skipped++
			return
		}
		exists, err := g.instances.ExistsForTask(ctx, task.ID)
		if err != nil {
			res.fail(task.ID, date, err)
			return
		}
		if exists {
			stickySeen[task.ID] = true
			res.Skipped++
			return
		}
	}

	existing, err := g.instances.GetByTaskAndDate(ctx, task.ID, date)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		res.fail(task.ID, date, err)
		return
	}

	if existing != nil {
		if !opts.ForceRegenerate {
			res.Skipped++
			return
		}
		g.regenerate(ctx, task, date, existing, opts, res)
		return
	}

	inst := g.buildInstance(task, date)
	if opts.DryRun {
		if task.StickyOnceOff {
			stickySeen[task.ID] = true
		}
		res.Created++
		res.Instances = append(res.Instances, inst)
		return
	}
	if err := g.instances.Create(ctx, inst); err != nil {
		// A concurrent run won the unique key; the instance exists, which
		// is the outcome we wanted.
		if errors.Is(err, domain.ErrConflict) {
			if task.StickyOnceOff {
				stickySeen[task.ID] = true
			}
			res.Skipped++
			return
		}
		res.fail(task.ID, date, err)
		return
	}
	if task.StickyOnceOff {
		stickySeen[task.ID] = true
	}
	res.Created++
	res.Instances = append(res.Instances, inst)
}

// regenerate recomputes due fields on an existing instance while
// preserving its completion state.
func (g *Generator) regenerate(ctx context.Context, task *domain.MasterTask, date time.Time, existing *domain.TaskInstance, opts Options, res *Result) {
	now := g.clock.Now()
	existing.DueDate = domain.DateOnly(date)
	existing.DueTime = task.DueTime
	if existing.Status != domain.StatusDone {
		existing.Status = lifecycle.Compute(lifecycle.Input{
			DueDate:     existing.DueDate,
			DueTime:     existing.DueTime,
			TimingClass: task.TimingClass,
			Now:         now,
		}, g.policy)
	}
	existing.UpdatedAt = now.UTC()

	if opts.DryRun {
		res.Created++
		res.Instances = append(res.Instances, existing)
		return
	}
	if err := g.instances.Update(ctx, existing); err != nil {
		res.fail(task.ID, date, err)
		return
	}
	res.Created++
	res.Instances = append(res.Instances, existing)
}

func (g *Generator) buildInstance(task *domain.MasterTask, date time.Time) *domain.TaskInstance {
	now := g.clock.Now()
	status := lifecycle.Compute(lifecycle.Input{
		DueDate:     date,
		DueTime:     task.DueTime,
		TimingClass: task.TimingClass,
		Now:         now,
	}, g.policy)

	return &domain.TaskInstance{
		ID:           uuid.New().String(),
		MasterTaskID: task.ID,
		InstanceDate: date,
		DueDate:      date,
		DueTime:      task.DueTime,
		Status:       status,
		CreatedAt:    now.UTC(),
		UpdatedAt:    now.UTC(),
	}
}

func (r *Result) fail(taskID string, date time.Time, err error) {
	r.Errors++
	r.Failures = append(r.Failures, PairError{TaskID: taskID, Date: date, Err: err})
}
