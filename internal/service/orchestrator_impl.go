package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hjaltland/rota/internal/domain"
	"github.com/hjaltland/rota/internal/repository"
)

type orchestrator struct {
	generator GenerationService
	statuses  StatusService
	tasks     repository.MasterTaskRepo
	instances repository.InstanceRepo
	settings  repository.SettingsRepo
	clock     domain.Clock
}

// NewOrchestrator composes the generator and status engine into the bulk
// daily run.
func NewOrchestrator(
	generator GenerationService,
	statuses StatusService,
	tasks repository.MasterTaskRepo,
	instances repository.InstanceRepo,
	settings repository.SettingsRepo,
	clock domain.Clock,
) OrchestratorService {
	return &orchestrator{
		generator: generator,
		statuses:  statuses,
		tasks:     tasks,
		instances: instances,
		settings:  settings,
		clock:     clock,
	}
}

// RunBulkGeneration processes the configured look-behind/look-ahead window
// around baseDate, one date at a time. Re-invoking it for an
// already-processed date is safe: the generator's unique key turns repeats
// into skips.
func (o *orchestrator) RunBulkGeneration(ctx context.Context, baseDate time.Time, opts BulkOptions) ([]DateSummary, error) {
	baseDate = domain.DateOnly(baseDate)

	settings, err := o.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	from := baseDate.AddDate(0, 0, -settings.LookBehindDays)
	to := baseDate.AddDate(0, 0, settings.LookAheadDays)
	suppressWrites := opts.DryRun || opts.TestMode

	var summaries []DateSummary
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return summaries, err
		}

		genRes, err := o.generator.GenerateForDate(ctx, date, GenerateOptions{
			ForceRegenerate: opts.ForceRegenerate,
			DryRun:          suppressWrites,
			Now:             opts.Now,
		})
		if err != nil {
			return summaries, err
		}

		statusRes, err := o.statuses.UpdateStatusesForDate(ctx, date, StatusOptions{
			DryRun: suppressWrites,
			Now:    opts.Now,
		})
		if err != nil {
			return summaries, err
		}

		carries, err := o.countCarries(ctx, date)
		if err != nil {
			return summaries, err
		}

		onDate, err := o.instances.ListByDate(ctx, date)
		if err != nil {
			return summaries, fmt.Errorf("listing instances: %w", err)
		}
		total := len(onDate) + carries
		if suppressWrites {
			total += genRes.Created
		}

		summaries = append(summaries, DateSummary{
			Date:           date,
			TotalTasks:     genRes.TotalTasks,
			NewInstances:   genRes.Created,
			CarryInstances: carries,
			TotalInstances: total,
			Errors:         genRes.Errors + statusRes.Errors,
		})
	}
	return summaries, nil
}

// countCarries counts still-open prior-date instances that stay visible on
// date without being regenerated: before-cutoff and closing work whose
// missed boundary has not yet passed.
func (o *orchestrator) countCarries(ctx context.Context, date time.Time) (int, error) {
	open, err := o.instances.ListOpenBefore(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("listing carry candidates: %w", err)
	}

	taskCache := map[string]*domain.MasterTask{}
	carries := 0
	for _, inst := range open {
		task, ok := taskCache[inst.MasterTaskID]
		if !ok {
			task, err = o.tasks.GetByID(ctx, inst.MasterTaskID)
			if err != nil {
				return 0, err
			}
			taskCache[inst.MasterTaskID] = task
		}
		if task.TimingClass == domain.TimingBeforeCutoff || task.TimingClass == domain.TimingClosing {
			carries++
		}
	}
	return carries, nil
}
