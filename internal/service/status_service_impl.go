package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hjaltland/rota/internal/domain"
	"github.com/hjaltland/rota/internal/generation"
	"github.com/hjaltland/rota/internal/lifecycle"
	"github.com/hjaltland/rota/internal/repository"
)

type statusService struct {
	tasks     repository.MasterTaskRepo
	instances repository.InstanceRepo
	settings  repository.SettingsRepo
	clock     domain.Clock
}

func NewStatusService(
	tasks repository.MasterTaskRepo,
	instances repository.InstanceRepo,
	settings repository.SettingsRepo,
	clock domain.Clock,
) StatusService {
	return &statusService{
		tasks:     tasks,
		instances: instances,
		settings:  settings,
		clock:     clock,
	}
}

// UpdateStatusesForDate re-derives the status of every instance dated on
// the given date, plus still-open instances from prior dates (which may
// roll over to missed). The done state is terminal here: it is only left
// by an explicit undo through the completion aggregator.
func (s *statusService) UpdateStatusesForDate(ctx context.Context, date time.Time, opts StatusOptions) (*StatusUpdateResult, error) {
	date = domain.DateOnly(date)

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	policy, err := lifecycle.PolicyFromSettings(settings)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if opts.Now != nil {
		now = *opts.Now
	}

	onDate, err := s.instances.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("listing instances: %w", err)
	}
	carries, err := s.instances.ListOpenBefore(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("listing open instances: %w", err)
	}

	taskCache := map[string]*domain.MasterTask{}
	res := &StatusUpdateResult{Date: date}

	for _, inst := range append(onDate, carries...) {
		res.Examined++
		if inst.Status == domain.StatusDone {
			continue
		}

		task, ok := taskCache[inst.MasterTaskID]
		if !ok {
			task, err = s.tasks.GetByID(ctx, inst.MasterTaskID)
			if err != nil {
				res.Errors++
				res.Failures = append(res.Failures, generation.PairError{
					TaskID: inst.MasterTaskID, Date: inst.InstanceDate, Err: err,
				})
				continue
			}
			taskCache[inst.MasterTaskID] = task
		}

		next := lifecycle.Compute(lifecycle.Input{
			DueDate:     inst.DueDate,
			DueTime:     inst.DueTime,
			TimingClass: task.TimingClass,
			Now:         now,
		}, policy)
		if next == inst.Status {
			continue
		}

		inst.Status = next
		inst.UpdatedAt = now.UTC()
		if !opts.DryRun {
			if err := s.instances.Update(ctx, inst); err != nil {
				res.Errors++
				res.Failures = append(res.Failures, generation.PairError{
					TaskID: inst.MasterTaskID, Date: inst.InstanceDate, Err: err,
				})
				continue
			}
		}
		res.Updated++
	}
	return res, nil
}
