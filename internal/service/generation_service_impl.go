package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hjaltland/rota/internal/domain"
	"github.com/hjaltland/rota/internal/generation"
	"github.com/hjaltland/rota/internal/lifecycle"
	"github.com/hjaltland/rota/internal/recurrence"
	"github.com/hjaltland/rota/internal/repository"
)

// holidayLookBehind widens the holiday load window so push-forward can see
// the run of holidays preceding the range.
const holidayLookBehind = 35

type generationService struct {
	tasks     repository.MasterTaskRepo
	instances repository.InstanceRepo
	holidays  repository.HolidayRepo
	settings  repository.SettingsRepo
	clock     domain.Clock
}

func NewGenerationService(
	tasks repository.MasterTaskRepo,
	instances repository.InstanceRepo,
	holidays repository.HolidayRepo,
	settings repository.SettingsRepo,
	clock domain.Clock,
) GenerationService {
	return &generationService{
		tasks:     tasks,
		instances: instances,
		holidays:  holidays,
		settings:  settings,
		clock:     clock,
	}
}

func (s *generationService) GenerateForDate(ctx context.Context, date time.Time, opts GenerateOptions) (*GenerationResult, error) {
	return s.generateRange(ctx, date, date, opts)
}

// generateRange wires settings, calendar and evaluator for one run and
// hands the task set to the generator.
func (s *generationService) generateRange(ctx context.Context, from, to time.Time, opts GenerateOptions) (*GenerationResult, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	policy, err := lifecycle.PolicyFromSettings(settings)
	if err != nil {
		return nil, err
	}

	holidays, err := s.holidays.ListRange(ctx, from.AddDate(0, 0, -holidayLookBehind), to)
	if err != nil {
		return nil, fmt.Errorf("loading holiday calendar: %w", err)
	}
	calendar := recurrence.NewDateSet(holidays)

	tasks, err := s.tasks.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading active tasks: %w", err)
	}

	clock := s.clock
	if opts.Now != nil {
		clock = domain.NewFixedClock(*opts.Now)
	}
	gen := generation.NewGenerator(s.instances, recurrence.NewEvaluator(settings, calendar), policy, clock)

	res, err := gen.Generate(ctx, tasks, from, to, generation.Options{
		ForceRegenerate: opts.ForceRegenerate,
		DryRun:          opts.DryRun,
	})
	if err != nil {
		return nil, err
	}

	return &GenerationResult{
		Date:       domain.DateOnly(from),
		TotalTasks: len(tasks),
		Created:    res.Created,
		Skipped:    res.Skipped,
		Errors:     res.Errors,
		Instances:  res.Instances,
		Failures:   res.Failures,
	}, nil
}
