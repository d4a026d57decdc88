package service

import (
	"context"
	"time"

	"github.com/hjaltland/rota/internal/domain"
	"github.com/hjaltland/rota/internal/generation"
)

// GenerateOptions controls a single-date generation call. Now pins the
// evaluation time; nil means the injected clock.
type GenerateOptions struct {
	ForceRegenerate bool
	DryRun          bool
	Now             *time.Time
}

// GenerationResult is the outcome of GenerateForDate.
type GenerationResult struct {
	Date       time.Time
	TotalTasks int
	Created    int
	Skipped    int
	Errors     int
	Instances  []*domain.TaskInstance
	Failures   []generation.PairError
}

// StatusOptions controls a status sweep.
type StatusOptions struct {
	DryRun bool
	Now    *time.Time
}

// StatusUpdateResult is the outcome of UpdateStatusesForDate.
type StatusUpdateResult struct {
	Date     time.Time
	Examined int
	Updated  int
	Errors   int
	Failures []generation.PairError
}

// BulkOptions controls a bulk run. TestMode exercises generation and
// status logic while suppressing writes; DryRun additionally reports the
// would-be instance set.
type BulkOptions struct {
	TestMode        bool
	DryRun          bool
	ForceRegenerate bool
	Now             *time.Time
}

// DateSummary is one date's line in a bulk run report.
type DateSummary struct {
	Date           time.Time
	TotalTasks     int
	NewInstances   int
	CarryInstances int
	TotalInstances int
	Errors         int
}

type GenerationService interface {
	GenerateForDate(ctx context.Context, date time.Time, opts GenerateOptions) (*GenerationResult, error)
}

type StatusService interface {
	UpdateStatusesForDate(ctx context.Context, date time.Time, opts StatusOptions) (*StatusUpdateResult, error)
}

type CompletionService interface {
	RecordCompletion(ctx context.Context, instanceID, positionID string, completed bool, actor string) (domain.InstanceStatus, error)
}

type OrchestratorService interface {
	RunBulkGeneration(ctx context.Context, baseDate time.Time, opts BulkOptions) ([]DateSummary, error)
}
