package repository

import (
	"context"
	"time"

	"github.com/hjaltland/rota/internal/domain"
)

type MasterTaskRepo interface {
	Create(ctx context.Context, t *domain.MasterTask) error
	GetByID(ctx context.Context, id string) (*domain.MasterTask, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.MasterTask, error)
	ListActive(ctx context.Context) ([]*domain.MasterTask, error)
	Update(ctx context.Context, t *domain.MasterTask) error
	Archive(ctx context.Context, id string) error
}

type InstanceRepo interface {
	Create(ctx context.Context, inst *domain.TaskInstance) error
	GetByID(ctx context.Context, id string) (*domain.TaskInstance, error)
	GetByTaskAndDate(ctx context.Context, taskID string, date time.Time) (*domain.TaskInstance, error)
	// ExistsForTask reports whether the task owns any instance at all,
	// regardless of date. Enforces the sticky-once-off invariant.
	ExistsForTask(ctx context.Context, taskID string) (bool, error)
	ListByDate(ctx context.Context, date time.Time) ([]*domain.TaskInstance, error)
	// ListOpenBefore returns still-open instances dated strictly before
	// date, the candidates for carry visibility.
	ListOpenBefore(ctx context.Context, date time.Time) ([]*domain.TaskInstance, error)
	ListByTask(ctx context.Context, taskID string) ([]*domain.TaskInstance, error)
	Update(ctx context.Context, inst *domain.TaskInstance) error
}

type CompletionRepo interface {
	Create(ctx context.Context, c *domain.PositionCompletion) error
	Update(ctx context.Context, c *domain.PositionCompletion) error
	GetByInstanceAndPosition(ctx context.Context, instanceID, positionID string) (*domain.PositionCompletion, error)
	ListByInstance(ctx context.Context, instanceID string) ([]*domain.PositionCompletion, error)
}

type HolidayRepo interface {
	Put(ctx context.Context, h *domain.Holiday) error
	ListRange(ctx context.Context, from, to time.Time) ([]*domain.Holiday, error)
	IsHoliday(ctx context.Context, date time.Time) (bool, error)
}

type SettingsRepo interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Upsert(ctx context.Context, s *domain.Settings) error
}
