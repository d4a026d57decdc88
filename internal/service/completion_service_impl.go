package service

import (
	"context"
	"fmt"

	"github.com/hjaltland/rota/internal/completion"
	"github.com/hjaltland/rota/internal/db"
	"github.com/hjaltland/rota/internal/domain"
	"github.com/hjaltland/rota/internal/lifecycle"
	"github.com/hjaltland/rota/internal/repository"
)

type completionService struct {
	uow      db.UnitOfWork
	settings repository.SettingsRepo
	clock    domain.Clock
}

func NewCompletionService(
	uow db.UnitOfWork,
	settings repository.SettingsRepo,
	clock domain.Clock,
) CompletionService {
	return &completionService{
		uow:      uow,
		settings: settings,
		clock:    clock,
	}
}

// RecordCompletion toggles one position's completion record and returns
// the instance status after re-aggregation. The policy is rebuilt per
// call so settings edits take effect without a restart.
func (s *completionService) RecordCompletion(ctx context.Context, instanceID, positionID string, completed bool, actor string) (domain.InstanceStatus, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("loading settings: %w", err)
	}
	policy, err := lifecycle.PolicyFromSettings(settings)
	if err != nil {
		return "", err
	}

	agg := completion.NewAggregator(s.uow, policy, s.clock)
	return agg.RecordCompletion(ctx, instanceID, positionID, completed, actor)
}
