package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hjaltland/rota/internal/domain"
	"github.com/hjaltland/rota/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedInstance(t *testing.T, tasks *SQLiteMasterTaskRepo, instances *SQLiteInstanceRepo) *domain.TaskInstance {
	t.Helper()
	ctx := context.Background()
	task := testutil.NewTestTask("Completion target", testutil.WithResponsibility("duty-manager", "supervisor"))
	require.NoError(t, tasks.Create(ctx, task))
	inst := testutil.NewTestInstance(task, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), domain.StatusDueToday)
	require.NoError(t, instances.Create(ctx, inst))
	return inst
}

func newCompletion(instanceID, positionID string) *domain.PositionCompletion {
	now := time.Now().UTC()
	return &domain.PositionCompletion{
		ID:          uuid.New().String(),
		InstanceID:  instanceID,
		PositionID:  positionID,
		IsCompleted: true,
		CompletedAt: &now,
		CompletedBy: "alex",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestCompletionRepo_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	tasks := NewSQLiteMasterTaskRepo(db)
	instances := NewSQLiteInstanceRepo(db)
	repo := NewSQLiteCompletionRepo(db)
	ctx := context.Background()

	inst := seedInstance(t, tasks, instances)
	rec := newCompletion(inst.ID, "duty-manager")
	require.NoError(t, repo.Create(ctx, rec))

	fetched, err := repo.GetByInstanceAndPosition(ctx, inst.ID, "duty-manager")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, fetched.ID)
	assert.True(t, fetched.IsCompleted)
	assert.Equal(t, "alex", fetched.CompletedBy)
	require.NotNil(t, fetched.CompletedAt)
	assert.Nil(t, fetched.UncompletedAt)
}

func TestCompletionRepo_DuplicatePositionIsConflict(t *testing.T) {
	db := testutil.NewTestDB(t)
	tasks := NewSQLiteMasterTaskRepo(db)
	instances := NewSQLiteInstanceRepo(db)
	repo := NewSQLiteCompletionRepo(db)
	ctx := context.Background()

	inst := seedInstance(t, tasks, instances)
	require.NoError(t, repo.Create(ctx, newCompletion(inst.ID, "duty-manager")))

	err := repo.Create(ctx, newCompletion(inst.ID, "duty-manager"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCompletionRepo_UpdateTogglesInPlace(t *testing.T) {
	db := testutil.NewTestDB(t)
	tasks := NewSQLiteMasterTaskRepo(db)
	instances := NewSQLiteInstanceRepo(db)
	repo := NewSQLiteCompletionRepo(db)
	ctx := context.Background()

	inst := seedInstance(t, tasks, instances)
	rec := newCompletion(inst.ID, "duty-manager")
	require.NoError(t, repo.Create(ctx, rec))

	undoneAt := time.Now().UTC().Add(time.Hour)
	rec.IsCompleted = false
	rec.UncompletedAt = &undoneAt
	rec.UpdatedAt = undoneAt
	require.NoError(t, repo.Update(ctx, rec))

	fetched, err := repo.GetByInstanceAndPosition(ctx, inst.ID, "duty-manager")
	require.NoError(t, err)
	assert.False(t, fetched.IsCompleted)
	require.NotNil(t, fetched.UncompletedAt)

	// Still one record per position; the toggle left history in place.
	list, err := repo.ListByInstance(ctx, inst.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCompletionRepo_ListByInstance(t *testing.T) {
	db := testutil.NewTestDB(t)
	tasks := NewSQLiteMasterTaskRepo(db)
	instances := NewSQLiteInstanceRepo(db)
	repo := NewSQLiteCompletionRepo(db)
	ctx := context.Background()

	inst := seedInstance(t, tasks, instances)
	require.NoError(t, repo.Create(ctx, newCompletion(inst.ID, "duty-manager")))
	require.NoError(t, repo.Create(ctx, newCompletion(inst.ID, "supervisor")))

	list, err := repo.ListByInstance(ctx, inst.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "duty-manager", list[0].PositionID)
	assert.Equal(t, "supervisor", list[1].PositionID)
}

func TestCompletionRepo_GetByInstanceAndPosition_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	tasks := NewSQLiteMasterTaskRepo(db)
	instances := NewSQLiteInstanceRepo(db)
	repo := NewSQLiteCompletionRepo(db)
	ctx := context.Background()

	inst := seedInstance(t, tasks, instances)
	_, err := repo.GetByInstanceAndPosition(ctx, inst.ID, "nobody")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
