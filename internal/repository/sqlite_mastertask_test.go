package repository

import (
	"context"
	"testing"
	"time"

	"github.com/hjaltland/rota/internal/domain"
	"github.com/hjaltland/rota/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMasterTaskRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteMasterTaskRepo(db)
	ctx := context.Background()

	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	task := testutil.NewTestTask("Temperature log",
		testutil.WithRule(domain.RecurrenceRule{
			Kind:     domain.RuleSpecificWeekdays,
			Weekdays: []time.Weekday{time.Monday, time.Thursday},
		}),
		testutil.WithResponsibility("duty-manager", "supervisor"),
		testutil.WithTimingClass(domain.TimingClosing),
		testutil.WithDueTime("21:30"),
		testutil.WithEndDate(end),
	)
	require.NoError(t, repo.Create(ctx, task))

	fetched, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, fetched.ID)
	assert.Equal(t, "Temperature log", fetched.Title)
	assert.Equal(t, []string{"duty-manager", "supervisor"}, fetched.Responsibility)
	assert.Equal(t, domain.RuleSpecificWeekdays, fetched.Rule.Kind)
	assert.Equal(t, []time.Weekday{time.Monday, time.Thursday}, fetched.Rule.Weekdays)
	assert.Equal(t, domain.TimingClosing, fetched.TimingClass)
	assert.Equal(t, "21:30", fetched.DueTime.String())
	require.NotNil(t, fetched.EndDate)
	assert.Equal(t, "2025-06-30", fetched.EndDate.Format("2006-01-02"))
}

func TestMasterTaskRepo_DateFieldsKeepTheirColumns(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteMasterTaskRepo(db)
	ctx := context.Background()

	start := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)
	delay := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 11, 28, 0, 0, 0, 0, time.UTC)
	task := testutil.NewTestTask("Deep clean",
		testutil.WithRule(domain.RecurrenceRule{
			Kind:             domain.RuleEveryNDays,
			IntervalDays:     3,
			BusinessDaysOnly: true,
		}),
		testutil.WithStartDate(start),
		testutil.WithPublishDelay(delay),
		testutil.WithEndDate(end),
		testutil.WithSticky(),
	)
	require.NoError(t, repo.Create(ctx, task))

	fetched, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-02-03", fetched.StartDate.Format("2006-01-02"))
	require.NotNil(t, fetched.PublishDelayUntil)
	assert.Equal(t, "2025-02-10", fetched.PublishDelayUntil.Format("2006-01-02"))
	require.NotNil(t, fetched.EndDate)
	assert.Equal(t, "2025-11-28", fetched.EndDate.Format("2006-01-02"))
	assert.True(t, fetched.Rule.BusinessDaysOnly)
	assert.True(t, fetched.StickyOnceOff)

	list, err := repo.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2025-02-03", list[0].StartDate.Format("2006-01-02"))
	require.NotNil(t, list[0].EndDate)
	assert.Equal(t, "2025-11-28", list[0].EndDate.Format("2006-01-02"))
}

func TestMasterTaskRepo_CreatePersistsMonths(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteMasterTaskRepo(db)
	ctx := context.Background()

	task := testutil.NewTestTask("Stocktake",
		testutil.WithRule(domain.RecurrenceRule{
			Kind:   domain.RuleCertainMonths,
			Months: []time.Month{time.March, time.June, time.September, time.December},
		}),
		testutil.WithStartDate(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)),
	)
	require.NoError(t, repo.Create(ctx, task))

	fetched, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RuleCertainMonths, fetched.Rule.Kind)
	assert.Equal(t, []time.Month{time.March, time.June, time.September, time.December}, fetched.Rule.Months)
}

func TestMasterTaskRepo_CreateRejectsInvalidRule(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteMasterTaskRepo(db)
	ctx := context.Background()

	task := testutil.NewTestTask("Broken",
		testutil.WithRule(domain.RecurrenceRule{Kind: "fortnightly_ish"}))

	err := repo.Create(ctx, task)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestMasterTaskRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteMasterTaskRepo(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "nonexistent")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMasterTaskRepo_ListActive_ExcludesDraftAndArchived(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteMasterTaskRepo(db)
	ctx := context.Background()

	active := testutil.NewTestTask("Active")
	draft := testutil.NewTestTask("Draft", testutil.WithPublishStatus(domain.PublishDraft))
	archived := testutil.NewTestTask("Archived")
	require.NoError(t, repo.Create(ctx, active))
	require.NoError(t, repo.Create(ctx, draft))
	require.NoError(t, repo.Create(ctx, archived))
	require.NoError(t, repo.Archive(ctx, archived.ID))

	list, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, active.ID, list[0].ID)

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMasterTaskRepo_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteMasterTaskRepo(db)
	ctx := context.Background()

	task := testutil.NewTestTask("Original")
	require.NoError(t, repo.Create(ctx, task))

	task.Title = "Renamed"
	task.DueTime = domain.MustDueTime("14:15")
	task.AllowEditWhenLocked = true
	require.NoError(t, repo.Update(ctx, task))

	fetched, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", fetched.Title)
	assert.Equal(t, "14:15", fetched.DueTime.String())
	assert.True(t, fetched.AllowEditWhenLocked)
}

func TestMasterTaskRepo_ArchivePreservesRow(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteMasterTaskRepo(db)
	ctx := context.Background()

	task := testutil.NewTestTask("Keep me")
	require.NoError(t, repo.Create(ctx, task))
	require.NoError(t, repo.Archive(ctx, task.ID))

	fetched, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PublishArchived, fetched.PublishStatus)
}
