package service

import (
	"context"
	"testing"
	"time"

	"github.com/hjaltland/rota/internal/domain"
	"github.com/hjaltland/rota/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// narrowWindow shrinks the bulk window to [base-1, base+1] to keep the
// summaries small.
func narrowWindow(t *testing.T, f *serviceFixture) {
	t.Helper()
	ctx := context.Background()
	settings, err := f.settings.Get(ctx)
	require.NoError(t, err)
	settings.LookBehindDays = 1
	settings.LookAheadDays = 1
	require.NoError(t, f.settings.Upsert(ctx, settings))
}

func TestOrchestrator_ProcessesConfiguredWindow(t *testing.T) {
	base := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	f := newServiceFixture(t, base.Add(8*time.Hour))
	narrowWindow(t, f)
	ctx := context.Background()

	task := testutil.NewTestTask("Daily check")
	require.NoError(t, f.tasks.Create(ctx, task))

	summaries, err := f.orchestrator().RunBulkGeneration(ctx, base, BulkOptions{})
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	assert.Equal(t, "2025-03-09", summaries[0].Date.Format("2006-01-02"))
	assert.Equal(t, "2025-03-11", summaries[2].Date.Format("2006-01-02"))
	for _, s := range summaries {
		assert.Equal(t, 1, s.TotalTasks)
		assert.Equal(t, 1, s.NewInstances)
		assert.Equal(t, 0, s.Errors)
	}

	// The backfilled 2025-03-09 instance went straight past its midnight
	// boundary during the status sweep.
	prior, err := f.instances.GetByTaskAndDate(ctx, task.ID, base.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusMissed, prior.Status)
}

func TestOrchestrator_RerunCreatesNothingNew(t *testing.T) {
	base := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	f := newServiceFixture(t, base.Add(8*time.Hour))
	narrowWindow(t, f)
	ctx := context.Background()

	task := testutil.NewTestTask("Daily check")
	require.NoError(t, f.tasks.Create(ctx, task))

	orch := f.orchestrator()
	_, err := orch.RunBulkGeneration(ctx, base, BulkOptions{})
	require.NoError(t, err)

	summaries, err := orch.RunBulkGeneration(ctx, base, BulkOptions{})
	require.NoError(t, err)
	for _, s := range summaries {
		assert.Equal(t, 0, s.NewInstances)
		assert.Equal(t, 0, s.Errors)
	}

	list, err := f.instances.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestOrchestrator_TestModeWritesNothing(t *testing.T) {
	base := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	f := newServiceFixture(t, base.Add(8*time.Hour))
	narrowWindow(t, f)
	ctx := context.Background()

	task := testutil.NewTestTask("Daily check")
	require.NoError(t, f.tasks.Create(ctx, task))

	summaries, err := f.orchestrator().RunBulkGeneration(ctx, base, BulkOptions{TestMode: true})
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	for _, s := range summaries {
		assert.Equal(t, 1, s.NewInstances)
	}

	list, err := f.instances.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestOrchestrator_CountsCarries(t *testing.T) {
	base := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	f := newServiceFixture(t, base.Add(8*time.Hour))
	narrowWindow(t, f)
	ctx := context.Background()

	// Grace keeps the carried instance open past its due date.
	settings, err := f.settings.Get(ctx)
	require.NoError(t, err)
	settings.MissedGraceDays = map[domain.TimingClass]int{domain.TimingClosing: 3}
	require.NoError(t, f.settings.Upsert(ctx, settings))

	closing := testutil.NewTestTask("Till reconciliation",
		testutil.WithTimingClass(domain.TimingClosing),
		testutil.WithRule(domain.RecurrenceRule{
			Kind:     domain.RuleSpecificWeekdays,
			Weekdays: []time.Weekday{time.Sunday},
		}))
	require.NoError(t, f.tasks.Create(ctx, closing))

	summaries, err := f.orchestrator().RunBulkGeneration(ctx, base, BulkOptions{})
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	// Sunday 2025-03-09 generates; Monday and Tuesday see it as a carry.
	assert.Equal(t, 1, summaries[0].NewInstances)
	assert.Equal(t, 0, summaries[0].CarryInstances)
	assert.Equal(t, 1, summaries[1].CarryInstances)
	assert.Equal(t, 1, summaries[1].TotalInstances)
	assert.Equal(t, 1, summaries[2].CarryInstances)
}

func TestOrchestrator_CancelledContextReturnsPartialSummaries(t *testing.T) {
	base := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	f := newServiceFixture(t, base.Add(8*time.Hour))
	narrowWindow(t, f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summaries, err := f.orchestrator().RunBulkGeneration(ctx, base, BulkOptions{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, summaries)
}
