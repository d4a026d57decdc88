package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/hjaltland/rota/internal/db"
	"github.com/hjaltland/rota/internal/domain"
	"github.com/hjaltland/rota/internal/repository"
	"github.com/hjaltland/rota/internal/service"
	"github.com/hjaltland/rota/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires a full App backed by an in-memory DB for CLI integration
// tests. The repos are returned for seeding and assertions.
func testApp(t *testing.T) (*App, repository.MasterTaskRepo, repository.InstanceRepo) {
	t.Helper()
	database := testutil.NewTestDB(t)

	taskRepo := repository.NewSQLiteMasterTaskRepo(database)
	instanceRepo := repository.NewSQLiteInstanceRepo(database)
	holidayRepo := repository.NewSQLiteHolidayRepo(database)
	settingsRepo := repository.NewSQLiteSettingsRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)
	clock := domain.RealClock{}

	generationSvc := service.NewGenerationService(taskRepo, instanceRepo, holidayRepo, settingsRepo, clock)
	statusSvc := service.NewStatusService(taskRepo, instanceRepo, settingsRepo, clock)

	app := &App{
		Generation:   generationSvc,
		Statuses:     statusSvc,
		Completions:  service.NewCompletionService(uow, settingsRepo, clock),
		Orchestrator: service.NewOrchestrator(generationSvc, statusSvc, taskRepo, instanceRepo, settingsRepo, clock),
	}
	return app, taskRepo, instanceRepo
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestGenerateCmd_CreatesInstances(t *testing.T) {
	app, tasks, instances := testApp(t)
	ctx := context.Background()

	task := testutil.NewTestTask("Daily check")
	require.NoError(t, tasks.Create(ctx, task))

	_, err := executeCmd(t, app, "generate", "--date", "2025-03-10", "--now", "2025-03-10T08:00:00Z")
	require.NoError(t, err)

	list, err := instances.ListByDate(ctx, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGenerateCmd_RequiresDate(t *testing.T) {
	app, _, _ := testApp(t)

	_, err := executeCmd(t, app, "generate")
	assert.Error(t, err)
}

func TestGenerateCmd_RejectsBadDate(t *testing.T) {
	app, _, _ := testApp(t)

	_, err := executeCmd(t, app, "generate", "--date", "10/03/2025")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStatusCmd_SweepsDate(t *testing.T) {
	app, tasks, instances := testApp(t)
	ctx := context.Background()

	task := testutil.NewTestTask("Daily check")
	require.NoError(t, tasks.Create(ctx, task))
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	inst := testutil.NewTestInstance(task, day, domain.StatusNotDue)
	require.NoError(t, instances.Create(ctx, inst))

	_, err := executeCmd(t, app, "status", "--date", "2025-03-10", "--now", "2025-03-10T12:00:00Z")
	require.NoError(t, err)

	got, err := instances.GetByID(ctx, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDueToday, got.Status)
}

func TestCompleteCmd_MarksPositionDone(t *testing.T) {
	app, tasks, instances := testApp(t)
	ctx := context.Background()

	task := testutil.NewTestTask("Single signoff")
	require.NoError(t, tasks.Create(ctx, task))
	day := domain.DateOnly(time.Now().UTC())
	inst := testutil.NewTestInstance(task, day, domain.StatusDueToday)
	require.NoError(t, instances.Create(ctx, inst))

	_, err := executeCmd(t, app, "complete",
		"--instance", inst.ID, "--position", "duty-manager", "--actor", "alex")
	require.NoError(t, err)

	got, err := instances.GetByID(ctx, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, got.Status)
}

func TestBulkCmd_RunsWindow(t *testing.T) {
	app, tasks, instances := testApp(t)
	ctx := context.Background()

	task := testutil.NewTestTask("Daily check")
	require.NoError(t, tasks.Create(ctx, task))

	_, err := executeCmd(t, app, "bulk", "--date", "2025-03-10", "--now", "2025-03-10T08:00:00Z")
	require.NoError(t, err)

	// Default look-behind is 7 days, look-ahead 0: eight dates.
	list, err := instances.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, list, 8)
}
