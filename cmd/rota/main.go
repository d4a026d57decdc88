package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hjaltland/rota/internal/cli"
	"github.com/hjaltland/rota/internal/db"
	"github.com/hjaltland/rota/internal/domain"
	"github.com/hjaltland/rota/internal/repository"
	"github.com/hjaltland/rota/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.rota/rota.db
	dbPath := os.Getenv("ROTA_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".rota", "rota.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	taskRepo := repository.NewSQLiteMasterTaskRepo(database)
	instanceRepo := repository.NewSQLiteInstanceRepo(database)
	holidayRepo := repository.NewSQLiteHolidayRepo(database)
	settingsRepo := repository.NewSQLiteSettingsRepo(database)

	// Wire unit of work for transactional completion toggles
	uow := db.NewSQLiteUnitOfWork(database)

	clock := domain.RealClock{}

	// Wire services
	generationSvc := service.NewGenerationService(taskRepo, instanceRepo, holidayRepo, settingsRepo, clock)
	statusSvc := service.NewStatusService(taskRepo, instanceRepo, settingsRepo, clock)

	app := &cli.App{
		Generation:   generationSvc,
		Statuses:     statusSvc,
		Completions:  service.NewCompletionService(uow, settingsRepo, clock),
		Orchestrator: service.NewOrchestrator(generationSvc, statusSvc, taskRepo, instanceRepo, settingsRepo, clock),
	}

	// Detect interactive terminal for table vs line-oriented output.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
