package cli

import (
	"github.com/hjaltland/rota/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Generation   service.GenerationService
	Statuses     service.StatusService
	Completions  service.CompletionService
	Orchestrator service.OrchestratorService

	// IsInteractive reports whether stdout is a terminal. Non-interactive
	// runs (cron, pipes) get line-oriented output instead of tables.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "rota" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "rota",
		Short: "Recurring shift-task generator and status engine",
	}

	root.AddCommand(
		newGenerateCmd(app),
		newStatusCmd(app),
		newBulkCmd(app),
		newCompleteCmd(app),
	)

	return root
}
