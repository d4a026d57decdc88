package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/hjaltland/rota/internal/cli/formatter"
	"github.com/hjaltland/rota/internal/domain"
	"github.com/hjaltland/rota/internal/generation"
	"github.com/hjaltland/rota/internal/service"
	"github.com/spf13/cobra"
)

func newBulkCmd(app *App) *cobra.Command {
	var dateStr string
	var nowStr string
	var testMode bool
	var dryRun bool
	var force bool

	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Run daily generation and status sweep over the configured window",
		RunE: func(cmd *cobra.Command, args []string) error {
			baseDate := domain.DateOnly(time.Now())
			if dateStr != "" {
				var err error
				if baseDate, err = generation.ParseRequiredDate(dateStr, "date"); err != nil {
					return err
				}
			}

			opts := service.BulkOptions{
				TestMode:        testMode,
				DryRun:          dryRun,
				ForceRegenerate: force,
			}
			var err error
			if opts.Now, err = parseNowFlag(nowStr); err != nil {
				return err
			}

			summaries, err := app.Orchestrator.RunBulkGeneration(context.Background(), baseDate, opts)
			if err != nil {
				return err
			}

			if app.interactive() {
				fmt.Print(formatter.FormatBulkSummaries(summaries))
				return nil
			}
			// Cron-friendly line-oriented output.
			for _, s := range summaries {
				fmt.Printf("%s tasks=%d new=%d carry=%d total=%d errors=%d\n",
					s.Date.Format("2006-01-02"), s.TotalTasks, s.NewInstances,
					s.CarryInstances, s.TotalInstances, s.Errors)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "Base date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&nowStr, "now", "", "Pin the evaluation time (RFC 3339)")
	cmd.Flags().BoolVar(&testMode, "test-mode", false, "Exercise the run without writing instances")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report would-be instances without writing them")
	cmd.Flags().BoolVar(&force, "force-regenerate", false, "Recompute due fields on existing instances")

	return cmd
}
