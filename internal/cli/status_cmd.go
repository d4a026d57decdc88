package cli

import (
	"context"
	"fmt"

	"github.com/hjaltland/rota/internal/cli/formatter"
	"github.com/hjaltland/rota/internal/generation"
	"github.com/hjaltland/rota/internal/service"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	var dateStr string
	var nowStr string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Re-derive instance statuses for one date",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := generation.ParseRequiredDate(dateStr, "date")
			if err != nil {
				return err
			}

			opts := service.StatusOptions{DryRun: dryRun}
			if opts.Now, err = parseNowFlag(nowStr); err != nil {
				return err
			}

			res, err := app.Statuses.UpdateStatusesForDate(context.Background(), date, opts)
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatStatusResult(res))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "Target date (YYYY-MM-DD, required)")
	cmd.Flags().StringVar(&nowStr, "now", "", "Pin the evaluation time (RFC 3339)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report transitions without writing them")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}
