package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/hjaltland/rota/internal/cli/formatter"
	"github.com/hjaltland/rota/internal/generation"
	"github.com/hjaltland/rota/internal/service"
	"github.com/spf13/cobra"
)

func newGenerateCmd(app *App) *cobra.Command {
	var dateStr string
	var nowStr string
	var force bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate task instances for one date",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := generation.ParseRequiredDate(dateStr, "date")
			if err != nil {
				return err
			}

			opts := service.GenerateOptions{
				ForceRegenerate: force,
				DryRun:          dryRun,
			}
			if opts.Now, err = parseNowFlag(nowStr); err != nil {
				return err
			}

			res, err := app.Generation.GenerateForDate(context.Background(), date, opts)
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatGenerationResult(res))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "Target date (YYYY-MM-DD, required)")
	cmd.Flags().StringVar(&nowStr, "now", "", "Pin the evaluation time (RFC 3339)")
	cmd.Flags().BoolVar(&force, "force-regenerate", false, "Recompute due fields on existing instances")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Evaluate without writing instances")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

// parseNowFlag parses an optional RFC 3339 timestamp used to pin the
// engine's notion of "now" for backfills and testing.
func parseNowFlag(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid --now %q: expected RFC 3339", value)
	}
	return &t, nil
}
