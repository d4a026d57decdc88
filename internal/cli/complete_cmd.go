package cli

import (
	"context"
	"fmt"

	"github.com/hjaltland/rota/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newCompleteCmd(app *App) *cobra.Command {
	var instanceID string
	var positionID string
	var actor string
	var undo bool

	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Record or undo a position's completion on an instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := app.Completions.RecordCompletion(
				context.Background(), instanceID, positionID, !undo, actor)
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatCompletion(instanceID, status))
			return nil
		},
	}

	cmd.Flags().StringVar(&instanceID, "instance", "", "Task instance ID (required)")
	cmd.Flags().StringVar(&positionID, "position", "", "Position recording the action (required)")
	cmd.Flags().StringVar(&actor, "actor", "", "Person performing the action")
	cmd.Flags().BoolVar(&undo, "undo", false, "Undo a previously recorded completion")
	_ = cmd.MarkFlagRequired("instance")
	_ = cmd.MarkFlagRequired("position")

	return cmd
}
