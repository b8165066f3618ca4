package schedule

import (
	"fmt"

	"github.com/felixgeelhaar/workday/adapter/cli"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Rebuild today from the template",
	Long: `Throw away today's blocks and lay the day out again from the
template. Progress on the old blocks is lost.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		if _, err := app.Session.Open(cmd.Context(), 0); err != nil {
			return err
		}
		view, err := app.Session.Reset(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to reset schedule: %w", err)
		}
		cli.PrintSchedule(cmd.OutOrStdout(), view)
		return nil
	},
}
