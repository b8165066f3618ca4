package xp

import (
	"fmt"

	"github.com/felixgeelhaar/workday/adapter/cli"
	"github.com/spf13/cobra"
)

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Count today toward the daily streak",
	Long: `Record today as a worked day. Calling it more than once a day has no
further effect.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		today := app.Session.Now().Format(clientDateLayout)
		if err := app.XP.UpdateStreak(cmd.Context(), today); err != nil {
			return fmt.Errorf("failed to update streak: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Streak updated for %s\n", today)
		return nil
	},
}
