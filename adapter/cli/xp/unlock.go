package xp

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/workday/adapter/cli"
	"github.com/felixgeelhaar/workday/internal/gamification/application/commands"
	"github.com/spf13/cobra"
)

var unlockCmd = &cobra.Command{
	Use:   "unlock <achievement>",
	Short: "Unlock an achievement by id",
	Long: `Unlock an achievement and collect its reward. Only available with a
local database.

Examples:
  workday xp unlock perfect_week`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		if app.UnlockAchievementHandler == nil {
			return errors.New("achievements can only be unlocked with a local database")
		}

		result, err := app.UnlockAchievementHandler.Handle(cmd.Context(), commands.UnlockAchievementCommand{
			UserID:        app.CurrentUserID,
			AchievementID: args[0],
		})
		if err != nil {
			return fmt.Errorf("failed to unlock achievement: %w", err)
		}

		out := cmd.OutOrStdout()
		if !result.Unlocked {
			fmt.Fprintf(out, "%s is already unlocked.\n", result.Achievement.Name)
			return nil
		}
		fmt.Fprintf(out, "Unlocked %s (+%d XP)\n", result.Achievement.Name, result.Achievement.XPReward)
		return nil
	},
}
