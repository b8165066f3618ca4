package xp

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/workday/adapter/cli"
	"github.com/felixgeelhaar/workday/internal/gamification/domain"
	"github.com/spf13/cobra"
)

var awardCmd = &cobra.Command{
	Use:   "award <action> [reason]",
	Short: "Award XP for an action",
	Long: `Award the XP the server assigns to an action. Run 'workday xp actions'
for the list.

Examples:
  workday xp award NOTE_ADDED
  workday xp award TASK_COMPLETED "shipped the report"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		action, err := domain.ParseActionType(strings.ToUpper(args[0]))
		if err != nil {
			return err
		}
		reason := string(action)
		if len(args) > 1 {
			reason = args[1]
		}

		award, err := app.XP.AwardXP(cmd.Context(), 0, reason, string(action))
		if err != nil {
			return fmt.Errorf("failed to award XP: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "+%d XP (total %d)\n", award.XPGained, award.TotalXP)
		if award.LeveledUp {
			fmt.Fprintf(out, "Level up! %d -> %d %s\n", award.PreviousLevel, award.Level, domain.LevelTitle(award.Level))
		}
		return nil
	},
}

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List awardable actions",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, a := range domain.ActionTypes() {
			xp, _ := a.XP()
			fmt.Fprintf(out, "%-24s %5d XP\n", a, xp)
		}
		return nil
	},
}
