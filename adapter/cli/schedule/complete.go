package schedule

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/workday/adapter/cli"
	"github.com/spf13/cobra"
)

var completeCmd = &cobra.Command{
	Use:   "complete <block>",
	Short: "Mark a block as completed",
	Long: `Complete a block and collect its XP. Completing a block twice
awards nothing the second time.

Examples:
  workday schedule complete 1
  workday schedule complete 3f2a`,
	Aliases: []string{"done", "finish"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, view, err := openDay(cmd)
		if err != nil {
			return err
		}
		block, err := cli.ResolveBlock(view.Blocks, args[0])
		if err != nil {
			return err
		}

		result, err := app.Session.Complete(cmd.Context(), block.ID())
		if err != nil {
			return fmt.Errorf("failed to complete block: %w", err)
		}

		out := cmd.OutOrStdout()
		if result.AlreadyCompleted {
			fmt.Fprintf(out, "%s was already completed.\n", block.Label())
			return nil
		}
		fmt.Fprintln(out, "Block completed!")
		fmt.Fprintln(out, strings.Repeat("-", 40))
		fmt.Fprintf(out, "  %s: +%d XP\n", block.Label(), result.XPEarned)
		if result.Milestone != nil {
			fmt.Fprintf(out, "  Milestone: %s (+%d XP)\n", result.Milestone.Name, result.Milestone.BonusXP)
		}
		fmt.Fprintf(out, "  Total: %d XP\n", app.Session.XP().TotalXP)
		return nil
	},
}
