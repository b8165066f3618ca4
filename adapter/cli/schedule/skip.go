package schedule

import (
	"fmt"

	"github.com/felixgeelhaar/workday/adapter/cli"
	"github.com/spf13/cobra"
)

var skipCmd = &cobra.Command{
	Use:   "skip <block>",
	Short: "Skip a block",
	Long: `Skip a block. Skipped work can be carried into tomorrow.

Examples:
  workday schedule skip 2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, view, err := openDay(cmd)
		if err != nil {
			return err
		}
		block, err := cli.ResolveBlock(view.Blocks, args[0])
		if err != nil {
			return err
		}
		if err := app.Session.Skip(cmd.Context(), block.ID()); err != nil {
			return fmt.Errorf("failed to skip block: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Skipped %s\n", block.Label())
		return nil
	},
}
