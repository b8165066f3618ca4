package schedule

import (
	"fmt"

	"github.com/felixgeelhaar/workday/adapter/cli"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start <block>",
	Short: "Start a block",
	Long: `Mark a block as in progress. A block is given by its position in
'workday schedule show' or by its id.

Examples:
  workday schedule start 1`,
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
		if err := app.Session.Start(cmd.Context(), block.ID()); err != nil {
			return fmt.Errorf("failed to start block: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Started %s (%s - %s)\n",
			block.Label(), block.StartTime().Format("15:04"), block.EndTime().Format("15:04"))
		return nil
	},
}
