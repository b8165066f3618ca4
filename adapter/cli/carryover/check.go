package carryover

import (
	"fmt"

	"github.com/felixgeelhaar/workday/adapter/cli"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "List yesterday's unfinished work",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		info, err := app.CarryOver.FetchIncomplete(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to fetch incomplete blocks: %w", err)
		}

		out := cmd.OutOrStdout()
		if info == nil {
			fmt.Fprintln(out, "Nothing to carry over.")
			return nil
		}
		fmt.Fprintf(out, "Unfinished from %s (%dm):\n", info.Date, info.TotalMinutes)
		for i, b := range info.Blocks {
			cli.PrintBlock(out, i+1, b)
		}
		fmt.Fprintln(out, "\nRun 'workday carryover accept' or 'workday carryover dismiss'.")
		return nil
	},
}
