package carryover

import (
	"fmt"

	"github.com/felixgeelhaar/workday/adapter/cli"
	"github.com/spf13/cobra"
)

var dismissCmd = &cobra.Command{
	Use:   "dismiss",
	Short: "Hide the carry-over prompt until tomorrow",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		if err := app.CarryOver.Dismiss(cmd.Context()); err != nil {
			return fmt.Errorf("failed to dismiss carry-over: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Carry-over dismissed for today.")
		return nil
	},
}
