package schedule

import (
	"fmt"

	"github.com/felixgeelhaar/workday/adapter/cli"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show today's schedule",
	Long: `Display today's blocks. The first run of the day builds them from
your template.

Examples:
  workday schedule show`,
	Aliases: []string{"today", "view"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, view, err := openDay(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		cli.PrintSchedule(out, view)

		if current, ok := app.Session.CurrentBlock(); ok {
			fmt.Fprintf(out, "\nNow: %s until %s\n", current.Label(), current.EndTime().Format("15:04"))
		} else if next, ok := app.Session.NextBlock(); ok {
			fmt.Fprintf(out, "\nNext: %s at %s\n", next.Label(), next.StartTime().Format("15:04"))
		}

		info, err := app.CarryOver.FetchIncomplete(cmd.Context())
		if err != nil {
			cli.Logger().Debug("carry-over check failed", "error", err)
			return nil
		}
		if info != nil {
			fmt.Fprintf(out, "\n%dm unfinished from %s. Run 'workday carryover check'.\n", info.TotalMinutes, info.Date)
		}
		return nil
	},
}
