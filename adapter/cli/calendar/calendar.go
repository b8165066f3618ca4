package calendar

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/workday/adapter/cli"
	"github.com/spf13/cobra"
)

// Cmd is the calendar command group
var Cmd = &cobra.Command{
	Use:   "calendar",
	Short: "Mirror the day into a CalDAV calendar",
	Long: `Copy today's blocks into the CalDAV calendar set by CALDAV_URL.
Only events created by workday are touched.`,
}

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Write today's blocks to the calendar",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		if app.CalendarMirror == nil || !app.CalendarMirror.Configured() {
			return errors.New("no CalDAV server configured")
		}

		view, err := app.Session.Open(cmd.Context(), 0)
		if err != nil {
			return err
		}
		result, err := app.CalendarMirror.Push(cmd.Context(), app.CurrentUserID, app.Session.Today(), view.Blocks)
		if err != nil {
			return fmt.Errorf("failed to push calendar: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Calendar updated: %d created, %d updated, %d deleted, %d failed\n",
			result.Created, result.Updated, result.Deleted, result.Failed)
		return nil
	},
}

func init() {
	Cmd.AddCommand(pushCmd)
}
