package schedule

import (
	"github.com/felixgeelhaar/workday/adapter/cli"
	"github.com/felixgeelhaar/workday/internal/scheduling/application/services"
	"github.com/spf13/cobra"
)

// Cmd is the schedule command group
var Cmd = &cobra.Command{
	Use:   "schedule",
	Short: "Work through today's blocks",
	Long:  `View today's blocks and start, complete, skip or edit them.`,
}

func init() {
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(startCmd)
	Cmd.AddCommand(completeCmd)
	Cmd.AddCommand(skipCmd)
	Cmd.AddCommand(editCmd)
	Cmd.AddCommand(resetCmd)
}

// openDay opens today and returns the app with the current view.
func openDay(cmd *cobra.Command) (*cli.App, services.ScheduleView, error) {
	app, err := cli.RequireApp()
	if err != nil {
		return nil, services.ScheduleView{}, err
	}
	view, err := app.Session.Open(cmd.Context(), 0)
	if err != nil {
		return nil, services.ScheduleView{}, err
	}
	return app, view, nil
}
