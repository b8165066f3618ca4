package template

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/workday/adapter/cli"
	"github.com/felixgeelhaar/workday/internal/scheduling/application/services"
	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/spf13/cobra"
)

// Cmd is the template command group
var Cmd = &cobra.Command{
	Use:   "template",
	Short: "Inspect the day template",
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the template new days are built from",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		tmpl := services.NewTemplateProvider(app.Schedule, cli.Logger()).Template(cmd.Context())

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n", tmpl.Name())
		if tmpl.Description() != "" {
			fmt.Fprintf(out, "%s\n", tmpl.Description())
		}
		fmt.Fprintln(out)

		clock := app.Session.Today()
		if start, err := domain.ParseTimeOfDay(app.Config.ScheduleStartTime); err == nil {
			clock = start.On(clock)
		}
		work, breaks := 0, 0
		for i, e := range tmpl.Entries() {
			end := clock.Add(time.Duration(e.DurationMinutes) * time.Minute)
			fmt.Fprintf(out, "%2d. %s - %s  %-5s %s (%dm)\n",
				i+1, clock.Format("15:04"), end.Format("15:04"), e.Type, e.Label, e.DurationMinutes)
			clock = end
			if e.Type.IsWork() {
				work += e.DurationMinutes
			} else {
				breaks += e.DurationMinutes
			}
		}
		fmt.Fprintf(out, "\nWork: %dm | Breaks: %dm\n", work, breaks)
		return nil
	},
}

func init() {
	Cmd.AddCommand(showCmd)
}
