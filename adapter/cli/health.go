package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/felixgeelhaar/workday/pkg/observability"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the database, Redis and broker connections",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if app.Health == nil || len(app.Health.Names()) == 0 {
			fmt.Fprintln(out, "ok")
			return nil
		}

		report := app.Health.Check(cmd.Context())
		names := make([]string, 0, len(report.Checks))
		for name := range report.Checks {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			check := report.Checks[name]
			fmt.Fprintf(out, "%-10s %-9s %s\n", name, check.Status, check.Message)
		}
		fmt.Fprintf(out, "overall: %s\n", report.Status)
		if report.Status == observability.HealthStatusUnhealthy {
			return errors.New("unhealthy")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
