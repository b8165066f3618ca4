package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version is set during build
	Version = "dev"
	// Commit is set during build
	Commit = "none"
	// BuildDate is set during build
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number and storage mode",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "workday %s (%s, built %s)\n", Version, Commit, BuildDate)
		fmt.Fprintf(out, "  mode: %s\n", mode())
	},
}

// mode names where the day is stored.
func mode() string {
	switch {
	case app == nil || app.Config == nil:
		return "unavailable"
	case app.Config.RemoteMode():
		return "remote " + app.Config.APIURL
	default:
		return "local " + app.Config.DatabaseDriver
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
