package carryover

import (
	"github.com/spf13/cobra"
)

// Cmd is the carryover command group
var Cmd = &cobra.Command{
	Use:     "carryover",
	Short:   "Carry yesterday's unfinished work into today",
	Aliases: []string{"carry"},
	Long: `Unfinished work blocks from yesterday can be added to the end of
today as a single carry-over block, or dismissed until tomorrow.`,
}

func init() {
	Cmd.AddCommand(checkCmd)
	Cmd.AddCommand(acceptCmd)
	Cmd.AddCommand(dismissCmd)
}
