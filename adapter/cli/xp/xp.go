package xp

import (
	"github.com/spf13/cobra"
)

// clientDateLayout is the MM-DD-YYYY form the streak endpoint expects.
const clientDateLayout = "01-02-2006"

// Cmd is the xp command group
var Cmd = &cobra.Command{
	Use:   "xp",
	Short: "Experience points, streaks and achievements",
}

func init() {
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(awardCmd)
	Cmd.AddCommand(streakCmd)
	Cmd.AddCommand(unlockCmd)
	Cmd.AddCommand(actionsCmd)
}
