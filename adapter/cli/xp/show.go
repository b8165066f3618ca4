package xp

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/workday/adapter/cli"
	"github.com/felixgeelhaar/workday/internal/gamification/application/queries"
	"github.com/felixgeelhaar/workday/internal/gamification/domain"
	"github.com/spf13/cobra"
)

var showAchievements bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show level and progress",
	Long: `Show total XP, the current level and how far it is to the next one.
With a local database the streak and achievements are shown too.

Examples:
  workday xp show
  workday xp show --achievements`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		total, err := app.XP.TotalXP(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load XP: %w", err)
		}

		out := cmd.OutOrStdout()
		progress := domain.ProgressFor(total)
		fmt.Fprintf(out, "Level %d %s\n", progress.Level, progress.Title)
		fmt.Fprintf(out, "XP: %d\n", total)
		if progress.NextLevelXP > 0 {
			fmt.Fprintf(out, "Progress: %s %.0f%% (%d XP to level %d)\n",
				bar(progress.Percent), progress.Percent, progress.XPToNextLevel, progress.Level+1)
		} else {
			fmt.Fprintln(out, "Max level reached.")
		}

		if app.GetProfileHandler == nil {
			return nil
		}
		profile, err := app.GetProfileHandler.Handle(cmd.Context(), queries.GetProfileQuery{UserID: app.CurrentUserID})
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		fmt.Fprintf(out, "Streak: %d days (longest %d)\n", profile.CurrentStreak, profile.LongestStreak)
		fmt.Fprintf(out, "Worked: %dh over %d sessions\n", profile.TotalHoursWorked, profile.TotalSessions)

		unlocked := 0
		for _, a := range profile.Achievements {
			if a.Unlocked {
				unlocked++
			}
		}
		fmt.Fprintf(out, "Achievements: %d/%d\n", unlocked, len(profile.Achievements))
		if showAchievements {
			for _, a := range profile.Achievements {
				mark := "[ ]"
				if a.Unlocked {
					mark = "[x]"
				}
				fmt.Fprintf(out, "  %s %-20s %s (%d/%d)\n", mark, a.Name, a.Description, a.Progress, a.Requirement)
			}
		}
		return nil
	},
}

func bar(percent float64) string {
	const width = 20
	filled := int(percent / 100 * width)
	filled = max(0, min(width, filled))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

func init() {
	showCmd.Flags().BoolVarP(&showAchievements, "achievements", "a", false, "list every achievement")
}
