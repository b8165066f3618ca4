package schedule

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/workday/adapter/cli"
	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/spf13/cobra"
)

var (
	editStart    string
	editEnd      string
	editDuration int
	editLabel    string
	editNotes    string
	editProject  string
	editStrict   bool
)

var editCmd = &cobra.Command{
	Use:   "edit <block>",
	Short: "Change a block",
	Long: `Change a block's times, label, notes or project. Moving the end of a
block shifts every later block by the same amount.

Examples:
  workday schedule edit 1 --end 10:30
  workday schedule edit 3 --duration 90 --label "Deep work"
  workday schedule edit 2 --notes "reviewed PRs"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, view, err := openDay(cmd)
		if err != nil {
			return err
		}
		block, err := cli.ResolveBlock(view.Blocks, args[0])
		if err != nil {
			return err
		}

		var update domain.BlockUpdate
		flags := cmd.Flags()
		day := app.Session.Today()
		if flags.Changed("start") {
			t, err := cli.ParseClock(day, editStart)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			update.StartTime = &t
		}
		if flags.Changed("end") {
			t, err := cli.ParseClock(day, editEnd)
			if err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}
			update.EndTime = &t
		}
		if flags.Changed("duration") {
			update.DurationMinutes = &editDuration
		}
		if flags.Changed("label") {
			update.Label = &editLabel
		}
		if flags.Changed("notes") {
			update.Notes = &editNotes
		}
		if flags.Changed("project") {
			update.ProjectName = &editProject
		}
		if update == (domain.BlockUpdate{}) {
			return errors.New("nothing to change: pass at least one flag")
		}

		var outcome domain.UpdateOutcome
		if editStrict {
			outcome, err = app.Session.UpdateStrict(cmd.Context(), block.ID(), update)
		} else {
			outcome, err = app.Session.Update(cmd.Context(), block.ID(), update)
		}
		if err != nil {
			return fmt.Errorf("failed to update block: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Updated %s\n", block.Label())
		if outcome.TimeIgnored {
			fmt.Fprintln(out, "Time change ignored: the block would have no duration.")
		}
		if outcome.Shift != 0 {
			fmt.Fprintf(out, "Later blocks moved by %s\n", outcome.Shift)
		}
		if outcome.Warning != "" {
			fmt.Fprintf(out, "Warning: %s\n", outcome.Warning)
		}
		return nil
	},
}

func init() {
	editCmd.Flags().StringVar(&editStart, "start", "", "new start time (HH:MM)")
	editCmd.Flags().StringVar(&editEnd, "end", "", "new end time (HH:MM)")
	editCmd.Flags().IntVar(&editDuration, "duration", 0, "new duration in minutes")
	editCmd.Flags().StringVar(&editLabel, "label", "", "new label")
	editCmd.Flags().StringVar(&editNotes, "notes", "", "notes for the block")
	editCmd.Flags().StringVar(&editProject, "project", "", "project name")
	editCmd.Flags().BoolVar(&editStrict, "strict", false, "fail instead of ignoring an edit that leaves no duration")
}
