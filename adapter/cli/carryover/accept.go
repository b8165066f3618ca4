package carryover

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/workday/adapter/cli"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var acceptBlocks []string

var acceptCmd = &cobra.Command{
	Use:   "accept",
	Short: "Add yesterday's unfinished work to today",
	Long: `Commit yesterday's unfinished blocks as carried over and append one
work block of the same total length to today.

Examples:
  workday carryover accept
  workday carryover accept --blocks 1,3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if _, err := app.Session.Open(ctx, 0); err != nil {
			return err
		}

		info, err := app.CarryOver.FetchIncomplete(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch incomplete blocks: %w", err)
		}
		out := cmd.OutOrStdout()
		if info == nil {
			fmt.Fprintln(out, "Nothing to carry over.")
			return nil
		}

		ids := make([]uuid.UUID, 0, len(info.Blocks))
		if len(acceptBlocks) == 0 {
			for _, b := range info.Blocks {
				ids = append(ids, b.ID())
			}
		} else {
			for _, ref := range acceptBlocks {
				b, err := cli.ResolveBlock(info.Blocks, ref)
				if err != nil {
					return err
				}
				ids = append(ids, b.ID())
			}
		}

		if !app.CarryOver.Accept(ctx, ids) {
			return errors.New("carry-over was not applied")
		}
		view, err := app.Session.Schedule()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Carried %d block(s) into today (%dm).\n", len(ids), view.CarriedMinutes)
		return nil
	},
}

func init() {
	acceptCmd.Flags().StringSliceVar(&acceptBlocks, "blocks", nil, "blocks to carry, by position or id (default all)")
}
