package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/workday/adapter/cli"
	mcpinternal "github.com/felixgeelhaar/workday/internal/mcp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Expose the day's schedule, carry-over and XP as MCP tools over HTTP
on MCP_ADDR. Set MCP_AUTH_TOKEN to require a bearer token.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		err = mcpinternal.Serve(cmd.Context(), app.Config, app, cli.Logger())
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
