package commands

import (
	"github.com/spf13/cobra"

	"github.com/taskchain/pmq/internal/mcpserver"
)

// NewMCPCmd creates the mcp command exposing task operations as MCP tools.
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run as an MCP server",
		Long: `Expose task and project operations as Model Context Protocol tools
over stdio, for use by AI agents and editors.

Example client registration:
  claude mcp add pmq -- pmq mcp serve`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over stdio",
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}
			return mcpserver.Serve(mcpserver.New(app.Adapter))
		},
	})

	return cmd
}
