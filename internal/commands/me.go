package commands

import (
	"github.com/spf13/cobra"

	"github.com/taskchain/pmq/internal/output"
)

// NewMeCmd creates the me command showing the authenticated user.
func NewMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show current user profile",
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}

			raw, err := app.Adapter.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}

			return app.OK(output.NormalizeData(raw),
				output.WithBreadcrumbs(
					output.Breadcrumb{Action: "tasks", Cmd: "pmq tasks list", Description: "List tasks"},
					output.Breadcrumb{Action: "status", Cmd: "pmq status", Description: "Check the connection"},
				),
			)
		},
	}
}
