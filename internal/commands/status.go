package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskchain/pmq/internal/backend"
	"github.com/taskchain/pmq/internal/output"
)

// NewStatusCmd creates the status command that reports connection health.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show backend connection status",
		Long:  "Check which backend is configured and whether it is reachable.",
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}

			profile := backend.Resolve(app.Config.Backend)
			data := map[string]any{
				"backend":    profile.ID,
				"name":       profile.Name,
				"baseUrl":    app.Config.BaseURL,
				"configured": app.Adapter.Configured(),
			}

			if !app.Adapter.Configured() {
				data["reachable"] = false
				return app.OK(data,
					output.WithSummary(fmt.Sprintf("%s: not configured", profile.Name)),
					output.WithBreadcrumbs(
						output.Breadcrumb{Action: "init", Cmd: "pmq config init", Description: "Connect a backend"},
					),
				)
			}

			reachable := app.Adapter.TestConnection(cmd.Context())
			data["reachable"] = reachable

			if !reachable {
				if apiErr := app.Adapter.LastError(); apiErr != nil {
					data["error"] = apiErr.Message
				}
				return app.OK(data,
					output.WithSummary(fmt.Sprintf("%s at %s is not responding", profile.Name, app.Config.BaseURL)),
					output.WithBreadcrumbs(
						output.Breadcrumb{Action: "config", Cmd: "pmq config show", Description: "Review settings"},
					),
				)
			}

			if user, err := app.Adapter.CurrentUser(cmd.Context()); err == nil {
				data["user"] = output.NormalizeData(user)
			}

			return app.OK(data,
				output.WithSummary(fmt.Sprintf("Connected to %s at %s", profile.Name, app.Config.BaseURL)),
				output.WithBreadcrumbs(
					output.Breadcrumb{Action: "tasks", Cmd: "pmq tasks list", Description: "List tasks"},
					output.Breadcrumb{Action: "projects", Cmd: "pmq projects list", Description: "List projects"},
				),
			)
		},
	}
}
