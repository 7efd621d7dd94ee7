package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskchain/pmq/internal/output"
)

// NewProjectsCmd creates the projects command group.
func NewProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage projects",
		Long:  "List and inspect projects (boards on Trello, projects elsewhere).",
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			return runProjectsList(cmd)
		},
	}

	cmd.AddCommand(
		newProjectsListCmd(),
		newProjectsShowCmd(),
	)

	return cmd
}

func newProjectsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			return runProjectsList(cmd)
		},
	}
}

func runProjectsList(cmd *cobra.Command) error {
	app, err := requireApp(cmd)
	if err != nil {
		return err
	}

	raw, err := app.Adapter.ListProjects(cmd.Context())
	if err != nil {
		return err
	}

	return app.OK(output.NormalizeData(raw),
		output.WithEntity("project"),
		output.WithSummary(listSummary(raw, "project")),
		output.WithBreadcrumbs(
			output.Breadcrumb{Action: "show", Cmd: "pmq projects show <id>", Description: "View a project"},
			output.Breadcrumb{Action: "tasks", Cmd: "pmq tasks list project:<id>", Description: "List its tasks"},
		),
	)
}

func newProjectsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show <id>",
		Aliases: []string{"get"},
		Short:   "Show a project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}

			id := cmdArgs[0]
			raw, err := app.Adapter.GetProject(cmd.Context(), id)
			if err != nil {
				return err
			}

			return app.OK(output.NormalizeData(raw),
				output.WithEntity("project"),
				output.WithBreadcrumbs(
					output.Breadcrumb{Action: "tasks", Cmd: fmt.Sprintf("pmq tasks list project:%s", id), Description: "List its tasks"},
					output.Breadcrumb{Action: "ccpm", Cmd: fmt.Sprintf("pmq ccpm report %s", id), Description: "View the buffer report"},
				),
			)
		},
	}
}
