package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskchain/pmq/internal/args"
	"github.com/taskchain/pmq/internal/output"
)

// NewCCPMCmd creates the ccpm command group. Every subcommand requires the
// native backend; on others the adapter refuses with unsupported_backend
// before anything goes over the wire.
func NewCCPMCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ccpm",
		Short: "Critical chain project management",
		Long: `Critical chain scheduling: analysis, buffer tracking, and reporting.

These commands only work against the native TaskChain backend. The server
performs the analysis; pmq relays settings and renders results.`,
	}

	cmd.AddCommand(
		newCCPMAnalyzeCmd(),
		newCCPMEnableCmd(),
		newCCPMReportCmd(),
		newCCPMBufferStatusCmd(),
		newCCPMRecalculateCmd(),
		newCCPMResourcesCmd(),
		newCCPMFeedingBuffersCmd(),
		newCCPMChainCmd(),
		newCCPMBufferCmd(),
		newCCPMDashboardCmd(),
	)

	return cmd
}

func newCCPMAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [project]",
		Short: "Analyze the critical chain",
		Long:  "Run critical chain analysis on a project, identifying the chain and sizing buffers.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}

			project, err := resolveProject(app, firstArg(cmdArgs))
			if err != nil {
				return err
			}

			raw, err := app.Adapter.AnalyzeCriticalChain(cmd.Context(), project)
			if err != nil {
				return err
			}

			return app.OK(output.NormalizeData(raw),
				output.WithSummary(fmt.Sprintf("Analyzed critical chain for project %s", project)),
				output.WithBreadcrumbs(
					output.Breadcrumb{Action: "report", Cmd: fmt.Sprintf("pmq ccpm report %s", project), Description: "View the buffer report"},
					output.Breadcrumb{Action: "chain", Cmd: fmt.Sprintf("pmq ccpm chain %s", project), Description: "Show chain tasks"},
				),
			)
		},
	}
}

func newCCPMEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enable <project> [key:value...]",
		Short: "Enable critical chain scheduling",
		Long: `Enable CCPM on a project with optional settings.

Recognized keys: project-buffer, feeding-buffer, resource-utilization
(percentages), start-date (YYYY-MM-DD), duration (days), auto-analyze.

  pmq ccpm enable 7 project-buffer:50 auto-analyze:true`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}

			project := cmdArgs[0]
			settings, err := args.ParseCCPMSettings(cmdArgs[1:])
			if err != nil {
				return err
			}

			raw, err := app.Adapter.EnableCCPM(cmd.Context(), project, settings)
			if err != nil {
				return err
			}

			return app.OK(output.NormalizeData(raw),
				output.WithSummary(fmt.Sprintf("Enabled CCPM on project %s", project)),
				output.WithBreadcrumbs(
					output.Breadcrumb{Action: "analyze", Cmd: fmt.Sprintf("pmq ccpm analyze %s", project), Description: "Run the first analysis"},
				),
			)
		},
	}
}

func newCCPMReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report [project]",
		Short: "Buffer report",
		Long:  "Show the project buffer report: consumption, chain completion, and buffer status.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}

			project, err := resolveProject(app, firstArg(cmdArgs))
			if err != nil {
				return err
			}

			raw, err := app.Adapter.CCPMReport(cmd.Context(), project)
			if err != nil {
				return err
			}

			return app.OK(output.NormalizeData(raw),
				output.WithEntity("ccpm_report"),
			)
		},
	}
}

func newCCPMBufferStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buffer-status [project]",
		Short: "Buffer consumption status",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}

			project, err := resolveProject(app, firstArg(cmdArgs))
			if err != nil {
				return err
			}

			raw, err := app.Adapter.BufferStatus(cmd.Context(), project)
			if err != nil {
				return err
			}

			return app.OK(output.NormalizeData(raw))
		},
	}
}

func newCCPMRecalculateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recalculate [project]",
		Short: "Recalculate the critical chain",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}

			project, err := resolveProject(app, firstArg(cmdArgs))
			if err != nil {
				return err
			}

			raw, err := app.Adapter.RecalculateChain(cmd.Context(), project)
			if err != nil {
				return err
			}

			return app.OK(output.NormalizeData(raw),
				output.WithSummary(fmt.Sprintf("Recalculated chain for project %s", project)),
				output.WithBreadcrumbs(
					output.Breadcrumb{Action: "report", Cmd: fmt.Sprintf("pmq ccpm report %s", project), Description: "View the updated report"},
				),
			)
		},
	}
}

func newCCPMResourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "resources [project]",
		Aliases: []string{"resource-loading"},
		Short:   "Resource loading",
		Long:    "Show per-resource loading across the chain, highlighting overallocation.",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}

			project, err := resolveProject(app, firstArg(cmdArgs))
			if err != nil {
				return err
			}

			raw, err := app.Adapter.ResourceLoading(cmd.Context(), project)
			if err != nil {
				return err
			}

			return app.OK(output.NormalizeData(raw))
		},
	}
}

func newCCPMFeedingBuffersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feeding-buffers [project]",
		Short: "Feeding buffer status",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}

			project, err := resolveProject(app, firstArg(cmdArgs))
			if err != nil {
				return err
			}

			raw, err := app.Adapter.FeedingBuffers(cmd.Context(), project)
			if err != nil {
				return err
			}

			return app.OK(output.NormalizeData(raw))
		},
	}
}

func newCCPMChainCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "chain [project]",
		Aliases: []string{"chain-tasks"},
		Short:   "Critical chain tasks",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}

			project, err := resolveProject(app, firstArg(cmdArgs))
			if err != nil {
				return err
			}

			raw, err := app.Adapter.ChainTasks(cmd.Context(), project)
			if err != nil {
				return err
			}

			return app.OK(output.NormalizeData(raw),
				output.WithEntity("task"),
				output.WithSummary(listSummary(raw, "chain task")),
			)
		},
	}
}

func newCCPMBufferCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buffer <task-id> <percentage>",
		Short: "Report task buffer consumption",
		Long: `Report buffer consumption on a chain task. The status derives from
the percentage: above 75 the buffer is consumed, above 50 it is a warning.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}

			update, err := args.ParseBufferUpdate(cmdArgs)
			if err != nil {
				return err
			}

			raw, err := app.Adapter.UpdateTaskBuffer(cmd.Context(), update)
			if err != nil {
				return err
			}

			return app.OK(output.NormalizeData(raw),
				output.WithSummary(fmt.Sprintf("Task #%s buffer at %d%%", update.TaskID, update.Percentage)),
			)
		},
	}
}

func newCCPMDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Cross-project CCPM dashboard",
		Long:  "Show every CCPM-enabled project with its buffer health.",
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}

			raw, err := app.Adapter.CCPMDashboard(cmd.Context())
			if err != nil {
				return err
			}

			return app.OK(output.NormalizeData(raw),
				output.WithEntity("ccpm_report"),
			)
		},
	}
}

// firstArg returns the first positional argument, or empty.
func firstArg(cmdArgs []string) string {
	if len(cmdArgs) > 0 {
		return cmdArgs[0]
	}
	return ""
}
