package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskchain/pmq/internal/args"
	"github.com/taskchain/pmq/internal/models"
	"github.com/taskchain/pmq/internal/output"
)

// tasksListFlags holds the flags for the tasks list command.
type tasksListFlags struct {
	status   string
	priority string
	project  string
	page     int
	perPage  int
	sortBy   string
	order    string
}

// NewTasksCmd creates the tasks command group.
func NewTasksCmd() *cobra.Command {
	var flags tasksListFlags

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage tasks",
		Long:  "List, show, create, and manage tasks on the configured backend.",
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			// Default to list when called without subcommand
			return runTasksList(cmd, cmdArgs, flags)
		},
	}

	addTasksListFlags(cmd, &flags)

	cmd.AddCommand(
		newTasksListCmd(),
		newTasksShowCmd(),
		newTasksCreateCmd(),
		newTasksStartCmd(),
		newTasksProgressCmd(),
		newTasksCompleteCmd(),
		newTasksCommentCmd(),
		newTasksCommentsCmd(),
		newTasksTimeLogsCmd(),
		newTasksSearchCmd(),
	)

	return cmd
}

func addTasksListFlags(cmd *cobra.Command, flags *tasksListFlags) {
	cmd.Flags().StringVarP(&flags.status, "status", "s", "", "Filter by status (pending, in_progress, completed)")
	cmd.Flags().StringVar(&flags.priority, "priority", "", "Filter by priority (urgent, high, medium, low)")
	cmd.Flags().StringVar(&flags.project, "in", "", "Project ID")
	cmd.Flags().IntVar(&flags.page, "page", 0, "Page number")
	cmd.Flags().IntVar(&flags.perPage, "per-page", 0, "Results per page")
	cmd.Flags().StringVar(&flags.sortBy, "sort", "", "Sort field")
	cmd.Flags().StringVar(&flags.order, "order", "", "Sort order (asc, desc)")
}

func newTasksListCmd() *cobra.Command {
	var flags tasksListFlags

	cmd := &cobra.Command{
		Use:   "list [filters...]",
		Short: "List tasks",
		Long: `List tasks, optionally filtered.

Bare keywords are recognized as filters: a status (pending, in_progress,
completed), a priority (urgent, high, medium, low), or project:<id>.

  pmq tasks list pending high project:3`,
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			return runTasksList(cmd, cmdArgs, flags)
		},
	}

	addTasksListFlags(cmd, &flags)

	return cmd
}

func runTasksList(cmd *cobra.Command, cmdArgs []string, flags tasksListFlags) error {
	app, err := requireApp(cmd)
	if err != nil {
		return err
	}

	filters := args.ParseTaskFilters(cmdArgs)

	// Flags win over bare keywords
	if flags.status != "" {
		filters.Status = flags.status
	}
	if flags.priority != "" {
		filters.Priority = flags.priority
	}
	if flags.project != "" {
		filters.ProjectID = flags.project
	}
	if filters.ProjectID == "" {
		filters.ProjectID = app.Flags.Project
	}
	if filters.ProjectID == "" {
		filters.ProjectID = app.Config.DefaultProjectID
	}
	filters.Page = flags.page
	filters.PerPage = flags.perPage
	filters.SortBy = flags.sortBy
	filters.SortOrder = flags.order

	raw, err := app.Adapter.ListTasks(cmd.Context(), filters)
	if err != nil {
		return err
	}

	return app.OK(output.NormalizeData(raw),
		output.WithEntity("task"),
		output.WithSummary(listSummary(raw, "task")),
		output.WithBreadcrumbs(
			output.Breadcrumb{Action: "show", Cmd: "pmq tasks show <id>", Description: "View a task"},
			output.Breadcrumb{Action: "create", Cmd: "pmq tasks create <name> [key:value...]", Description: "Create a task"},
		),
	)
}

func newTasksShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show <id>",
		Aliases: []string{"get"},
		Short:   "Show a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}

			id := cmdArgs[0]
			raw, err := app.Adapter.GetTask(cmd.Context(), id)
			if err != nil {
				return err
			}

			return app.OK(output.NormalizeData(raw),
				output.WithEntity("task"),
				output.WithBreadcrumbs(
					output.Breadcrumb{Action: "start", Cmd: fmt.Sprintf("pmq tasks start %s", id), Description: "Start the task"},
					output.Breadcrumb{Action: "complete", Cmd: fmt.Sprintf("pmq tasks complete %s", id), Description: "Complete the task"},
					output.Breadcrumb{Action: "comment", Cmd: fmt.Sprintf("pmq tasks comment %s <text>", id), Description: "Add a comment"},
				),
			)
		},
	}
}

func newTasksCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name> [key:value...]",
		Short: "Create a task",
		Long: `Create a task. Free text becomes the name; key:value tokens set fields.

Recognized keys: project, estimate, type, name, desc, due, priority, assignee.

  pmq tasks create "Fix bug" project:3 estimate:2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}

			fields, err := args.ParseTaskFields(cmdArgs)
			if err != nil {
				return err
			}
			if fields.ProjectID == "" {
				fields.ProjectID = app.Flags.Project
			}
			if fields.ProjectID == "" {
				fields.ProjectID = app.Config.DefaultProjectID
			}

			raw, err := app.Adapter.CreateTask(cmd.Context(), fields)
			if err != nil {
				return err
			}

			id := extractID(raw)
			crumbs := []output.Breadcrumb{}
			if id != "" {
				crumbs = append(crumbs,
					output.Breadcrumb{Action: "show", Cmd: fmt.Sprintf("pmq tasks show %s", id), Description: "View the task"},
					output.Breadcrumb{Action: "start", Cmd: fmt.Sprintf("pmq tasks start %s", id), Description: "Start working on it"},
				)
			}

			summary := fmt.Sprintf("Created task %q", fields.Name)
			if id != "" {
				summary = fmt.Sprintf("Created task #%s %q", id, fields.Name)
			}

			return app.OK(output.NormalizeData(raw),
				output.WithEntity("task"),
				output.WithSummary(summary),
				output.WithBreadcrumbs(crumbs...),
			)
		},
	}

	return cmd
}

func newTasksStartCmd() *cobra.Command {
	var comment string
	var timeLog bool

	cmd := &cobra.Command{
		Use:   "start <id>",
		Short: "Start a task",
		Long:  "Move a task to in-progress, optionally starting a time log.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}

			id := cmdArgs[0]
			opts := models.StartOptions{Comment: comment, TimeLog: timeLog}
			raw, err := app.Adapter.StartTask(cmd.Context(), id, opts)
			if err != nil {
				return err
			}

			return app.OK(output.NormalizeData(raw),
				output.WithEntity("task"),
				output.WithSummary(fmt.Sprintf("Started task #%s", id)),
				output.WithBreadcrumbs(
					output.Breadcrumb{Action: "progress", Cmd: fmt.Sprintf("pmq tasks progress %s <pct>", id), Description: "Record progress"},
					output.Breadcrumb{Action: "complete", Cmd: fmt.Sprintf("pmq tasks complete %s", id), Description: "Complete the task"},
				),
			)
		},
	}

	cmd.Flags().StringVarP(&comment, "comment", "c", "", "Comment recorded with the transition")
	cmd.Flags().BoolVar(&timeLog, "time-log", false, "Start a time log entry")

	return cmd
}

func newTasksProgressCmd() *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   "progress <id> <percentage>",
		Short: "Update task progress",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}

			id := cmdArgs[0]
			pct, err := strconv.Atoi(cmdArgs[1])
			if err != nil || pct < 0 || pct > 100 {
				return output.ErrUsageHint("Invalid percentage",
					"Progress must be a whole number between 0 and 100")
			}

			update := models.ProgressUpdate{Percentage: pct, Comment: comment}
			raw, err := app.Adapter.UpdateProgress(cmd.Context(), id, update)
			if err != nil {
				return err
			}

			return app.OK(output.NormalizeData(raw),
				output.WithEntity("task"),
				output.WithSummary(fmt.Sprintf("Task #%s at %d%%", id, pct)),
			)
		},
	}

	cmd.Flags().StringVarP(&comment, "comment", "c", "", "Comment recorded with the update")

	return cmd
}

func newTasksCompleteCmd() *cobra.Command {
	var comment string
	var timeSpent float64

	cmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Complete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}

			id := cmdArgs[0]
			opts := models.CompleteOptions{Comment: comment, TimeSpent: timeSpent}
			raw, err := app.Adapter.CompleteTask(cmd.Context(), id, opts)
			if err != nil {
				return err
			}

			return app.OK(output.NormalizeData(raw),
				output.WithEntity("task"),
				output.WithSummary(fmt.Sprintf("Completed task #%s", id)),
				output.WithBreadcrumbs(
					output.Breadcrumb{Action: "list", Cmd: "pmq tasks list pending", Description: "See what's next"},
				),
			)
		},
	}

	cmd.Flags().StringVarP(&comment, "comment", "c", "", "Completion comment")
	cmd.Flags().Float64Var(&timeSpent, "time-spent", 0, "Hours spent on the task")

	return cmd
}

func newTasksCommentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comment <id> <text...>",
		Short: "Comment on a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}

			id := cmdArgs[0]
			text := strings.Join(cmdArgs[1:], " ")
			if strings.TrimSpace(text) == "" {
				return output.ErrUsage("Comment text required")
			}

			raw, err := app.Adapter.AddComment(cmd.Context(), id, text)
			if err != nil {
				return err
			}

			return app.OK(output.NormalizeData(raw),
				output.WithSummary(fmt.Sprintf("Commented on task #%s", id)),
				output.WithBreadcrumbs(
					output.Breadcrumb{Action: "comments", Cmd: fmt.Sprintf("pmq tasks comments %s", id), Description: "View comments"},
				),
			)
		},
	}
}

func newTasksCommentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comments <id>",
		Short: "List task comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}

			raw, err := app.Adapter.ListComments(cmd.Context(), cmdArgs[0])
			if err != nil {
				return err
			}

			return app.OK(output.NormalizeData(raw),
				output.WithSummary(listSummary(raw, "comment")),
			)
		},
	}
}

func newTasksTimeLogsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "time-logs <id>",
		Aliases: []string{"timelogs"},
		Short:   "List task time logs",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}

			raw, err := app.Adapter.GetTimeLogs(cmd.Context(), cmdArgs[0])
			if err != nil {
				return err
			}

			return app.OK(output.NormalizeData(raw),
				output.WithSummary(listSummary(raw, "time log")),
			)
		},
	}
}

func newTasksSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query...>",
		Short: "Search tasks",
		Long:  "Free-text task search, translated to whatever the backend supports.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}

			query := strings.Join(cmdArgs, " ")
			raw, err := app.Adapter.SearchTasks(cmd.Context(), query)
			if err != nil {
				return err
			}

			return app.OK(output.NormalizeData(raw),
				output.WithEntity("task"),
				output.WithSummary(listSummary(raw, "result")),
			)
		},
	}
}
