// Package cli assembles the pmq command tree and handles top-level
// execution, flag parsing, and error output.
package cli

import (
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskchain/pmq/internal/appctx"
	"github.com/taskchain/pmq/internal/commands"
	"github.com/taskchain/pmq/internal/config"
	"github.com/taskchain/pmq/internal/hostutil"
	"github.com/taskchain/pmq/internal/output"
	"github.com/taskchain/pmq/internal/version"
)

// NewRootCmd creates the root cobra command.
func NewRootCmd() *cobra.Command {
	var flags appctx.GlobalFlags

	cmd := &cobra.Command{
		Use:           "pmq",
		Short:         "Command-line interface for project management backends",
		Long:          "pmq is a CLI for managing tasks and projects across PM backends,\nwith critical chain (CCPM) support on taskchain servers.",
		Version:       version.Full(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, cmdArgs []string) error {
			// Skip setup for help and version commands
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}

			cfg, err := config.Load(config.FlagOverrides{
				Backend: flags.Backend,
				BaseURL: resolveURLFlag(flags.BaseURL),
				Project: flags.Project,
				Timeout: flags.Timeout,
			})
			if err != nil {
				return err
			}

			app := appctx.NewApp(cfg)
			app.Flags = flags
			app.ApplyFlags()

			cmd.SetContext(appctx.WithApp(cmd.Context(), app))
			return nil
		},
	}

	// Allow flags anywhere in the command line
	cmd.Flags().SetInterspersed(true)
	cmd.PersistentFlags().SetInterspersed(true)

	// Output format flags
	cmd.PersistentFlags().BoolVarP(&flags.JSON, "json", "j", false, "Output as JSON")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Output data only, no envelope")
	cmd.PersistentFlags().BoolVarP(&flags.MD, "md", "m", false, "Output as Markdown (portable)")
	cmd.PersistentFlags().BoolVar(&flags.MD, "markdown", false, "Output as Markdown (portable)")
	cmd.PersistentFlags().BoolVar(&flags.Styled, "styled", false, "Force styled output (ANSI colors)")
	cmd.PersistentFlags().BoolVar(&flags.IDsOnly, "ids-only", false, "Output only IDs")
	cmd.PersistentFlags().BoolVar(&flags.Count, "count", false, "Output only count")
	cmd.PersistentFlags().BoolVar(&flags.Agent, "agent", false, "Agent mode (JSON + quiet)")

	// Context flags
	cmd.PersistentFlags().StringVarP(&flags.Backend, "backend", "b", "", "Backend ID (taskchain, jira, asana, trello, custom)")
	cmd.PersistentFlags().StringVarP(&flags.Project, "project", "p", "", "Project ID")
	cmd.PersistentFlags().StringVar(&flags.BaseURL, "base-url", "", "Backend base URL")
	cmd.PersistentFlags().StringVar(&flags.BaseURL, "url", "", "Backend base URL (alias for --base-url)")
	_ = cmd.PersistentFlags().MarkHidden("url")
	cmd.PersistentFlags().IntVar(&flags.Timeout, "timeout", 0, "Request timeout in seconds")

	// Behavior flags
	cmd.PersistentFlags().CountVarP(&flags.Verbose, "verbose", "v", "Verbose output (-v for ops, -vv for requests)")
	cmd.PersistentFlags().BoolVar(&flags.Stats, "stats", false, "Show session statistics")

	return cmd
}

// resolveURLFlag normalizes a --url flag value to a base URL.
func resolveURLFlag(raw string) string {
	if raw == "" {
		return ""
	}
	return hostutil.Normalize(raw)
}

// Execute runs the root command.
func Execute() {
	cmd := NewRootCmd()

	cmd.AddCommand(commands.NewTasksCmd())
	cmd.AddCommand(commands.NewProjectsCmd())
	cmd.AddCommand(commands.NewCCPMCmd())
	cmd.AddCommand(commands.NewConfigCmd())
	cmd.AddCommand(commands.NewStatusCmd())
	cmd.AddCommand(commands.NewMeCmd())
	cmd.AddCommand(commands.NewAPICmd())
	cmd.AddCommand(commands.NewMCPCmd())
	cmd.AddCommand(commands.NewCommandsCmd())
	cmd.AddCommand(commands.NewCompletionCmd())

	// Use ExecuteC to get the executed command (for correct context access)
	executedCmd, err := cmd.ExecuteC()
	if err != nil {
		err = transformCobraError(err)
		apiErr := output.AsError(err)

		// Use app.Err() when the app was initialized (keeps --stats output)
		if app := appctx.FromContext(executedCmd.Context()); app != nil {
			_ = app.Err(err)
			os.Exit(apiErr.ExitCode())
		}

		// Fallback: output error directly (app not available, e.g., during setup)
		pf := cmd.PersistentFlags()
		format := output.FormatAuto
		agent, _ := pf.GetBool("agent")
		quiet, _ := pf.GetBool("quiet")
		idsOnly, _ := pf.GetBool("ids-only")
		count, _ := pf.GetBool("count")
		styled, _ := pf.GetBool("styled")
		md, _ := pf.GetBool("md")
		jsonFlag, _ := pf.GetBool("json")

		if agent || quiet {
			format = output.FormatQuiet
		} else if idsOnly {
			format = output.FormatIDs
		} else if count {
			format = output.FormatCount
		} else if styled {
			format = output.FormatStyled
		} else if md {
			format = output.FormatMarkdown
		} else if jsonFlag {
			format = output.FormatJSON
		}

		writer := output.New(output.Options{
			Format: format,
			Writer: os.Stdout,
		})
		_ = writer.Err(err)

		os.Exit(apiErr.ExitCode())
	}
}

// transformCobraError rewrites Cobra's default error messages into the
// CLI's usage-error format so they carry the usage exit code and hint shape.
func transformCobraError(err error) error {
	msg := err.Error()

	if strings.HasPrefix(msg, "flag needs an argument: ") {
		flag := strings.TrimPrefix(msg, "flag needs an argument: ")
		return output.ErrUsage(flag + " requires a value")
	}

	if strings.HasPrefix(msg, "unknown flag: ") {
		flag := strings.TrimPrefix(msg, "unknown flag: ")
		return output.ErrUsage("Unknown option: " + flag)
	}

	if strings.HasPrefix(msg, "unknown shorthand flag: ") {
		re := regexp.MustCompile(`unknown shorthand flag: '.' in (-\w)`)
		if matches := re.FindStringSubmatch(msg); len(matches) > 1 {
			return output.ErrUsage("Unknown option: " + matches[1])
		}
	}

	if strings.Contains(msg, "invalid argument") {
		return output.ErrUsage(msg)
	}

	if strings.Contains(msg, "requires at least") && strings.Contains(msg, "arg(s)") {
		return output.ErrUsage("Argument(s) required")
	}

	if strings.Contains(msg, "arg(s), received 0") {
		return output.ErrUsage("ID required")
	}

	return err
}
