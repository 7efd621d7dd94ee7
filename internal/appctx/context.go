// Package appctx provides application context helpers.
package appctx

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/taskchain/pmq/internal/adapter"
	"github.com/taskchain/pmq/internal/auth"
	"github.com/taskchain/pmq/internal/config"
	"github.com/taskchain/pmq/internal/observability"
	"github.com/taskchain/pmq/internal/output"
)

// contextKey is a private type for context keys.
type contextKey string

const appKey contextKey = "app"

// App holds the shared application context for all commands.
type App struct {
	Config  *config.Config
	Tokens  *auth.Store
	Adapter *adapter.Adapter
	Output  *output.Writer

	// Observability
	Collector *observability.SessionCollector
	Hooks     *observability.CLIHooks

	// Flags holds the global flag values
	Flags GlobalFlags
}

// GlobalFlags holds values for global CLI flags.
type GlobalFlags struct {
	// Output format flags
	JSON    bool
	Quiet   bool
	MD      bool // Literal Markdown syntax output
	Styled  bool // Force ANSI styled output (even when piped)
	IDsOnly bool
	Count   bool
	Agent   bool

	// Context flags
	Backend string
	Project string
	BaseURL string
	Timeout int

	// Behavior flags
	Verbose int // 0=off, 1=operations, 2=operations+requests (stacks with -v -v or -vv)
	Stats   bool
}

// NewApp creates a new App with the given configuration. The credential is
// resolved from the keyring-backed token store for the configured origin,
// falling back to the token persisted in the config file.
func NewApp(cfg *config.Config) *App {
	tokens := auth.NewStore("")

	token := cfg.APIToken
	if cfg.BaseURL != "" {
		if creds, err := tokens.Load(cfg.BaseURL); err == nil && creds.Token != "" {
			token = creds.Token
		}
	}

	// Collector always runs to gather stats; hooks control trace verbosity.
	// Level 0 initially; ApplyFlags sets the actual level from -v flags.
	collector := observability.NewSessionCollector()
	hooks := observability.NewCLIHooks(0, collector, observability.NewTraceWriter())

	pm := adapter.New(cfg, token)
	pm.SetHooks(hooks)

	format := output.FormatAuto
	switch cfg.Format {
	case "json":
		format = output.FormatJSON
	case "markdown", "md":
		format = output.FormatMarkdown
	case "quiet":
		format = output.FormatQuiet
	}

	return &App{
		Config:    cfg,
		Tokens:    tokens,
		Adapter:   pm,
		Collector: collector,
		Hooks:     hooks,
		Output: output.New(output.Options{
			Format: format,
			Writer: os.Stdout,
		}),
	}
}

// ApplyFlags applies global flag values to the app configuration.
func (a *App) ApplyFlags() {
	// Apply output format from flags (order matters: specific modes first)
	if a.Flags.Agent {
		// Agent mode = quiet JSON (data only, no envelope)
		a.setFormat(output.FormatQuiet)
	} else if a.Flags.IDsOnly {
		a.setFormat(output.FormatIDs)
	} else if a.Flags.Count {
		a.setFormat(output.FormatCount)
	} else if a.Flags.Quiet {
		a.setFormat(output.FormatQuiet)
	} else if a.Flags.JSON {
		a.setFormat(output.FormatJSON)
	} else if a.Flags.Styled {
		a.setFormat(output.FormatStyled)
	} else if a.Flags.MD {
		a.setFormat(output.FormatMarkdown)
	}

	// Runtime backend/origin overrides take effect before the first call.
	if a.Flags.Backend != "" {
		a.Adapter.SetBackend(a.Flags.Backend)
	}
	if a.Flags.BaseURL != "" {
		a.Adapter.SetBaseURL(a.Flags.BaseURL)
	}
	if a.Flags.Timeout > 0 {
		a.Adapter.SetTimeout(a.Flags.Timeout)
	}

	// Determine verbosity level from flags and PMQ_DEBUG env var
	verboseLevel := a.Flags.Verbose
	if debugEnv := os.Getenv("PMQ_DEBUG"); debugEnv != "" {
		// PMQ_DEBUG can be "1", "2", or "true" (treated as 2 for full debug)
		if level, err := strconv.Atoi(debugEnv); err == nil {
			if level > verboseLevel {
				verboseLevel = level
			}
		} else if debugEnv == "true" {
			verboseLevel = 2
		}
	}

	if a.Hooks != nil {
		a.Hooks.SetLevel(verboseLevel)
	}
}

func (a *App) setFormat(format output.Format) {
	a.Output = output.New(output.Options{
		Format: format,
		Writer: os.Stdout,
	})
}

// OK outputs a success response, automatically including stats if --stats flag is set.
func (a *App) OK(data any, opts ...output.ResponseOption) error {
	if a.Flags.Stats && a.Collector != nil {
		stats := a.Collector.Summary()
		opts = append(opts, output.WithStats(stats.ToMap()))
	}
	return a.Output.OK(data, opts...)
}

// Err outputs an error response, printing stats to stderr if --stats flag is set.
func (a *App) Err(err error) error {
	if outputErr := a.Output.Err(err); outputErr != nil {
		return outputErr
	}

	// Print stats to stderr if enabled, but not in machine-consumable modes
	// (agent, quiet, ids-only, count are meant for programmatic consumption)
	if a.Flags.Stats && a.Collector != nil && !a.isMachineOutput() {
		stats := a.Collector.Summary()
		if parts := stats.FormatParts(); len(parts) > 0 {
			fmt.Fprintf(os.Stderr, "\nStats: %s\n", strings.Join(parts, " | "))
		}
	}
	return nil
}

// isMachineOutput returns true if the output mode is intended for programmatic consumption.
// Checks both flags and config-driven format settings.
func (a *App) isMachineOutput() bool {
	if a.Flags.Agent || a.Flags.Quiet || a.Flags.IDsOnly || a.Flags.Count {
		return true
	}
	if a.Config != nil && a.Config.Format == "quiet" {
		return true
	}
	return false
}

// IsInteractive returns true if the terminal supports interactive prompts.
func (a *App) IsInteractive() bool {
	if a.Flags.Agent || a.Flags.JSON || a.Flags.Quiet || a.Flags.IDsOnly || a.Flags.Count {
		return false
	}

	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// WithApp stores the app in the context.
func WithApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appKey, app)
}

// FromContext retrieves the app from the context.
func FromContext(ctx context.Context) *App {
	app, _ := ctx.Value(appKey).(*App)
	return app
}
