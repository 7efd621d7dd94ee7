package commands

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskchain/pmq/internal/auth"
	"github.com/taskchain/pmq/internal/backend"
	"github.com/taskchain/pmq/internal/config"
	"github.com/taskchain/pmq/internal/output"
	"github.com/taskchain/pmq/internal/prompt"
)

// NewConfigCmd creates the config command for managing configuration.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage pmq configuration.

Configuration is loaded from multiple sources with the following precedence:
  flags > env > global > system > defaults

Config locations:
  - System: /etc/pmq/config.json
  - Global: ~/.config/pmq/config.json

API tokens live in the system keychain, not in config files.`,
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			return runConfigShow(cmd)
		},
	}

	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigInitCmd(),
		newConfigSetCmd(),
		newConfigUnsetCmd(),
		newConfigPathCmd(),
	)

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long:  "Display the current effective configuration with source information.",
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			return runConfigShow(cmd)
		},
	}
}

func runConfigShow(cmd *cobra.Command) error {
	app, err := requireApp(cmd)
	if err != nil {
		return err
	}

	configData := make(map[string]any)

	keys := []struct {
		key     string
		value   string
		include bool
	}{
		{"backend", app.Config.Backend, true},
		{"baseUrl", app.Config.BaseURL, app.Config.BaseURL != ""},
		{"timeout", strconv.Itoa(app.Config.Timeout), true},
		{"defaultProjectId", app.Config.DefaultProjectID, app.Config.DefaultProjectID != ""},
		{"format", app.Config.Format, app.Config.Format != ""},
		{"hints", fmt.Sprintf("%t", app.Config.Hints != nil && *app.Config.Hints), app.Config.Hints != nil},
		{"stats", fmt.Sprintf("%t", app.Config.Stats != nil && *app.Config.Stats), app.Config.Stats != nil},
	}

	for _, k := range keys {
		if !k.include {
			continue
		}
		source := app.Config.Sources[k.key]
		if source == "" {
			source = "default"
		}
		configData[k.key] = map[string]string{
			"value":  k.value,
			"source": source,
		}
	}

	// Report credential presence without revealing the token
	hasToken := app.Config.APIToken != ""
	if creds, err := app.Tokens.Load(app.Config.BaseURL); err == nil && creds.Token != "" {
		hasToken = true
	}
	configData["apiToken"] = map[string]string{
		"value":  tokenStatus(hasToken),
		"source": "keychain",
	}

	return app.OK(configData,
		output.WithSummary("Effective configuration"),
		output.WithBreadcrumbs(
			output.Breadcrumb{Action: "set", Cmd: "pmq config set <key> <value>", Description: "Set a config value"},
			output.Breadcrumb{Action: "init", Cmd: "pmq config init", Description: "Run the setup wizard"},
		),
	)
}

func tokenStatus(present bool) string {
	if present {
		return "(set)"
	}
	return "(not set)"
}

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Connect a backend",
		Long: `Interactive setup: pick a backend, enter its URL and credentials.

The token is stored in the system keychain when one is available,
falling back to a file readable only by the current user.`,
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}

			if !app.IsInteractive() {
				return output.ErrUsageHint("Setup requires an interactive terminal",
					"Set PMQ_BACKEND, PMQ_BASE_URL, and PMQ_API_TOKEN instead, or run without --json/--quiet")
			}

			result, err := prompt.RunSetup(app.Config)
			if err != nil {
				return fmt.Errorf("setup cancelled: %w", err)
			}

			store := config.NewStore("")
			if err := store.Update(func(cfg *config.Config) error {
				cfg.Backend = result.Backend
				cfg.BaseURL = result.BaseURL
				cfg.Timeout = result.Timeout
				cfg.APIToken = "" // token lives in the keychain
				return nil
			}); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			if err := app.Tokens.Save(result.BaseURL, &auth.Credentials{
				Token:   result.Token,
				Backend: result.Backend,
			}); err != nil {
				return fmt.Errorf("failed to store credentials: %w", err)
			}

			// Probe the connection with the fresh settings
			app.Adapter.SetBackend(result.Backend)
			app.Adapter.SetBaseURL(result.BaseURL)
			app.Adapter.SetToken(result.Token)
			app.Adapter.SetTimeout(result.Timeout)
			reachable := app.Adapter.TestConnection(cmd.Context())

			name := backend.Resolve(result.Backend).Name
			summary := fmt.Sprintf("Connected to %s at %s", name, result.BaseURL)
			if !reachable {
				summary = fmt.Sprintf("Saved %s config, but %s did not answer the probe", name, result.BaseURL)
			}

			return app.OK(map[string]any{
				"backend":   result.Backend,
				"baseUrl":   result.BaseURL,
				"reachable": reachable,
				"path":      store.Path(),
			},
				output.WithSummary(summary),
				output.WithBreadcrumbs(
					output.Breadcrumb{Action: "status", Cmd: "pmq status", Description: "Check the connection"},
					output.Breadcrumb{Action: "tasks", Cmd: "pmq tasks list", Description: "List tasks"},
				),
			)
		},
	}
}

// configKeys maps settable keys to how their values are validated and stored.
var configKeys = map[string]func(cfg *config.Config, value string) error{
	"backend": func(cfg *config.Config, value string) error {
		if !backend.Known(value) {
			return output.ErrUsageHint(
				fmt.Sprintf("Unknown backend %q", value),
				fmt.Sprintf("Known backends: %s (anything else runs as custom)", strings.Join(backend.IDs(), ", ")))
		}
		cfg.Backend = value
		return nil
	},
	"baseUrl": func(cfg *config.Config, value string) error {
		cfg.BaseURL = value
		return nil
	},
	"timeout": func(cfg *config.Config, value string) error {
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return output.ErrUsage("timeout must be a positive number of seconds")
		}
		cfg.Timeout = n
		return nil
	},
	"defaultProjectId": func(cfg *config.Config, value string) error {
		cfg.DefaultProjectID = value
		return nil
	},
	"format": func(cfg *config.Config, value string) error {
		switch value {
		case "auto", "json", "markdown", "md", "quiet":
			cfg.Format = value
			return nil
		}
		return output.ErrUsage("format must be auto, json, markdown, or quiet")
	},
	"hints": func(cfg *config.Config, value string) error {
		b, ok := parseBoolValue(value)
		if !ok {
			return output.ErrUsage("hints must be true/false (or 1/0)")
		}
		cfg.Hints = &b
		return nil
	},
	"stats": func(cfg *config.Config, value string) error {
		b, ok := parseBoolValue(value)
		if !ok {
			return output.ErrUsage("stats must be true/false (or 1/0)")
		}
		cfg.Stats = &b
		return nil
	},
	"autoStartTasks": func(cfg *config.Config, value string) error {
		b, ok := parseBoolValue(value)
		if !ok {
			return output.ErrUsage("autoStartTasks must be true/false (or 1/0)")
		}
		cfg.AutoStartTasks = b
		return nil
	},
	"notifications": func(cfg *config.Config, value string) error {
		b, ok := parseBoolValue(value)
		if !ok {
			return output.ErrUsage("notifications must be true/false (or 1/0)")
		}
		cfg.Notifications = b
		return nil
	},
}

func settableKeys() []string {
	names := make([]string, 0, len(configKeys))
	for k := range configKeys {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: fmt.Sprintf(`Set a configuration value in the global config file.

Valid keys: %s`, strings.Join(settableKeys(), ", ")),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}

			key, value := cmdArgs[0], cmdArgs[1]
			apply, ok := configKeys[key]
			if !ok {
				return output.ErrUsage(fmt.Sprintf("Invalid config key %q. Valid keys: %s",
					key, strings.Join(settableKeys(), ", ")))
			}

			store := config.NewStore("")
			if err := store.Update(func(cfg *config.Config) error {
				return apply(cfg, value)
			}); err != nil {
				return err
			}

			return app.OK(map[string]any{
				"key":    key,
				"value":  value,
				"path":   store.Path(),
				"status": "set",
			},
				output.WithSummary(fmt.Sprintf("Set %s = %s", key, value)),
				output.WithBreadcrumbs(
					output.Breadcrumb{Action: "show", Cmd: "pmq config show", Description: "View config"},
				),
			)
		},
	}
}

func newConfigUnsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Reset a configuration value to its default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}

			key := cmdArgs[0]
			if _, ok := configKeys[key]; !ok {
				return output.ErrUsage(fmt.Sprintf("Invalid config key %q. Valid keys: %s",
					key, strings.Join(settableKeys(), ", ")))
			}

			store := config.NewStore("")
			if err := store.Update(func(cfg *config.Config) error {
				resetKey(cfg, key)
				return nil
			}); err != nil {
				return err
			}

			return app.OK(map[string]any{
				"key":    key,
				"status": "unset",
			}, output.WithSummary(fmt.Sprintf("Reset %s to default", key)))
		},
	}
}

// resetKey restores one field to its default value.
func resetKey(cfg *config.Config, key string) {
	def := config.Default()
	switch key {
	case "backend":
		cfg.Backend = def.Backend
	case "baseUrl":
		cfg.BaseURL = ""
	case "timeout":
		cfg.Timeout = def.Timeout
	case "defaultProjectId":
		cfg.DefaultProjectID = ""
	case "format":
		cfg.Format = def.Format
	case "hints":
		cfg.Hints = nil
	case "stats":
		cfg.Stats = nil
	case "autoStartTasks":
		cfg.AutoStartTasks = def.AutoStartTasks
	case "notifications":
		cfg.Notifications = def.Notifications
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print config file locations",
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}

			store := config.NewStore("")
			return app.OK(map[string]any{
				"global": store.Path(),
				"system": "/etc/pmq/config.json",
				"exists": store.Exists(),
			}, output.WithSummary(store.Path()))
		},
	}
}

func parseBoolValue(value string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true, true
	case "false", "0", "no", "off":
		return false, true
	default:
		return false, false
	}
}
