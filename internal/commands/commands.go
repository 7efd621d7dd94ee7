package commands

import (
	"github.com/spf13/cobra"

	"github.com/taskchain/pmq/internal/output"
)

// CommandInfo describes a CLI command.
type CommandInfo struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Actions     []string `json:"actions,omitempty"`
}

// CommandCategory groups commands by category.
type CommandCategory struct {
	Name     string        `json:"name"`
	Commands []CommandInfo `json:"commands"`
}

// commandCategories returns all command categories for the catalog.
func commandCategories() []CommandCategory {
	return []CommandCategory{
		{
			Name: "Core Commands",
			Commands: []CommandInfo{
				{Name: "tasks", Category: "core", Description: "Manage tasks", Actions: []string{"list", "show", "create", "start", "progress", "complete", "comment", "comments", "time-logs", "search"}},
				{Name: "projects", Category: "core", Description: "Manage projects", Actions: []string{"list", "show"}},
			},
		},
		{
			Name: "Critical Chain",
			Commands: []CommandInfo{
				{Name: "ccpm", Category: "ccpm", Description: "Critical chain project management", Actions: []string{"enable", "analyze", "report", "buffer-status", "buffer", "recalculate", "resources", "feeding-buffers", "chain", "dashboard"}},
			},
		},
		{
			Name: "Setup & Diagnostics",
			Commands: []CommandInfo{
				{Name: "config", Category: "setup", Description: "Manage configuration", Actions: []string{"show", "init", "set", "unset", "path"}},
				{Name: "status", Category: "setup", Description: "Show backend connection status"},
				{Name: "me", Category: "setup", Description: "Show current user profile"},
			},
		},
		{
			Name: "Additional Commands",
			Commands: []CommandInfo{
				{Name: "api", Category: "additional", Description: "Raw API access", Actions: []string{"get", "post", "put", "delete"}},
				{Name: "mcp", Category: "additional", Description: "MCP server integration", Actions: []string{"serve"}},
				{Name: "commands", Category: "additional", Description: "List all commands"},
				{Name: "completion", Category: "additional", Description: "Generate shell completions", Actions: []string{"bash", "zsh", "fish", "powershell"}},
				{Name: "help", Category: "additional", Description: "Show help"},
				{Name: "version", Category: "additional", Description: "Show version"},
			},
		},
	}
}

// CatalogCommandNames returns all command names from the catalog.
// Used by tests to verify catalog matches registered commands.
func CatalogCommandNames() []string {
	categories := commandCategories()
	total := 0
	for _, cat := range categories {
		total += len(cat.Commands)
	}
	names := make([]string, 0, total)
	for _, cat := range categories {
		for _, cmd := range cat.Commands {
			names = append(names, cmd.Name)
		}
	}
	return names
}

// NewCommandsCmd creates the commands listing command.
func NewCommandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "commands",
		Aliases: []string{"cmds"},
		Short:   "List all available commands",
		Long:    "List all available pmq commands organized by category.",
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}

			return app.OK(commandCategories(),
				output.WithSummary("All available pmq commands"),
				output.WithBreadcrumbs(
					output.Breadcrumb{Action: "help", Cmd: "pmq --help", Description: "View help"},
				),
			)
		},
	}
}
