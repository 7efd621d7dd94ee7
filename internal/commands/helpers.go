package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskchain/pmq/internal/appctx"
	"github.com/taskchain/pmq/internal/output"
)

// requireApp pulls the App from the command context.
func requireApp(cmd *cobra.Command) (*appctx.App, error) {
	app := appctx.FromContext(cmd.Context())
	if app == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return app, nil
}

// isNumeric checks if a string contains only digits (for ID detection).
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// resolveProject picks the project ID from arg, flag, then config default.
func resolveProject(app *appctx.App, explicit string) (string, error) {
	project := explicit
	if project == "" {
		project = app.Flags.Project
	}
	if project == "" {
		project = app.Config.DefaultProjectID
	}
	if project == "" {
		return "", output.ErrUsageHint("No project specified",
			"Pass a project ID or set defaultProjectId with 'pmq config set defaultProjectId <id>'")
	}
	return project, nil
}

// countItems reports how many items a raw list payload holds, for summaries.
// Returns -1 when the payload is not a JSON array.
func countItems(raw json.RawMessage) int {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return -1
	}
	return len(items)
}

// listSummary formats "N <noun>s" with a singular form for one item.
func listSummary(raw json.RawMessage, noun string) string {
	n := countItems(raw)
	if n < 0 {
		return ""
	}
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// extractID digs the created/updated entity's ID out of a raw payload so
// breadcrumbs can reference it. Checks "id" then "gid" (Asana).
func extractID(raw json.RawMessage) string {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	for _, key := range []string{"id", "gid", "key"} {
		switch v := obj[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}
