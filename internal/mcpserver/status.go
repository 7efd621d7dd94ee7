package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/taskchain/pmq/internal/adapter"
	"github.com/taskchain/pmq/internal/backend"
)

// StatusTool handles the pm_status MCP tool.
type StatusTool struct {
	adapter *adapter.Adapter
}

// NewStatusTool creates a StatusTool.
func NewStatusTool(ad *adapter.Adapter) *StatusTool {
	return &StatusTool{adapter: ad}
}

// Definition returns the MCP tool definition for pm_status.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("pm_status",
		mcp.WithDescription(
			"Check backend configuration and connectivity. Call this first: "+
				"it reports which backend is active, whether credentials are "+
				"set, and whether the server answers.",
		),
	)
}

// Handle processes the pm_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := t.adapter.Backend()
	name := backend.Resolve(id).Name

	if !t.adapter.Configured() {
		return mcp.NewToolResultText(fmt.Sprintf(
			"Backend: %s (%s)\nConfigured: no\n\nRun `pmq config init` to connect.", name, id)), nil
	}

	reachable := t.adapter.TestConnection(ctx)

	status := fmt.Sprintf("Backend: %s (%s)\nConfigured: yes\nReachable: %v", name, id, reachable)
	if !reachable {
		if lastErr := t.adapter.LastError(); lastErr != nil {
			status += fmt.Sprintf("\nLast error: %s", lastErr.Message)
		}
	}
	return mcp.NewToolResultText(status), nil
}
