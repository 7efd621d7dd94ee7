package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/taskchain/pmq/internal/adapter"
)

// ListProjectsTool handles the pm_list_projects MCP tool.
type ListProjectsTool struct {
	adapter *adapter.Adapter
}

// NewListProjectsTool creates a ListProjectsTool.
func NewListProjectsTool(ad *adapter.Adapter) *ListProjectsTool {
	return &ListProjectsTool{adapter: ad}
}

// Definition returns the MCP tool definition for pm_list_projects.
func (t *ListProjectsTool) Definition() mcp.Tool {
	return mcp.NewTool("pm_list_projects",
		mcp.WithDescription(
			"List projects (Jira projects, Asana projects, Trello boards, "+
				"or native projects, depending on the backend).",
		),
		mcp.WithString("id",
			mcp.Description("Fetch a single project by ID instead of listing"),
		),
	)
}

// Handle processes the pm_list_projects tool call.
func (t *ListProjectsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if id := req.GetString("id", ""); id != "" {
		raw, err := t.adapter.GetProject(ctx, id)
		if err != nil {
			return errorResult(err), nil
		}
		return jsonResult(raw), nil
	}

	raw, err := t.adapter.ListProjects(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(raw), nil
}
