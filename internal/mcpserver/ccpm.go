package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/taskchain/pmq/internal/adapter"
)

// CCPMReportTool handles the pm_ccpm_report MCP tool.
type CCPMReportTool struct {
	adapter *adapter.Adapter
}

// NewCCPMReportTool creates a CCPMReportTool.
func NewCCPMReportTool(ad *adapter.Adapter) *CCPMReportTool {
	return &CCPMReportTool{adapter: ad}
}

// Definition returns the MCP tool definition for pm_ccpm_report.
func (t *CCPMReportTool) Definition() mcp.Tool {
	return mcp.NewTool("pm_ccpm_report",
		mcp.WithDescription(
			"Get the critical chain buffer report for a project. Includes "+
				"buffer consumption, chain completion, and buffer status "+
				"(on_track, buffer_warning, buffer_consumed). Native backend only.",
		),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project ID"),
		),
	)
}

// Handle processes the pm_ccpm_report tool call.
func (t *CCPMReportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := req.GetString("project", "")
	if projectID == "" {
		return mcp.NewToolResultError("'project' is required"), nil
	}

	raw, err := t.adapter.CCPMReport(ctx, projectID)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(raw), nil
}

// CCPMDashboardTool handles the pm_ccpm_dashboard MCP tool.
type CCPMDashboardTool struct {
	adapter *adapter.Adapter
}

// NewCCPMDashboardTool creates a CCPMDashboardTool.
func NewCCPMDashboardTool(ad *adapter.Adapter) *CCPMDashboardTool {
	return &CCPMDashboardTool{adapter: ad}
}

// Definition returns the MCP tool definition for pm_ccpm_dashboard.
func (t *CCPMDashboardTool) Definition() mcp.Tool {
	return mcp.NewTool("pm_ccpm_dashboard",
		mcp.WithDescription(
			"Get the cross-project critical chain dashboard: every CCPM-enabled "+
				"project with its buffer health. Native backend only.",
		),
	)
}

// Handle processes the pm_ccpm_dashboard tool call.
func (t *CCPMDashboardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := t.adapter.CCPMDashboard(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(raw), nil
}
