package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/taskchain/pmq/internal/adapter"
	"github.com/taskchain/pmq/internal/models"
)

// ListTasksTool handles the pm_list_tasks MCP tool.
type ListTasksTool struct {
	adapter *adapter.Adapter
}

// NewListTasksTool creates a ListTasksTool.
func NewListTasksTool(ad *adapter.Adapter) *ListTasksTool {
	return &ListTasksTool{adapter: ad}
}

// Definition returns the MCP tool definition for pm_list_tasks.
func (t *ListTasksTool) Definition() mcp.Tool {
	return mcp.NewTool("pm_list_tasks",
		mcp.WithDescription(
			"List tasks from the configured project management backend. "+
				"Filters translate to whatever the backend natively supports.",
		),
		mcp.WithString("status",
			mcp.Description("Filter by status: pending, in_progress, completed"),
		),
		mcp.WithString("priority",
			mcp.Description("Filter by priority: urgent, high, medium, low"),
		),
		mcp.WithString("project",
			mcp.Description("Filter by project ID"),
		),
		mcp.WithString("query",
			mcp.Description("Free-text search instead of listing"),
		),
		mcp.WithNumber("per_page",
			mcp.Description("Max results per page (backend-dependent default)"),
		),
	)
}

// Handle processes the pm_list_tasks tool call.
func (t *ListTasksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if query := req.GetString("query", ""); query != "" {
		raw, err := t.adapter.SearchTasks(ctx, query)
		if err != nil {
			return errorResult(err), nil
		}
		return jsonResult(raw), nil
	}

	filters := models.TaskFilters{
		Status:    req.GetString("status", ""),
		Priority:  req.GetString("priority", ""),
		ProjectID: req.GetString("project", ""),
		PerPage:   intArg(req, "per_page", 0),
	}

	raw, err := t.adapter.ListTasks(ctx, filters)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(raw), nil
}

// CreateTaskTool handles the pm_create_task MCP tool.
type CreateTaskTool struct {
	adapter *adapter.Adapter
}

// NewCreateTaskTool creates a CreateTaskTool.
func NewCreateTaskTool(ad *adapter.Adapter) *CreateTaskTool {
	return &CreateTaskTool{adapter: ad}
}

// Definition returns the MCP tool definition for pm_create_task.
func (t *CreateTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("pm_create_task",
		mcp.WithDescription(
			"Create a task on the configured backend. Fields the backend "+
				"has no analogue for are dropped, never invented.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Task name"),
		),
		mcp.WithString("description",
			mcp.Description("Longer task description"),
		),
		mcp.WithString("project",
			mcp.Description("Project ID the task belongs to"),
		),
		mcp.WithString("priority",
			mcp.Description("Priority: urgent, high, medium, low"),
		),
		mcp.WithNumber("estimate",
			mcp.Description("Estimated effort in hours"),
		),
		mcp.WithString("due_date",
			mcp.Description("Due date, YYYY-MM-DD"),
		),
		mcp.WithString("assignee",
			mcp.Description("Assignee identifier in the backend's own format"),
		),
	)
}

// Handle processes the pm_create_task tool call.
func (t *CreateTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}

	fields := models.TaskFields{
		Name:        name,
		Description: req.GetString("description", ""),
		ProjectID:   req.GetString("project", ""),
		Priority:    req.GetString("priority", ""),
		Estimation:  req.GetFloat("estimate", 0),
		DueDate:     req.GetString("due_date", ""),
		Assignee:    req.GetString("assignee", ""),
	}

	raw, err := t.adapter.CreateTask(ctx, fields)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(raw), nil
}

// StartTaskTool handles the pm_start_task MCP tool.
type StartTaskTool struct {
	adapter *adapter.Adapter
}

// NewStartTaskTool creates a StartTaskTool.
func NewStartTaskTool(ad *adapter.Adapter) *StartTaskTool {
	return &StartTaskTool{adapter: ad}
}

// Definition returns the MCP tool definition for pm_start_task.
func (t *StartTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("pm_start_task",
		mcp.WithDescription("Move a task to in-progress."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task ID"),
		),
		mcp.WithString("comment",
			mcp.Description("Optional comment recorded with the transition"),
		),
	)
}

// Handle processes the pm_start_task tool call.
func (t *StartTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	opts := models.StartOptions{Comment: req.GetString("comment", "")}
	raw, err := t.adapter.StartTask(ctx, id, opts)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(raw), nil
}

// CompleteTaskTool handles the pm_complete_task MCP tool.
type CompleteTaskTool struct {
	adapter *adapter.Adapter
}

// NewCompleteTaskTool creates a CompleteTaskTool.
func NewCompleteTaskTool(ad *adapter.Adapter) *CompleteTaskTool {
	return &CompleteTaskTool{adapter: ad}
}

// Definition returns the MCP tool definition for pm_complete_task.
func (t *CompleteTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("pm_complete_task",
		mcp.WithDescription("Mark a task as completed."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task ID"),
		),
		mcp.WithString("comment",
			mcp.Description("Optional completion comment"),
		),
		mcp.WithNumber("time_spent",
			mcp.Description("Hours spent, recorded where the backend tracks time"),
		),
	)
}

// Handle processes the pm_complete_task tool call.
func (t *CompleteTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	opts := models.CompleteOptions{
		Comment:   req.GetString("comment", ""),
		TimeSpent: req.GetFloat("time_spent", 0),
	}
	raw, err := t.adapter.CompleteTask(ctx, id, opts)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(raw), nil
}
