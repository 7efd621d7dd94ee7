// Package mcpserver exposes the adapter surface as MCP tools so AI agents
// can drive project management workflows over stdio.
//
// Each tool follows the same pattern:
//   - A struct holding the adapter, injected via constructor
//   - Definition() returns the mcp.Tool schema
//   - Handle() runs the adapter call and renders the result
package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/taskchain/pmq/internal/adapter"
	"github.com/taskchain/pmq/internal/version"
)

// New creates the MCP server with all PM tools registered.
func New(ad *adapter.Adapter) *server.MCPServer {
	s := server.NewMCPServer(
		"pmq",
		version.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	listTasks := NewListTasksTool(ad)
	s.AddTool(listTasks.Definition(), listTasks.Handle)

	createTask := NewCreateTaskTool(ad)
	s.AddTool(createTask.Definition(), createTask.Handle)

	startTask := NewStartTaskTool(ad)
	s.AddTool(startTask.Definition(), startTask.Handle)

	completeTask := NewCompleteTaskTool(ad)
	s.AddTool(completeTask.Definition(), completeTask.Handle)

	listProjects := NewListProjectsTool(ad)
	s.AddTool(listProjects.Definition(), listProjects.Handle)

	ccpmReport := NewCCPMReportTool(ad)
	s.AddTool(ccpmReport.Definition(), ccpmReport.Handle)

	ccpmDashboard := NewCCPMDashboardTool(ad)
	s.AddTool(ccpmDashboard.Definition(), ccpmDashboard.Handle)

	status := NewStatusTool(ad)
	s.AddTool(status.Definition(), status.Handle)

	return s
}

// Serve runs the server on stdio. Blocks until the client disconnects.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func serverInstructions() string {
	return `pmq bridges AI agents to project management backends (TaskChain,
Jira, Asana, Trello, or a custom REST API) through one uniform tool surface.

Start with pm_status to confirm the backend is configured and reachable.
Task and project payloads are returned as raw JSON from the backend,
already unwrapped from any data envelope.

Critical chain (CCPM) tools only work against the native TaskChain
backend; on other backends they return an unsupported_backend error
instead of guessing.`
}
