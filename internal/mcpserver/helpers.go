package mcpserver

import (
	"bytes"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/taskchain/pmq/internal/output"
)

// intArg extracts an integer argument, returning defaultVal if the key is
// missing or not a number (JSON numbers arrive as float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// jsonResult pretty-prints a raw backend payload as a text result.
func jsonResult(raw json.RawMessage) *mcp.CallToolResult {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return mcp.NewToolResultText(string(raw))
	}
	return mcp.NewToolResultText(buf.String())
}

// errorResult renders an adapter error with its code and hint so the
// agent can distinguish auth problems from capability gaps.
func errorResult(err error) *mcp.CallToolResult {
	e := output.AsError(err)
	msg := e.Code + ": " + e.Message
	if e.Hint != "" {
		msg += "\nHint: " + e.Hint
	}
	return mcp.NewToolResultError(msg)
}
