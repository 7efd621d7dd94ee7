// Package output provides JSON/Markdown output formatting and error handling.
package output

// Exit codes for the embedded command surface. Hosts that run pmq as a
// standalone process get meaningful codes; embedded hosts can ignore them.
const (
	ExitOK         = 0 // Success
	ExitUsage      = 1 // Invalid arguments or flags
	ExitNotFound   = 2 // Resource not found
	ExitConfig     = 3 // Adapter not configured (missing URL/token)
	ExitForbidden  = 4 // Access denied
	ExitRateLimit  = 5 // Rate limited (429)
	ExitNetwork    = 6 // Connection/DNS/timeout error
	ExitAPI        = 7 // Server returned error
	ExitCapability = 8 // Operation unsupported by the selected backend
)

// Error codes for the JSON envelope.
const (
	CodeUsage      = "usage"
	CodeNotFound   = "not_found"
	CodeConfig     = "not_configured"
	CodeAuth       = "auth_required"
	CodeForbidden  = "forbidden"
	CodeRateLimit  = "rate_limit"
	CodeNetwork    = "network"
	CodeAPI        = "api_error"
	CodeCapability = "unsupported_backend"
)

// ExitCodeFor returns the exit code for a given error code.
func ExitCodeFor(code string) int {
	switch code {
	case CodeUsage:
		return ExitUsage
	case CodeNotFound:
		return ExitNotFound
	case CodeConfig, CodeAuth:
		return ExitConfig
	case CodeForbidden:
		return ExitForbidden
	case CodeRateLimit:
		return ExitRateLimit
	case CodeNetwork:
		return ExitNetwork
	case CodeAPI:
		return ExitAPI
	case CodeCapability:
		return ExitCapability
	default:
		return ExitAPI
	}
}
