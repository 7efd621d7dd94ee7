package output

import (
	"errors"
	"fmt"
)

// Error is a structured error with code, message, and optional hint.
// It is the normalized failure shape every adapter operation resolves to:
// transport failures, backend errors, and local configuration errors all
// surface through this type so callers never branch on the backend.
type Error struct {
	Code        string
	Message     string
	Hint        string
	HTTPStatus  int
	FieldErrors []FieldError
	Cause       error
}

// FieldError is one structured field-level error from a backend response body.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Hint)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *Error) ExitCode() int {
	return ExitCodeFor(e.Code)
}

// Error constructors for common cases.

func ErrUsage(msg string) *Error {
	return &Error{Code: CodeUsage, Message: msg}
}

func ErrUsageHint(msg, hint string) *Error {
	return &Error{Code: CodeUsage, Message: msg, Hint: hint}
}

func ErrNotFound(resource, identifier string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
	}
}

// ErrNotConfigured reports that the adapter was invoked before a base URL and
// token were set. Detected locally, before any network call.
func ErrNotConfigured() *Error {
	return &Error{
		Code:    CodeConfig,
		Message: "Not configured",
		Hint:    "Run: pmq config init (or set PMQ_BASE_URL and PMQ_API_TOKEN)",
	}
}

func ErrAuth(msg string) *Error {
	return &Error{
		Code:    CodeAuth,
		Message: msg,
		Hint:    "Check your API token: pmq config init (or set PMQ_API_TOKEN)",
	}
}

func ErrForbidden(msg string) *Error {
	return &Error{
		Code:       CodeForbidden,
		Message:    msg,
		HTTPStatus: 403,
	}
}

func ErrRateLimit(retryAfter int) *Error {
	hint := "Try again later"
	if retryAfter > 0 {
		hint = fmt.Sprintf("Try again in %d seconds", retryAfter)
	}
	return &Error{
		Code:       CodeRateLimit,
		Message:    "Rate limited",
		Hint:       hint,
		HTTPStatus: 429,
	}
}

func ErrNetwork(cause error) *Error {
	return &Error{
		Code:    CodeNetwork,
		Message: "Network error",
		Hint:    cause.Error(),
		Cause:   cause,
	}
}

func ErrAPI(status int, msg string) *Error {
	return &Error{
		Code:       CodeAPI,
		Message:    msg,
		HTTPStatus: status,
	}
}

// ErrCapability reports an operation that has no endpoint mapping for the
// selected backend. This is a configuration-level limitation of the backend,
// not a transient failure.
func ErrCapability(operation, backendName string) *Error {
	return &Error{
		Code:    CodeCapability,
		Message: fmt.Sprintf("%s is not supported by the %s backend", operation, backendName),
		Hint:    "Switch to the native backend: pmq config set backend taskchain",
	}
}

// AsError attempts to convert an error to an *Error.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{
		Code:    CodeAPI,
		Message: err.Error(),
		Cause:   err,
	}
}
