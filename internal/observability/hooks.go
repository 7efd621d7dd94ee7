package observability

import (
	"sync"
	"time"
)

// Hooks receives notifications for adapter operations and HTTP requests.
type Hooks interface {
	OnOperationStart(op OperationInfo)
	OnOperationEnd(op OperationInfo, err error, duration time.Duration)
	OnRequestStart(info RequestInfo)
	OnRequestEnd(info RequestInfo, result RequestResult)
}

// Verify CLIHooks implements Hooks at compile time.
var _ Hooks = (*CLIHooks)(nil)

// CLIHooks implements Hooks for CLI observability.
// It supports configurable verbosity levels:
//   - 0: Silent (collect stats only, no output)
//   - 1: Operations only (log adapter operations)
//   - 2: Operations + requests (log both operations and HTTP requests)
type CLIHooks struct {
	mu        sync.Mutex
	level     int
	collector *SessionCollector
	writer    *TraceWriter
}

// NewCLIHooks creates a new CLIHooks with the given verbosity level.
// If collector is nil, metrics are not collected.
// If writer is nil, no trace output is produced.
func NewCLIHooks(level int, collector *SessionCollector, writer *TraceWriter) *CLIHooks {
	return &CLIHooks{
		level:     level,
		collector: collector,
		writer:    writer,
	}
}

// SetLevel changes the verbosity level at runtime.
func (h *CLIHooks) SetLevel(level int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.level = level
}

// Level returns the current verbosity level.
func (h *CLIHooks) Level() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.level
}

// OnOperationStart is called when an adapter operation begins.
func (h *CLIHooks) OnOperationStart(op OperationInfo) {
	h.mu.Lock()
	level := h.level
	writer := h.writer
	h.mu.Unlock()

	if level >= 1 && writer != nil {
		writer.WriteOperationStart(op)
	}
}

// OnOperationEnd is called when an adapter operation completes.
func (h *CLIHooks) OnOperationEnd(op OperationInfo, err error, duration time.Duration) {
	h.mu.Lock()
	level := h.level
	collector := h.collector
	writer := h.writer
	h.mu.Unlock()

	if collector != nil {
		collector.RecordOperation(OperationMetrics{
			Backend:    op.Backend,
			Operation:  op.Operation,
			IsMutation: op.IsMutation,
			ResourceID: op.ResourceID,
			Duration:   duration,
			Error:      err,
		})
	}

	if level >= 1 && writer != nil {
		writer.WriteOperationEnd(op, err, duration)
	}
}

// OnRequestStart is called before an HTTP request is sent.
func (h *CLIHooks) OnRequestStart(info RequestInfo) {
	h.mu.Lock()
	level := h.level
	writer := h.writer
	h.mu.Unlock()

	if level >= 2 && writer != nil {
		writer.WriteRequestStart(info)
	}
}

// OnRequestEnd is called after an HTTP request completes.
func (h *CLIHooks) OnRequestEnd(info RequestInfo, result RequestResult) {
	h.mu.Lock()
	collector := h.collector
	writer := h.writer
	level := h.level
	h.mu.Unlock()

	if collector != nil {
		collector.RecordRequest(RequestMetrics{
			Method:     info.Method,
			URL:        info.URL,
			StatusCode: result.StatusCode,
			Duration:   result.Duration,
			Error:      result.Error,
		})
	}

	if level >= 2 && writer != nil {
		writer.WriteRequestEnd(info, result)
	}
}
