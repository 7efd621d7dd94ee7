// Package observability provides metrics collection and tracing for CLI operations.
package observability

import (
	"fmt"
	"sync"
	"time"
)

// RequestInfo describes an HTTP request about to be sent to a backend.
type RequestInfo struct {
	Method    string
	URL       string
	Backend   string
	Operation string
}

// RequestResult describes the outcome of an HTTP request.
type RequestResult struct {
	StatusCode int
	Duration   time.Duration
	Error      error
}

// OperationInfo describes a high-level adapter operation.
type OperationInfo struct {
	Backend    string // e.g., "taskchain", "jira"
	Operation  string // e.g., "listTasks", "completeTask"
	IsMutation bool
	ResourceID string
}

// RequestMetrics holds timing and status information for a single HTTP request.
type RequestMetrics struct {
	Method     string
	URL        string
	StatusCode int
	Duration   time.Duration
	Error      error
}

// OperationMetrics holds timing information for a high-level adapter operation.
type OperationMetrics struct {
	Backend    string
	Operation  string
	IsMutation bool
	ResourceID string
	Duration   time.Duration
	Error      error
}

// SessionMetrics aggregates metrics for an entire CLI session.
type SessionMetrics struct {
	StartTime       time.Time
	EndTime         time.Time
	TotalRequests   int
	TotalOperations int
	FailedOps       int
	TotalLatency    time.Duration
}

// ToMap converts the metrics to a map suitable for response meta.
func (m SessionMetrics) ToMap() map[string]any {
	return map[string]any{
		"requests":   m.TotalRequests,
		"operations": m.TotalOperations,
		"failed":     m.FailedOps,
		"latency_ms": m.TotalLatency.Milliseconds(),
	}
}

// SessionMetricsFromMap reconstructs metrics from a response meta map.
// Values arrive as float64 after a JSON round-trip, so both numeric
// representations are accepted.
func SessionMetricsFromMap(stats map[string]any) SessionMetrics {
	return SessionMetrics{
		TotalRequests:   intValue(stats["requests"]),
		TotalOperations: intValue(stats["operations"]),
		FailedOps:       intValue(stats["failed"]),
		TotalLatency:    time.Duration(intValue(stats["latency_ms"])) * time.Millisecond,
	}
}

func intValue(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

// FormatParts returns human-readable stat fragments for display,
// e.g. ["3 requests", "245ms", "1 failed"]. Empty when nothing was recorded.
func (m SessionMetrics) FormatParts() []string {
	var parts []string
	if m.TotalRequests > 0 {
		noun := "requests"
		if m.TotalRequests == 1 {
			noun = "request"
		}
		parts = append(parts, fmt.Sprintf("%d %s", m.TotalRequests, noun))
	}
	if m.TotalLatency > 0 {
		parts = append(parts, fmt.Sprintf("%dms", m.TotalLatency.Milliseconds()))
	}
	if m.FailedOps > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", m.FailedOps))
	}
	return parts
}

// SessionCollector accumulates metrics across a CLI session.
// It is safe for concurrent use and uses counters instead of unbounded slices.
type SessionCollector struct {
	mu sync.Mutex

	startTime       time.Time
	totalRequests   int
	totalOperations int
	failedOps       int
	totalLatency    time.Duration
}

// NewSessionCollector creates a new SessionCollector.
func NewSessionCollector() *SessionCollector {
	return &SessionCollector{
		startTime: time.Now(),
	}
}

// RecordRequest records metrics for an HTTP request.
func (c *SessionCollector) RecordRequest(m RequestMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalRequests++
	c.totalLatency += m.Duration
}

// RecordOperation records metrics for a high-level operation.
func (c *SessionCollector) RecordOperation(m OperationMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalOperations++
	if m.Error != nil {
		c.failedOps++
	}
}

// Summary returns aggregated metrics for the session.
func (c *SessionCollector) Summary() SessionMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	return SessionMetrics{
		StartTime:       c.startTime,
		EndTime:         time.Now(),
		TotalRequests:   c.totalRequests,
		TotalOperations: c.totalOperations,
		FailedOps:       c.failedOps,
		TotalLatency:    c.totalLatency,
	}
}

// Reset clears all collected metrics and resets the start time.
func (c *SessionCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.startTime = time.Now()
	c.totalRequests = 0
	c.totalOperations = 0
	c.failedOps = 0
	c.totalLatency = 0
}
