package observability

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestSessionCollector_RecordRequest(t *testing.T) {
	c := NewSessionCollector()

	c.RecordRequest(RequestMetrics{Method: "GET", URL: "/api/tasks", StatusCode: 200, Duration: 40 * time.Millisecond})
	c.RecordRequest(RequestMetrics{Method: "POST", URL: "/api/tasks", StatusCode: 201, Duration: 60 * time.Millisecond})

	s := c.Summary()
	if s.TotalRequests != 2 {
		t.Errorf("TotalRequests = %d, want 2", s.TotalRequests)
	}
	if s.TotalLatency != 100*time.Millisecond {
		t.Errorf("TotalLatency = %v, want 100ms", s.TotalLatency)
	}
}

func TestSessionCollector_RecordOperation(t *testing.T) {
	c := NewSessionCollector()

	c.RecordOperation(OperationMetrics{Backend: "taskchain", Operation: "listTasks"})
	c.RecordOperation(OperationMetrics{Backend: "jira", Operation: "completeTask", Error: errors.New("boom")})

	s := c.Summary()
	if s.TotalOperations != 2 {
		t.Errorf("TotalOperations = %d, want 2", s.TotalOperations)
	}
	if s.FailedOps != 1 {
		t.Errorf("FailedOps = %d, want 1", s.FailedOps)
	}
}

func TestSessionCollector_Reset(t *testing.T) {
	c := NewSessionCollector()
	c.RecordRequest(RequestMetrics{Duration: time.Millisecond})
	c.RecordOperation(OperationMetrics{})

	c.Reset()

	s := c.Summary()
	if s.TotalRequests != 0 || s.TotalOperations != 0 || s.TotalLatency != 0 {
		t.Errorf("expected zeroed summary after reset, got %+v", s)
	}
}

func TestSessionCollector_Concurrent(t *testing.T) {
	c := NewSessionCollector()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RecordRequest(RequestMetrics{Duration: time.Millisecond})
			c.RecordOperation(OperationMetrics{})
		}()
	}
	wg.Wait()

	s := c.Summary()
	if s.TotalRequests != 50 {
		t.Errorf("TotalRequests = %d, want 50", s.TotalRequests)
	}
	if s.TotalOperations != 50 {
		t.Errorf("TotalOperations = %d, want 50", s.TotalOperations)
	}
}

func TestSessionMetrics_RoundTrip(t *testing.T) {
	m := SessionMetrics{
		TotalRequests:   3,
		TotalOperations: 2,
		FailedOps:       1,
		TotalLatency:    245 * time.Millisecond,
	}

	got := SessionMetricsFromMap(m.ToMap())
	if got.TotalRequests != 3 || got.TotalOperations != 2 || got.FailedOps != 1 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.TotalLatency != 245*time.Millisecond {
		t.Errorf("TotalLatency = %v, want 245ms", got.TotalLatency)
	}
}

func TestSessionMetricsFromMap_JSONNumbers(t *testing.T) {
	// After a JSON round trip all numbers arrive as float64.
	stats := map[string]any{
		"requests":   float64(4),
		"operations": float64(4),
		"failed":     float64(0),
		"latency_ms": float64(120),
	}

	got := SessionMetricsFromMap(stats)
	if got.TotalRequests != 4 {
		t.Errorf("TotalRequests = %d, want 4", got.TotalRequests)
	}
	if got.TotalLatency != 120*time.Millisecond {
		t.Errorf("TotalLatency = %v, want 120ms", got.TotalLatency)
	}
}

func TestSessionMetrics_FormatParts(t *testing.T) {
	m := SessionMetrics{TotalRequests: 1, TotalLatency: 45 * time.Millisecond}
	parts := m.FormatParts()
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %v", parts)
	}
	if parts[0] != "1 request" {
		t.Errorf("parts[0] = %q, want %q", parts[0], "1 request")
	}
	if parts[1] != "45ms" {
		t.Errorf("parts[1] = %q, want %q", parts[1], "45ms")
	}

	empty := SessionMetrics{}
	if len(empty.FormatParts()) != 0 {
		t.Errorf("expected no parts for empty metrics")
	}
}
