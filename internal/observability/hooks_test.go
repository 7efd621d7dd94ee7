package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestCLIHooks_Level0_Silent(t *testing.T) {
	var buf bytes.Buffer
	collector := NewSessionCollector()
	hooks := NewCLIHooks(0, collector, NewTraceWriterTo(&buf))

	op := OperationInfo{Backend: "taskchain", Operation: "listTasks"}
	hooks.OnOperationStart(op)
	hooks.OnOperationEnd(op, nil, 10*time.Millisecond)
	hooks.OnRequestStart(RequestInfo{Method: "GET", URL: "/api/tasks"})
	hooks.OnRequestEnd(RequestInfo{Method: "GET", URL: "/api/tasks"}, RequestResult{StatusCode: 200})

	if buf.Len() != 0 {
		t.Errorf("level 0 should produce no output, got: %s", buf.String())
	}

	// Stats are still collected at level 0
	s := collector.Summary()
	if s.TotalOperations != 1 || s.TotalRequests != 1 {
		t.Errorf("expected stats collected at level 0, got %+v", s)
	}
}

func TestCLIHooks_Level1_OperationsOnly(t *testing.T) {
	var buf bytes.Buffer
	hooks := NewCLIHooks(1, nil, NewTraceWriterTo(&buf))

	op := OperationInfo{Backend: "jira", Operation: "getTask"}
	hooks.OnOperationStart(op)
	hooks.OnRequestStart(RequestInfo{Method: "GET", URL: "/rest/api/2/issue/PROJ-1"})

	output := buf.String()
	if !strings.Contains(output, "Calling jira.getTask") {
		t.Errorf("expected operation trace, got: %s", output)
	}
	if strings.Contains(output, "PROJ-1") {
		t.Errorf("level 1 should not trace requests, got: %s", output)
	}
}

func TestCLIHooks_Level2_RequestsToo(t *testing.T) {
	var buf bytes.Buffer
	hooks := NewCLIHooks(2, nil, NewTraceWriterTo(&buf))

	hooks.OnRequestStart(RequestInfo{Method: "POST", URL: "/api/tasks"})
	hooks.OnRequestEnd(RequestInfo{Method: "POST", URL: "/api/tasks"}, RequestResult{StatusCode: 201, Duration: 30 * time.Millisecond})

	output := buf.String()
	if !strings.Contains(output, "-> POST /api/tasks") {
		t.Errorf("expected request trace, got: %s", output)
	}
	if !strings.Contains(output, "<- 201 (30ms)") {
		t.Errorf("expected response trace, got: %s", output)
	}
}

func TestCLIHooks_SetLevel(t *testing.T) {
	hooks := NewCLIHooks(0, nil, nil)
	hooks.SetLevel(2)
	if hooks.Level() != 2 {
		t.Errorf("Level() = %d, want 2", hooks.Level())
	}
}

func TestCLIHooks_NilWriterAndCollector(t *testing.T) {
	hooks := NewCLIHooks(2, nil, nil)

	// Should not panic
	op := OperationInfo{Backend: "custom", Operation: "systemInfo"}
	hooks.OnOperationStart(op)
	hooks.OnOperationEnd(op, nil, time.Millisecond)
	hooks.OnRequestStart(RequestInfo{})
	hooks.OnRequestEnd(RequestInfo{}, RequestResult{})
}
