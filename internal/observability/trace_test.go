package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTraceWriter_WriteOperationStart(t *testing.T) {
	var buf bytes.Buffer
	w := NewTraceWriterTo(&buf)

	op := OperationInfo{Backend: "taskchain", Operation: "listTasks"}
	w.WriteOperationStart(op)

	output := buf.String()
	if !strings.Contains(output, "Calling taskchain.listTasks") {
		t.Errorf("expected 'Calling taskchain.listTasks', got: %s", output)
	}
	if !strings.HasPrefix(output, "[") {
		t.Errorf("expected timestamp prefix, got: %s", output)
	}
}

func TestTraceWriter_WriteOperationEnd(t *testing.T) {
	var buf bytes.Buffer
	w := NewTraceWriterTo(&buf)

	op := OperationInfo{Backend: "jira", Operation: "getTask"}
	w.WriteOperationEnd(op, nil, 50*time.Millisecond)

	output := buf.String()
	if !strings.Contains(output, "Completed jira.getTask") {
		t.Errorf("expected 'Completed jira.getTask', got: %s", output)
	}
	if !strings.Contains(output, "(50ms)") {
		t.Errorf("expected duration, got: %s", output)
	}
}

func TestTraceWriter_WriteOperationEnd_Error(t *testing.T) {
	var buf bytes.Buffer
	w := NewTraceWriterTo(&buf)

	op := OperationInfo{Backend: "asana", Operation: "createTask"}
	w.WriteOperationEnd(op, errors.New("forbidden"), 50*time.Millisecond)

	output := buf.String()
	if !strings.Contains(output, "Failed asana.createTask") {
		t.Errorf("expected 'Failed asana.createTask', got: %s", output)
	}
	if !strings.Contains(output, "forbidden") {
		t.Errorf("expected error message, got: %s", output)
	}
}

func TestTraceWriter_WriteRequestStart(t *testing.T) {
	var buf bytes.Buffer
	w := NewTraceWriterTo(&buf)

	info := RequestInfo{Method: "GET", URL: "/api/tasks"}
	w.WriteRequestStart(info)

	output := buf.String()
	if !strings.Contains(output, "-> GET /api/tasks") {
		t.Errorf("expected request line, got: %s", output)
	}
}

func TestTraceWriter_WriteRequestStart_ScrubsToken(t *testing.T) {
	var buf bytes.Buffer
	w := NewTraceWriterTo(&buf)

	info := RequestInfo{Method: "GET", URL: "https://api.trello.com/1/cards?key=abc123&token=secret456"}
	w.WriteRequestStart(info)

	output := buf.String()
	if strings.Contains(output, "secret456") || strings.Contains(output, "abc123") {
		t.Errorf("credentials leaked into trace: %s", output)
	}
	if !strings.Contains(output, "%5BREDACTED%5D") && !strings.Contains(output, "[REDACTED]") {
		t.Errorf("expected redaction marker, got: %s", output)
	}
}

func TestTraceWriter_WriteRequestEnd(t *testing.T) {
	var buf bytes.Buffer
	w := NewTraceWriterTo(&buf)

	info := RequestInfo{Method: "GET", URL: "/api/tasks"}
	w.WriteRequestEnd(info, RequestResult{StatusCode: 200, Duration: 45 * time.Millisecond})

	output := buf.String()
	if !strings.Contains(output, "<- 200 (45ms)") {
		t.Errorf("expected status line, got: %s", output)
	}
}

func TestTraceWriter_WriteRequestEnd_Error(t *testing.T) {
	var buf bytes.Buffer
	w := NewTraceWriterTo(&buf)

	info := RequestInfo{Method: "GET", URL: "/api/tasks"}
	w.WriteRequestEnd(info, RequestResult{Error: errors.New("connection reset")})

	output := buf.String()
	if !strings.Contains(output, "<- ERROR: connection reset") {
		t.Errorf("expected error line, got: %s", output)
	}
}

func TestScrubURL_Unparseable(t *testing.T) {
	got := scrubURL("http://%zz")
	if got != "[unparseable URL]" {
		t.Errorf("scrubURL = %q, want placeholder", got)
	}
}
