package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/taskchain/pmq/internal/config"
	"github.com/taskchain/pmq/internal/models"
	"github.com/taskchain/pmq/internal/output"
)

func newTestAdapter(serverURL, backendID string) *Adapter {
	cfg := config.Default()
	cfg.Backend = backendID
	cfg.BaseURL = serverURL
	cfg.APIToken = "test-token"
	return New(cfg, "")
}

func TestNotConfigured(t *testing.T) {
	a := New(config.Default(), "")

	_, err := a.ListTasks(context.Background(), models.TaskFilters{})
	apiErr := output.AsError(err)
	if apiErr == nil || apiErr.Code != output.CodeConfig {
		t.Fatalf("expected not_configured, got %v", err)
	}
	if a.LastError() == nil || a.LastError().Code != output.CodeConfig {
		t.Errorf("last error not recorded")
	}
}

func TestListTasksSendsTranslatedFilters(t *testing.T) {
	var gotStatus, gotProject string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotStatus = r.URL.Query().Get("status")
		gotProject = r.URL.Query().Get("project_id")
		w.Write([]byte(`[{"id": 1}]`))
	}))
	defer server.Close()

	a := newTestAdapter(server.URL, "taskchain")
	data, err := a.ListTasks(context.Background(), models.TaskFilters{Status: "pending", ProjectID: "3"})
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if gotStatus != "pending" || gotProject != "3" {
		t.Errorf("query = status:%q project_id:%q", gotStatus, gotProject)
	}

	var tasks []map[string]any
	if err := json.Unmarshal(data, &tasks); err != nil {
		t.Fatalf("payload not JSON: %v", err)
	}
}

func TestCreateTaskTranslatesPerBackend(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 10}`))
	}))
	defer server.Close()

	fields := models.TaskFields{Name: "Fix bug", ProjectID: "3", Estimation: 2}

	a := newTestAdapter(server.URL, "taskchain")
	if _, err := a.CreateTask(context.Background(), fields); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if gotBody["name"] != "Fix bug" {
		t.Errorf("native body = %v", gotBody)
	}

	a.SetBackend("jira")
	if _, err := a.CreateTask(context.Background(), fields); err != nil {
		t.Fatalf("CreateTask (jira) failed: %v", err)
	}
	jiraFields, ok := gotBody["fields"].(map[string]any)
	if !ok || jiraFields["summary"] != "Fix bug" {
		t.Errorf("jira body = %v", gotBody)
	}
}

func TestReadOnlyCallsAreIndependent(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"id": 5, "name": "Project"}`))
	}))
	defer server.Close()

	a := newTestAdapter(server.URL, "taskchain")
	first, err := a.GetProject(context.Background(), "5")
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	second, err := a.GetProject(context.Background(), "5")
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}

	if calls != 2 {
		t.Errorf("server called %d times, want 2", calls)
	}
	if string(first) != string(second) {
		t.Errorf("responses differ: %s vs %s", first, second)
	}
	// Mutating one response must not touch the other.
	first[0] = 'X'
	if second[0] == 'X' {
		t.Error("responses share backing memory")
	}
}

func TestUnauthorizedNormalized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	a := newTestAdapter(server.URL, "asana")
	_, err := a.CurrentUser(context.Background())

	apiErr := output.AsError(err)
	if apiErr == nil {
		t.Fatalf("error is not normalized: %v", err)
	}
	if apiErr.HTTPStatus != 401 {
		t.Errorf("HTTPStatus = %d, want 401", apiErr.HTTPStatus)
	}
	if a.LastError() != apiErr {
		t.Error("last error slot not updated")
	}
}

func TestCCPMOnNonNativeBackendIsCapabilityError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach the server")
	}))
	defer server.Close()

	a := newTestAdapter(server.URL, "jira")
	_, err := a.CCPMReport(context.Background(), "3")

	apiErr := output.AsError(err)
	if apiErr == nil || apiErr.Code != output.CodeCapability {
		t.Fatalf("expected capability error, got %v", err)
	}
	if apiErr.ExitCode() != output.ExitCapability {
		t.Errorf("exit code = %d, want %d", apiErr.ExitCode(), output.ExitCapability)
	}
}

func TestCCPMOnNativeBackend(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"enabled": true}`))
	}))
	defer server.Close()

	a := newTestAdapter(server.URL, "taskchain")
	_, err := a.EnableCCPM(context.Background(), "7", models.CCPMSettings{ProjectBufferPct: 50})
	if err != nil {
		t.Fatalf("EnableCCPM failed: %v", err)
	}
	if gotPath != "/api/projects/7/ccpm/enable" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody["project_buffer_percentage"] != float64(50) {
		t.Errorf("body = %v", gotBody)
	}
}

func TestUpdateTaskBufferPayload(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	a := newTestAdapter(server.URL, "taskchain")
	_, err := a.UpdateTaskBuffer(context.Background(), models.BufferUpdate{TaskID: "42", Percentage: 80})
	if err != nil {
		t.Fatalf("UpdateTaskBuffer failed: %v", err)
	}
	if gotBody["ccpm_status"] != models.CCPMStatusBufferConsumed {
		t.Errorf("ccpm_status = %v, want %s", gotBody["ccpm_status"], models.CCPMStatusBufferConsumed)
	}
}

func TestTestConnection(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
		want bool
	}{
		{"native version marker", `{"version": "2.4.0"}`, 200, true},
		{"jira server title", `{"serverTitle": "Jira"}`, 200, true},
		{"asana gid", `{"gid": "12345"}`, 200, true},
		{"trello member id", `{"id": "abc", "fullName": "x"}`, 200, true},
		{"no markers", `{"hello": "world"}`, 200, false},
		{"not an object", `[1, 2]`, 200, false},
		{"server error", `{}`, 500, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			a := newTestAdapter(server.URL, "taskchain")
			if got := a.TestConnection(context.Background()); got != tt.want {
				t.Errorf("TestConnection() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTestConnectionNotConfigured(t *testing.T) {
	a := New(config.Default(), "")
	if a.TestConnection(context.Background()) {
		t.Error("unconfigured adapter should fail the probe, not panic")
	}
}

func TestRuntimeReconfiguration(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	a := newTestAdapter(server.URL, "taskchain")
	if _, err := a.SystemInfo(context.Background()); err != nil {
		t.Fatalf("SystemInfo failed: %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("auth = %q", gotAuth)
	}

	// A rotated credential takes effect on the next call.
	a.SetToken("rotated")
	if _, err := a.SystemInfo(context.Background()); err != nil {
		t.Fatalf("SystemInfo after rotation failed: %v", err)
	}
	if gotAuth != "Bearer rotated" {
		t.Errorf("auth after rotation = %q", gotAuth)
	}
}

func TestSetBaseURLStripsTrailingSlash(t *testing.T) {
	a := New(config.Default(), "")
	a.SetBaseURL("https://x.test/")

	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.baseURL != "https://x.test" {
		t.Errorf("baseURL = %q, want https://x.test", a.baseURL)
	}
}

func TestUnknownBackendResolvesToCustom(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = "gitlab"
	cfg.BaseURL = "https://x.test"
	cfg.APIToken = "tok"

	a := New(cfg, "")
	if a.Backend() != "custom" {
		t.Errorf("backend = %q, want custom", a.Backend())
	}
}
