package commands

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskchain/pmq/internal/appctx"
	"github.com/taskchain/pmq/internal/config"
	"github.com/taskchain/pmq/internal/output"
)

// setupTestApp creates a test app pointed at the given server. An empty
// serverURL leaves the adapter unconfigured.
func setupTestApp(t *testing.T, serverURL, backendID string) (*appctx.App, *bytes.Buffer) {
	t.Helper()
	t.Setenv("PMQ_NO_KEYRING", "1")

	cfg := config.Default()
	cfg.Backend = backendID
	cfg.BaseURL = serverURL
	if serverURL != "" {
		cfg.APIToken = "test-token"
	}

	buf := &bytes.Buffer{}
	app := appctx.NewApp(cfg)
	app.Output = output.New(output.Options{
		Format: output.FormatJSON,
		Writer: buf,
	})
	return app, buf
}

// executeCommand runs a cobra command with the app wired into its context.
func executeCommand(cmd *cobra.Command, app *appctx.App, cmdArgs ...string) error {
	cmd.SetArgs(cmdArgs)
	cmd.SetContext(appctx.WithApp(context.Background(), app))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.Execute()
}

func TestTasksListSendsFilters(t *testing.T) {
	var gotPath, gotStatus string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotStatus = r.URL.Query().Get("status")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": 1, "name": "Fix bug", "status": "pending"}]`))
	}))
	defer srv.Close()

	app, buf := setupTestApp(t, srv.URL, "taskchain")

	err := executeCommand(NewTasksCmd(), app, "list", "--status", "pending")
	require.NoError(t, err)

	assert.Equal(t, "/api/tasks", gotPath)
	assert.Equal(t, "pending", gotStatus)
	assert.Contains(t, buf.String(), "Fix bug")
	assert.Contains(t, buf.String(), "1 task")
}

func TestTasksListBareKeywordFilters(t *testing.T) {
	var gotStatus, gotPriority string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotStatus = r.URL.Query().Get("status")
		gotPriority = r.URL.Query().Get("priority")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	app, _ := setupTestApp(t, srv.URL, "taskchain")

	err := executeCommand(NewTasksCmd(), app, "list", "pending", "high")
	require.NoError(t, err)

	assert.Equal(t, "pending", gotStatus)
	assert.Equal(t, "high", gotPriority)
}

func TestTasksShow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tasks/42", r.URL.Path)
		w.Write([]byte(`{"id": 42, "name": "Deploy"}`))
	}))
	defer srv.Close()

	app, buf := setupTestApp(t, srv.URL, "taskchain")

	err := executeCommand(NewTasksCmd(), app, "show", "42")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Deploy")
}

func TestTasksProgressValidatesPercentage(t *testing.T) {
	app, _ := setupTestApp(t, "", "taskchain")

	err := executeCommand(NewTasksCmd(), app, "progress", "42", "150")
	require.Error(t, err)

	var e *output.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, output.CodeUsage, e.Code)
}

func TestTasksProgressSendsPercentage(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"id": 42, "progress_percentage": 60}`))
	}))
	defer srv.Close()

	app, buf := setupTestApp(t, srv.URL, "taskchain")

	err := executeCommand(NewTasksCmd(), app, "progress", "42", "60")
	require.NoError(t, err)
	assert.Equal(t, "/api/tasks/42/progress", gotPath)
	assert.Contains(t, buf.String(), "Task #42 at 60%")
}

func TestTasksUnconfigured(t *testing.T) {
	app, _ := setupTestApp(t, "", "taskchain")

	err := executeCommand(NewTasksCmd(), app, "list")
	require.Error(t, err)

	var e *output.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, output.CodeConfig, e.Code)
}

func TestCCPMReportUnsupportedBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach the server for an unsupported operation")
	}))
	defer srv.Close()

	app, _ := setupTestApp(t, srv.URL, "jira")

	err := executeCommand(NewCCPMCmd(), app, "report", "3")
	require.Error(t, err)

	var e *output.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, output.CodeCapability, e.Code)
}

func TestCCPMReportNoProject(t *testing.T) {
	app, _ := setupTestApp(t, "", "taskchain")

	err := executeCommand(NewCCPMCmd(), app, "report")
	require.Error(t, err)

	var e *output.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "No project specified", e.Message)
}

func TestCCPMReportUsesDefaultProject(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"project_id": 3, "buffer_status": "on_track"}`))
	}))
	defer srv.Close()

	app, _ := setupTestApp(t, srv.URL, "taskchain")
	app.Config.DefaultProjectID = "3"

	err := executeCommand(NewCCPMCmd(), app, "report")
	require.NoError(t, err)
	assert.Equal(t, "/api/projects/3/ccpm/report", gotPath)
}

func TestProjectsList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/projects", r.URL.Path)
		w.Write([]byte(`[{"id": 1, "name": "Migration"}, {"id": 2, "name": "Launch"}]`))
	}))
	defer srv.Close()

	app, buf := setupTestApp(t, srv.URL, "taskchain")

	err := executeCommand(NewProjectsCmd(), app, "list")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Migration")
	assert.Contains(t, buf.String(), "2 projects")
}
