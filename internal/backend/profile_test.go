package backend

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskchain/pmq/internal/models"
)

func TestEveryProfileCoversCoreOperations(t *testing.T) {
	for _, id := range IDs() {
		p := Resolve(id)
		for _, op := range CoreOperations() {
			ep, ok := p.Endpoint(op)
			require.True(t, ok, "%s missing %s", id, op)
			assert.NotEmpty(t, ep.Method, "%s %s has no method", id, op)
			assert.NotEmpty(t, ep.Path("1"), "%s %s builds empty path", id, op)
		}
	}
}

func TestCCPMOperationsOnlyOnNative(t *testing.T) {
	native := Resolve(IDTaskChain)
	for _, op := range CCPMOperations() {
		_, ok := native.Endpoint(op)
		assert.True(t, ok, "taskchain missing %s", op)
	}

	for _, id := range []string{IDJira, IDAsana, IDTrello, IDCustom} {
		p := Resolve(id)
		for _, op := range CCPMOperations() {
			_, ok := p.Endpoint(op)
			assert.False(t, ok, "%s should not define %s", id, op)
		}
	}
}

func TestResolveUnknownFallsBackToCustom(t *testing.T) {
	p := Resolve("linear")
	assert.Equal(t, IDCustom, p.ID)

	p = Resolve("")
	assert.Equal(t, IDCustom, p.ID)

	assert.False(t, Known("linear"))
	assert.True(t, Known(IDJira))
}

func TestTaskChainHeaders(t *testing.T) {
	h := Resolve(IDTaskChain).Headers("tok-abc")
	assert.Equal(t, "Bearer tok-abc", h["Authorization"])
	assert.Equal(t, "pmq", h["X-TaskChain-Client"])
}

func TestJiraHeadersEncodeCredentials(t *testing.T) {
	raw := "user@example.com:apitoken123"
	h := Resolve(IDJira).Headers(raw)

	auth := h["Authorization"]
	require.True(t, strings.HasPrefix(auth, "Basic "))
	// The raw pair must never appear in plaintext
	assert.NotContains(t, auth, "apitoken123")

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(auth, "Basic "))
	require.NoError(t, err)
	assert.Equal(t, raw, string(decoded))
}

func TestTrelloHeadersSplitKeyToken(t *testing.T) {
	h := Resolve(IDTrello).Headers("consumerkey:usertoken")

	auth := h["Authorization"]
	assert.Contains(t, auth, `oauth_consumer_key="consumerkey"`)
	assert.Contains(t, auth, `oauth_token="usertoken"`)
}

func TestAsanaHeaders(t *testing.T) {
	h := Resolve(IDAsana).Headers("pat-1/123")
	assert.Equal(t, "Bearer pat-1/123", h["Authorization"])
}

func TestEndpointPaths(t *testing.T) {
	tests := []struct {
		backend string
		op      Operation
		id      string
		method  string
		path    string
	}{
		{IDTaskChain, OpListTasks, "", "GET", "/api/tasks"},
		{IDTaskChain, OpStartTask, "42", "POST", "/api/tasks/42/start"},
		{IDTaskChain, OpCCPMEnable, "7", "POST", "/api/projects/7/ccpm/enable"},
		{IDTaskChain, OpCCPMTaskBuffer, "42", "PUT", "/api/tasks/42/ccpm/buffer"},
		{IDTaskChain, OpCCPMDashboard, "", "GET", "/api/ccpm/dashboard"},
		{IDJira, OpGetTask, "PROJ-1", "GET", "/rest/api/2/issue/PROJ-1"},
		{IDJira, OpCompleteTask, "PROJ-1", "POST", "/rest/api/2/issue/PROJ-1/transitions"},
		{IDAsana, OpAddComment, "123", "POST", "/api/1.0/tasks/123/stories"},
		{IDTrello, OpGetTask, "5f2c", "GET", "/1/cards/5f2c"},
		{IDCustom, OpStartTask, "9", "PUT", "/api/tasks/9"},
	}

	for _, tt := range tests {
		ep, ok := Resolve(tt.backend).Endpoint(tt.op)
		require.True(t, ok, "%s %s", tt.backend, tt.op)
		assert.Equal(t, tt.method, ep.Method, "%s %s", tt.backend, tt.op)
		assert.Equal(t, tt.path, ep.Path(tt.id), "%s %s", tt.backend, tt.op)
	}
}

func TestCreateTaskRoundTrip(t *testing.T) {
	fields := models.TaskFields{
		Name:        "Fix bug",
		Description: "crash on save",
		ProjectID:   "3",
	}

	// The generic name, description, and project id must be recoverable
	// from every backend's translated payload.
	t.Run("taskchain", func(t *testing.T) {
		body := Resolve(IDTaskChain).Translate.CreateTask(fields)
		assert.Equal(t, "Fix bug", body["name"])
		assert.Equal(t, "crash on save", body["description"])
		assert.Equal(t, 3, body["project_id"])
	})

	t.Run("jira", func(t *testing.T) {
		body := Resolve(IDJira).Translate.CreateTask(fields)
		f := body["fields"].(map[string]any)
		assert.Equal(t, "Fix bug", f["summary"])
		assert.Equal(t, "crash on save", f["description"])
		assert.Equal(t, map[string]any{"id": "3"}, f["project"])
	})

	t.Run("asana", func(t *testing.T) {
		body := Resolve(IDAsana).Translate.CreateTask(fields)
		data := body["data"].(map[string]any)
		assert.Equal(t, "Fix bug", data["name"])
		assert.Equal(t, "crash on save", data["notes"])
		assert.Equal(t, []any{"3"}, data["projects"])
	})

	t.Run("trello", func(t *testing.T) {
		body := Resolve(IDTrello).Translate.CreateTask(fields)
		assert.Equal(t, "Fix bug", body["name"])
		assert.Equal(t, "crash on save", body["desc"])
		assert.Equal(t, "3", body["idList"])
	})

	t.Run("custom", func(t *testing.T) {
		body := Resolve(IDCustom).Translate.CreateTask(fields)
		assert.Equal(t, "Fix bug", body["name"])
		assert.Equal(t, "crash on save", body["description"])
		assert.Equal(t, "3", body["project_id"])
	})
}

func TestCreateTaskOmitsAbsentFields(t *testing.T) {
	body := Resolve(IDTaskChain).Translate.CreateTask(models.TaskFields{Name: "x"})
	assert.NotContains(t, body, "project_id")
	assert.NotContains(t, body, "estimation")
	assert.NotContains(t, body, "due_date")
}

func TestBufferUpdateThresholds(t *testing.T) {
	translate := Resolve(IDTaskChain).Translate.BufferUpdate

	tests := []struct {
		pct    int
		status string
	}{
		{10, models.CCPMStatusOnTrack},
		{50, models.CCPMStatusOnTrack},
		{51, models.CCPMStatusBufferWarning},
		{75, models.CCPMStatusBufferWarning},
		{80, models.CCPMStatusBufferConsumed},
		{100, models.CCPMStatusBufferConsumed},
	}

	for _, tt := range tests {
		body := translate(models.BufferUpdate{TaskID: "1", Percentage: tt.pct})
		assert.Equal(t, tt.status, body["ccpm_status"], "pct=%d", tt.pct)
		assert.Equal(t, tt.pct, body["buffer_consumption"], "pct=%d", tt.pct)
	}
}

func TestTaskFiltersTranslation(t *testing.T) {
	filters := models.TaskFilters{
		Status:    "in_progress",
		Priority:  "high",
		ProjectID: "3",
		PerPage:   20,
	}

	t.Run("taskchain", func(t *testing.T) {
		v := Resolve(IDTaskChain).Translate.TaskFilters(filters)
		assert.Equal(t, "in_progress", v.Get("status"))
		assert.Equal(t, "high", v.Get("priority"))
		assert.Equal(t, "3", v.Get("project_id"))
		assert.Equal(t, "20", v.Get("per_page"))
	})

	t.Run("jira builds jql", func(t *testing.T) {
		v := Resolve(IDJira).Translate.TaskFilters(filters)
		jql := v.Get("jql")
		assert.Contains(t, jql, `status = "In Progress"`)
		assert.Contains(t, jql, `priority = "High"`)
		assert.Contains(t, jql, "project = 3")
		assert.Equal(t, "20", v.Get("maxResults"))
	})

	t.Run("trello maps status to filter", func(t *testing.T) {
		v := Resolve(IDTrello).Translate.TaskFilters(models.TaskFilters{Status: "completed"})
		assert.Equal(t, "closed", v.Get("filter"))
	})
}

func TestCompleteTranslation(t *testing.T) {
	opts := models.CompleteOptions{Comment: "done", TimeSpent: 1.5}

	body := Resolve(IDTaskChain).Translate.Complete(opts)
	assert.Equal(t, "done", body["comment"])
	assert.Equal(t, 1.5, body["time_spent"])

	body = Resolve(IDJira).Translate.Complete(opts)
	assert.Equal(t, map[string]any{"name": "Done"}, body["transition"])

	body = Resolve(IDAsana).Translate.Complete(opts)
	assert.Equal(t, map[string]any{"completed": true}, body["data"])

	body = Resolve(IDTrello).Translate.Complete(opts)
	assert.Equal(t, true, body["dueComplete"])
}

func TestEnableCCPMTranslation(t *testing.T) {
	body := Resolve(IDTaskChain).Translate.EnableCCPM(models.CCPMSettings{
		ProjectBufferPct: 50,
		FeedingBufferPct: 30,
		StartDate:        "2026-09-01",
		AutoAnalyze:      true,
	})

	assert.Equal(t, 50, body["project_buffer_percentage"])
	assert.Equal(t, 30, body["feeding_buffer_percentage"])
	assert.Equal(t, "2026-09-01", body["start_date"])
	assert.Equal(t, true, body["auto_analyze"])
	assert.NotContains(t, body, "duration_days")
}

func TestNonNativeProfilesHaveNoCCPMTranslators(t *testing.T) {
	for _, id := range []string{IDJira, IDAsana, IDTrello, IDCustom} {
		p := Resolve(id)
		assert.Nil(t, p.Translate.EnableCCPM, id)
		assert.Nil(t, p.Translate.BufferUpdate, id)
	}
}
