// Package adapter exposes one backend-agnostic method per project-management
// operation. Every method resolves its route and payload shape through the
// backend profile, issues a single request, and returns either the unwrapped
// payload or a normalized *output.Error. Callers never branch on which
// backend is configured.
package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/taskchain/pmq/internal/api"
	"github.com/taskchain/pmq/internal/backend"
	"github.com/taskchain/pmq/internal/config"
	"github.com/taskchain/pmq/internal/models"
	"github.com/taskchain/pmq/internal/observability"
	"github.com/taskchain/pmq/internal/output"
)

// Adapter is a configured connection to one backend. Credentials, URL, and
// backend may be swapped at runtime via the setters; in-flight calls keep the
// snapshot they captured at call start.
type Adapter struct {
	mu      sync.RWMutex
	baseURL string
	token   string
	timeout int
	profile *backend.Profile
	client  *api.Client
	hooks   observability.Hooks
	lastErr *output.Error
}

// New builds an adapter from loaded configuration. The token argument wins
// over the config's apiToken when non-empty, so credentials resolved from
// the keyring take precedence over ones persisted in plaintext.
func New(cfg *config.Config, token string) *Adapter {
	if token == "" {
		token = cfg.APIToken
	}
	a := &Adapter{
		baseURL: config.NormalizeBaseURL(cfg.BaseURL),
		token:   token,
		timeout: cfg.Timeout,
		profile: backend.Resolve(cfg.Backend),
	}
	a.client = a.buildClient()
	return a
}

// SetHooks installs observability hooks on the adapter and its client.
func (a *Adapter) SetHooks(h observability.Hooks) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = h
	a.client.SetHooks(h)
}

// Backend returns the active backend identifier.
func (a *Adapter) Backend() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.profile.ID
}

// Configured reports whether both base URL and token are set.
func (a *Adapter) Configured() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.baseURL != "" && a.token != ""
}

// LastError returns the most recent normalized failure, or nil. The slot is
// informational only and safe to overwrite from concurrent calls.
func (a *Adapter) LastError() *output.Error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastErr
}

// SetToken swaps the credential. Takes effect on the next call.
func (a *Adapter) SetToken(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = token
}

// SetBaseURL swaps the backend origin, stripping any trailing slash.
func (a *Adapter) SetBaseURL(baseURL string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.baseURL = config.NormalizeBaseURL(baseURL)
	a.client = a.buildClient()
}

// SetBackend swaps the backend profile. Unknown identifiers resolve to the
// generic custom profile.
func (a *Adapter) SetBackend(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.profile = backend.Resolve(id)
	a.client = a.buildClient()
}

// SetTimeout swaps the request timeout in seconds.
func (a *Adapter) SetTimeout(seconds int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.timeout = seconds
	a.client = a.buildClient()
}

// buildClient constructs the request client for the current snapshot.
// Caller must hold the lock.
func (a *Adapter) buildClient() *api.Client {
	c := api.NewClient(a.baseURL, a.profile.ID, a.timeout, func() (map[string]string, error) {
		a.mu.RLock()
		defer a.mu.RUnlock()
		return a.profile.Headers(a.token), nil
	})
	if a.hooks != nil {
		c.SetHooks(a.hooks)
	}
	return c
}

// snapshot captures the fields a single call needs, so reconfiguration
// during the call cannot change its behavior mid-flight.
func (a *Adapter) snapshot() (*api.Client, *backend.Profile, observability.Hooks, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.client, a.profile, a.hooks, a.baseURL != "" && a.token != ""
}

func (a *Adapter) setLastError(err *output.Error) {
	a.mu.Lock()
	a.lastErr = err
	a.mu.Unlock()
}

// call performs one operation: resolve the route, send, normalize.
func (a *Adapter) call(ctx context.Context, op backend.Operation, id string, query url.Values, body any) (json.RawMessage, error) {
	client, profile, hooks, configured := a.snapshot()
	if !configured {
		err := output.ErrNotConfigured()
		a.setLastError(err)
		return nil, err
	}

	ep, ok := profile.Endpoint(op)
	if !ok {
		err := output.ErrCapability(string(op), profile.Name)
		a.setLastError(err)
		return nil, err
	}

	opInfo := observability.OperationInfo{
		Backend:    profile.ID,
		Operation:  string(op),
		IsMutation: ep.Method != http.MethodGet,
		ResourceID: id,
	}
	if hooks != nil {
		hooks.OnOperationStart(opInfo)
	}

	start := time.Now()
	resp, err := client.Do(ctx, ep.Method, ep.Path(id), query, body)
	if hooks != nil {
		hooks.OnOperationEnd(opInfo, err, time.Since(start))
	}
	if err != nil {
		a.setLastError(output.AsError(err))
		return nil, err
	}
	return resp.Data, nil
}

// ListTasks returns tasks matching the given generic filters.
func (a *Adapter) ListTasks(ctx context.Context, filters models.TaskFilters) (json.RawMessage, error) {
	_, profile, _, _ := a.snapshot()
	var query url.Values
	if profile.Translate.TaskFilters != nil {
		query = profile.Translate.TaskFilters(filters)
	}
	return a.call(ctx, backend.OpListTasks, "", query, nil)
}

// GetTask returns a single task by id.
func (a *Adapter) GetTask(ctx context.Context, id string) (json.RawMessage, error) {
	return a.call(ctx, backend.OpGetTask, id, nil, nil)
}

// CreateTask creates a task from generic fields. Fields the backend has no
// analogue for are omitted from the translated payload.
func (a *Adapter) CreateTask(ctx context.Context, fields models.TaskFields) (json.RawMessage, error) {
	_, profile, _, _ := a.snapshot()
	var body any
	if profile.Translate.CreateTask != nil {
		body = profile.Translate.CreateTask(fields)
	}
	return a.call(ctx, backend.OpCreateTask, "", nil, body)
}

// StartTask moves a task into its backend's in-progress state.
func (a *Adapter) StartTask(ctx context.Context, id string, opts models.StartOptions) (json.RawMessage, error) {
	_, profile, _, _ := a.snapshot()
	var body any
	if profile.Translate.StartTask != nil {
		body = profile.Translate.StartTask(opts)
	}
	return a.call(ctx, backend.OpStartTask, id, nil, body)
}

// UpdateProgress records a progress percentage on a task.
func (a *Adapter) UpdateProgress(ctx context.Context, id string, update models.ProgressUpdate) (json.RawMessage, error) {
	_, profile, _, _ := a.snapshot()
	var body any
	if profile.Translate.Progress != nil {
		body = profile.Translate.Progress(update)
	}
	return a.call(ctx, backend.OpUpdateProgress, id, nil, body)
}

// CompleteTask moves a task into its backend's done state.
func (a *Adapter) CompleteTask(ctx context.Context, id string, opts models.CompleteOptions) (json.RawMessage, error) {
	_, profile, _, _ := a.snapshot()
	var body any
	if profile.Translate.Complete != nil {
		body = profile.Translate.Complete(opts)
	}
	return a.call(ctx, backend.OpCompleteTask, id, nil, body)
}

// AddComment posts a comment on a task.
func (a *Adapter) AddComment(ctx context.Context, id, text string) (json.RawMessage, error) {
	_, profile, _, _ := a.snapshot()
	var body any
	if profile.Translate.Comment != nil {
		body = profile.Translate.Comment(text)
	}
	return a.call(ctx, backend.OpAddComment, id, nil, body)
}

// ListComments returns the comments on a task.
func (a *Adapter) ListComments(ctx context.Context, id string) (json.RawMessage, error) {
	return a.call(ctx, backend.OpListComments, id, nil, nil)
}

// GetTimeLogs returns the time entries logged against a task.
func (a *Adapter) GetTimeLogs(ctx context.Context, id string) (json.RawMessage, error) {
	return a.call(ctx, backend.OpGetTimeLogs, id, nil, nil)
}

// ListProjects returns all projects visible to the configured credential.
func (a *Adapter) ListProjects(ctx context.Context) (json.RawMessage, error) {
	return a.call(ctx, backend.OpListProjects, "", nil, nil)
}

// GetProject returns a single project by id.
func (a *Adapter) GetProject(ctx context.Context, id string) (json.RawMessage, error) {
	return a.call(ctx, backend.OpGetProject, id, nil, nil)
}

// SearchTasks performs a free-text search across tasks.
func (a *Adapter) SearchTasks(ctx context.Context, queryText string) (json.RawMessage, error) {
	_, profile, _, _ := a.snapshot()
	var query url.Values
	if profile.Translate.TaskFilters != nil {
		query = profile.Translate.TaskFilters(models.TaskFilters{Query: queryText})
	}
	return a.call(ctx, backend.OpSearchTasks, "", query, nil)
}

// SystemInfo returns the backend's version/identity payload.
func (a *Adapter) SystemInfo(ctx context.Context) (json.RawMessage, error) {
	return a.call(ctx, backend.OpSystemInfo, "", nil, nil)
}

// CurrentUser returns the authenticated user's profile.
func (a *Adapter) CurrentUser(ctx context.Context) (json.RawMessage, error) {
	return a.call(ctx, backend.OpCurrentUser, "", nil, nil)
}

// Raw sends an arbitrary request to the configured backend and returns the
// unwrapped response body. It bypasses operation routing, so the caller owns
// the path; the backend's auth headers are still applied.
func (a *Adapter) Raw(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	client, profile, hooks, configured := a.snapshot()
	if !configured {
		err := output.ErrNotConfigured()
		a.setLastError(err)
		return nil, err
	}

	opInfo := observability.OperationInfo{
		Backend:    profile.ID,
		Operation:  "raw " + method + " " + path,
		IsMutation: method != http.MethodGet,
	}
	if hooks != nil {
		hooks.OnOperationStart(opInfo)
	}

	start := time.Now()
	resp, err := client.Do(ctx, method, path, query, body)
	if hooks != nil {
		hooks.OnOperationEnd(opInfo, err, time.Since(start))
	}
	if err != nil {
		a.setLastError(output.AsError(err))
		return nil, err
	}
	return resp.Data, nil
}

// identityMarkers are the fields recognized across backends' heterogeneous
// system-info payload shapes. Any one of them is enough to conclude we
// reached a real PM system and not some unrelated server.
var identityMarkers = []string{
	"version", "app_version", "name", "deployment_type",
	"serverTitle", "gid", "id", "username",
}

// TestConnection probes the backend's system-info operation and reports
// whether the response looks like a PM system. This is a heuristic, not a
// handshake: it returns false on any error rather than failing.
func (a *Adapter) TestConnection(ctx context.Context) bool {
	data, err := a.SystemInfo(ctx)
	if err != nil {
		return false
	}

	var payload map[string]any
	if json.Unmarshal(data, &payload) != nil {
		return false
	}
	for _, marker := range identityMarkers {
		if _, ok := payload[marker]; ok {
			return true
		}
	}
	return false
}
