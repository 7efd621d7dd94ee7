package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGlobalConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pmq"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pmq", "config.json"), []byte(content), 0o600))
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "taskchain", cfg.Backend)
	assert.Equal(t, 30, cfg.Timeout)
	assert.Equal(t, 15, cfg.TimeTracking.RoundToNearest)
	assert.Equal(t, 20, cfg.Display.TasksPerPage)
	assert.Equal(t, "created_at", cfg.Display.SortBy)
	assert.Equal(t, "desc", cfg.Display.SortOrder)
	assert.True(t, cfg.Notifications)
	assert.False(t, cfg.AutoStartTasks)
	assert.False(t, cfg.Configured())
}

func TestLoadFromGlobalFile(t *testing.T) {
	writeGlobalConfig(t, `{
		"backend": "jira",
		"baseUrl": "https://jira.example.com",
		"apiToken": "user@example.com:tok",
		"timeout": 45,
		"defaultProjectId": 7,
		"display": {"tasksPerPage": 50, "sortBy": "priority"}
	}`)

	cfg, err := Load(FlagOverrides{})
	require.NoError(t, err)

	assert.Equal(t, "jira", cfg.Backend)
	assert.Equal(t, "https://jira.example.com", cfg.BaseURL)
	assert.Equal(t, 45, cfg.Timeout)
	assert.Equal(t, "7", cfg.DefaultProjectID)
	assert.Equal(t, 50, cfg.Display.TasksPerPage)
	assert.Equal(t, "priority", cfg.Display.SortBy)
	// Untouched nested fields keep defaults
	assert.Equal(t, "desc", cfg.Display.SortOrder)
	assert.True(t, cfg.Configured())
	assert.Equal(t, "global", cfg.Sources["backend"])
}

func TestLoadStripsTrailingSlash(t *testing.T) {
	writeGlobalConfig(t, `{"baseUrl": "https://x.test/"}`)

	cfg, err := Load(FlagOverrides{})
	require.NoError(t, err)

	assert.Equal(t, "https://x.test", cfg.BaseURL)
}

func TestLoadMalformedFileSkipped(t *testing.T) {
	writeGlobalConfig(t, `{not json`)

	cfg, err := Load(FlagOverrides{})
	require.NoError(t, err)
	assert.Equal(t, "taskchain", cfg.Backend)
}

func TestEnvOverridesFile(t *testing.T) {
	writeGlobalConfig(t, `{"backend": "jira", "baseUrl": "https://file.example.com"}`)
	t.Setenv("PMQ_BACKEND", "asana")
	t.Setenv("PMQ_BASE_URL", "https://env.example.com")
	t.Setenv("PMQ_API_TOKEN", "env-token")

	cfg, err := Load(FlagOverrides{})
	require.NoError(t, err)

	assert.Equal(t, "asana", cfg.Backend)
	assert.Equal(t, "https://env.example.com", cfg.BaseURL)
	assert.Equal(t, "env-token", cfg.APIToken)
	assert.Equal(t, "env", cfg.Sources["backend"])
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("PMQ_BACKEND", "asana")

	cfg, err := Load(FlagOverrides{Backend: "trello", Timeout: 10})
	require.NoError(t, err)

	assert.Equal(t, "trello", cfg.Backend)
	assert.Equal(t, 10, cfg.Timeout)
	assert.Equal(t, "flag", cfg.Sources["backend"])
}

func TestLoadCreatesGlobalConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := Load(FlagOverrides{})
	require.NoError(t, err)
	assert.Equal(t, "taskchain", cfg.Backend)

	data, err := os.ReadFile(filepath.Join(dir, "pmq", "config.json"))
	require.NoError(t, err)

	var written Config
	require.NoError(t, json.Unmarshal(data, &written))
	assert.Equal(t, "taskchain", written.Backend)
	assert.Equal(t, 30, written.Timeout)
}

func TestLoadIgnoresInvalidTimeout(t *testing.T) {
	writeGlobalConfig(t, `{"timeout": -5}`)

	cfg, err := Load(FlagOverrides{})
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Timeout)
}

func TestParseEnvBool(t *testing.T) {
	tests := []struct {
		in   string
		val  bool
		ok   bool
	}{
		{"true", true, true},
		{"1", true, true},
		{"FALSE", false, true},
		{"0", false, true},
		{"yes", false, false},
		{"", false, false},
	}
	for _, tt := range tests {
		val, ok := parseEnvBool(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		if ok {
			assert.Equal(t, tt.val, val, "input %q", tt.in)
		}
	}
}

func TestNormalizeBaseURL(t *testing.T) {
	assert.Equal(t, "https://x.test", NormalizeBaseURL("https://x.test/"))
	assert.Equal(t, "https://x.test", NormalizeBaseURL("https://x.test"))
	assert.Equal(t, "", NormalizeBaseURL(""))
}

func TestStoreSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	store := NewStore(path)

	cfg := Default()
	cfg.Backend = "trello"
	cfg.BaseURL = "https://api.trello.com/"
	cfg.APIToken = "key:tok"
	require.NoError(t, store.Save(cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var onDisk map[string]any
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, "trello", onDisk["backend"])

	// No stray temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}

func TestStoreEnsureExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	store := NewStore(path)

	created, err := store.EnsureExists()
	require.NoError(t, err)
	assert.True(t, created)

	created, err = store.EnsureExists()
	require.NoError(t, err)
	assert.False(t, created)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk map[string]any
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, float64(30), onDisk["timeout"])
	assert.Equal(t, true, onDisk["notifications"])
}

func TestStoreUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	store := NewStore(path)

	require.NoError(t, store.Update(func(cfg *Config) error {
		cfg.BaseURL = "https://x.test/"
		cfg.APIToken = "tok"
		return nil
	}))

	require.NoError(t, store.Update(func(cfg *Config) error {
		// Previous write is visible on the next update
		assert.Equal(t, "https://x.test", cfg.BaseURL)
		cfg.Display.TasksPerPage = 5
		return nil
	}))

	cfg := Default()
	loadFromFile(cfg, path, SourceGlobal)
	assert.Equal(t, "https://x.test", cfg.BaseURL)
	assert.Equal(t, "tok", cfg.APIToken)
	assert.Equal(t, 5, cfg.Display.TasksPerPage)
}
