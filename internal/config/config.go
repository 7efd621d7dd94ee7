// Package config provides layered configuration loading and persistence.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TimeTracking holds time-tracking preferences.
type TimeTracking struct {
	Enabled        bool `json:"enabled"`
	RoundToNearest int  `json:"roundToNearest"`
	AutoStop       bool `json:"autoStop"`
}

// Display holds task display preferences.
type Display struct {
	ShowCompletedTasks bool   `json:"showCompletedTasks"`
	TasksPerPage       int    `json:"tasksPerPage"`
	SortBy             string `json:"sortBy"`
	SortOrder          string `json:"sortOrder"`
}

// Config holds the resolved configuration.
type Config struct {
	// Connection settings
	Backend  string `json:"backend"`
	BaseURL  string `json:"baseUrl"`
	APIToken string `json:"apiToken"`
	Timeout  int    `json:"timeout"` // seconds

	// Behavior preferences
	DefaultProjectID string       `json:"defaultProjectId,omitempty"`
	AutoStartTasks   bool         `json:"autoStartTasks"`
	Notifications    bool         `json:"notifications"`
	TimeTracking     TimeTracking `json:"timeTracking"`
	Display          Display      `json:"display"`

	// Output settings (not part of the persisted adapter record in older
	// versions, persisted since the format flag was added)
	Format string `json:"format,omitempty"`

	// Three-state preferences (nil = unset, overridable by flags)
	Hints   *bool `json:"hints,omitempty"`
	Stats   *bool `json:"stats,omitempty"`
	Verbose *int  `json:"verbose,omitempty"`

	// Sources tracks where each value came from (for debugging).
	Sources map[string]string `json:"-"`
}

// Source indicates where a config value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceSystem  Source = "system"
	SourceGlobal  Source = "global"
	SourceEnv     Source = "env"
	SourceFlag    Source = "flag"
	SourcePrompt  Source = "prompt"
)

// FlagOverrides holds command-line flag values.
type FlagOverrides struct {
	Backend string
	BaseURL string
	Project string
	Timeout int
	Format  string
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Backend: "taskchain",
		Timeout: 30,
		TimeTracking: TimeTracking{
			Enabled:        true,
			RoundToNearest: 15,
		},
		Display: Display{
			TasksPerPage: 20,
			SortBy:       "created_at",
			SortOrder:    "desc",
		},
		Notifications: true,
		Format:        "auto",
		Sources:       make(map[string]string),
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence: flags > env > global > system > defaults
//
// An absent global config file is created with defaults on first load.
// Creation is best-effort: a read-only home must not break commands.
func Load(overrides FlagOverrides) (*Config, error) {
	cfg := Default()

	_, _ = NewStore("").EnsureExists()

	loadFromFile(cfg, systemConfigPath(), SourceSystem)
	loadFromFile(cfg, GlobalConfigPath(), SourceGlobal)

	loadFromEnv(cfg)
	ApplyOverrides(cfg, overrides)

	cfg.BaseURL = NormalizeBaseURL(cfg.BaseURL)

	return cfg, nil
}

// Configured reports whether the adapter has enough to make calls:
// both base URL and token must be non-empty.
func (cfg *Config) Configured() bool {
	return cfg.BaseURL != "" && cfg.APIToken != ""
}

func loadFromFile(cfg *Config, path string, source Source) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Path is from trusted config locations
	if err != nil {
		return // File doesn't exist, skip
	}

	var fileCfg map[string]any
	if err := json.Unmarshal(data, &fileCfg); err != nil {
		fmt.Fprintf(os.Stderr, "warning: skipping malformed config at %s: %v\n", path, err)
		return
	}

	if v, ok := fileCfg["backend"].(string); ok && v != "" {
		cfg.Backend = v
		cfg.Sources["backend"] = string(source)
	}
	if v, ok := fileCfg["baseUrl"].(string); ok && v != "" {
		cfg.BaseURL = v
		cfg.Sources["baseUrl"] = string(source)
	}
	if v, ok := fileCfg["apiToken"].(string); ok && v != "" {
		cfg.APIToken = v
		cfg.Sources["apiToken"] = string(source)
	}
	if v, ok := intField(fileCfg, "timeout"); ok && v > 0 {
		cfg.Timeout = v
		cfg.Sources["timeout"] = string(source)
	}
	if v := getStringOrNumber(fileCfg, "defaultProjectId"); v != "" {
		cfg.DefaultProjectID = v
		cfg.Sources["defaultProjectId"] = string(source)
	}
	if v, ok := fileCfg["autoStartTasks"].(bool); ok {
		cfg.AutoStartTasks = v
		cfg.Sources["autoStartTasks"] = string(source)
	}
	if v, ok := fileCfg["notifications"].(bool); ok {
		cfg.Notifications = v
		cfg.Sources["notifications"] = string(source)
	}
	if v, ok := fileCfg["timeTracking"].(map[string]any); ok {
		if b, ok := v["enabled"].(bool); ok {
			cfg.TimeTracking.Enabled = b
		}
		if n, ok := intField(v, "roundToNearest"); ok && n > 0 {
			cfg.TimeTracking.RoundToNearest = n
		}
		if b, ok := v["autoStop"].(bool); ok {
			cfg.TimeTracking.AutoStop = b
		}
		cfg.Sources["timeTracking"] = string(source)
	}
	if v, ok := fileCfg["display"].(map[string]any); ok {
		if b, ok := v["showCompletedTasks"].(bool); ok {
			cfg.Display.ShowCompletedTasks = b
		}
		if n, ok := intField(v, "tasksPerPage"); ok && n > 0 {
			cfg.Display.TasksPerPage = n
		}
		if s, ok := v["sortBy"].(string); ok && s != "" {
			cfg.Display.SortBy = s
		}
		if s, ok := v["sortOrder"].(string); ok && s != "" {
			cfg.Display.SortOrder = s
		}
		cfg.Sources["display"] = string(source)
	}
	if v, ok := fileCfg["format"].(string); ok && v != "" {
		cfg.Format = v
		cfg.Sources["format"] = string(source)
	}
	if v, ok := fileCfg["hints"].(bool); ok {
		cfg.Hints = &v
		cfg.Sources["hints"] = string(source)
	}
	if v, ok := fileCfg["stats"].(bool); ok {
		cfg.Stats = &v
		cfg.Sources["stats"] = string(source)
	}
	if v, ok := fileCfg["verbose"]; ok {
		if fv, ok := v.(float64); ok {
			iv := int(fv)
			if iv >= 0 && iv <= 2 && fv == float64(iv) {
				cfg.Verbose = &iv
				cfg.Sources["verbose"] = string(source)
			}
		}
	}
}

// loadFromEnv loads configuration from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("PMQ_BACKEND"); v != "" {
		cfg.Backend = v
		cfg.Sources["backend"] = string(SourceEnv)
	}
	if v := os.Getenv("PMQ_BASE_URL"); v != "" {
		cfg.BaseURL = v
		cfg.Sources["baseUrl"] = string(SourceEnv)
	}
	if v := os.Getenv("PMQ_API_TOKEN"); v != "" {
		cfg.APIToken = v
		cfg.Sources["apiToken"] = string(SourceEnv)
	}
	if v := os.Getenv("PMQ_TIMEOUT"); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil && n > 0 {
			cfg.Timeout = n
			cfg.Sources["timeout"] = string(SourceEnv)
		}
	}
	if v := os.Getenv("PMQ_PROJECT_ID"); v != "" {
		cfg.DefaultProjectID = v
		cfg.Sources["defaultProjectId"] = string(SourceEnv)
	}
	if v := os.Getenv("PMQ_HINTS"); v != "" {
		if b, ok := parseEnvBool(v); ok {
			cfg.Hints = &b
			cfg.Sources["hints"] = string(SourceEnv)
		}
	}
	if v := os.Getenv("PMQ_STATS"); v != "" {
		if b, ok := parseEnvBool(v); ok {
			cfg.Stats = &b
			cfg.Sources["stats"] = string(SourceEnv)
		}
	}
}

// parseEnvBool parses a boolean environment variable strictly.
// Returns (value, true) for recognized values, (false, false) for unrecognized.
// Unrecognized values are ignored to preserve three-state pointer semantics.
func parseEnvBool(v string) (bool, bool) {
	switch strings.ToLower(v) {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	default:
		return false, false
	}
}

// getStringOrNumber extracts a value that may be either a string or number in JSON.
func getStringOrNumber(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		// JSON numbers are unmarshaled as float64
		return strings.TrimSuffix(fmt.Sprintf("%.0f", val), ".0")
	case int:
		return fmt.Sprintf("%d", val)
	case int64:
		return fmt.Sprintf("%d", val)
	default:
		return ""
	}
}

func intField(m map[string]any, key string) (int, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	fv, ok := v.(float64)
	if !ok || fv != float64(int(fv)) {
		return 0, false
	}
	return int(fv), true
}

// ApplyOverrides applies non-empty flag overrides to cfg.
func ApplyOverrides(cfg *Config, o FlagOverrides) {
	if o.Backend != "" {
		cfg.Backend = o.Backend
		cfg.Sources["backend"] = string(SourceFlag)
	}
	if o.BaseURL != "" {
		cfg.BaseURL = o.BaseURL
		cfg.Sources["baseUrl"] = string(SourceFlag)
	}
	if o.Project != "" {
		cfg.DefaultProjectID = o.Project
		cfg.Sources["defaultProjectId"] = string(SourceFlag)
	}
	if o.Timeout > 0 {
		cfg.Timeout = o.Timeout
		cfg.Sources["timeout"] = string(SourceFlag)
	}
	if o.Format != "" {
		cfg.Format = o.Format
		cfg.Sources["format"] = string(SourceFlag)
	}
}

// Path helpers

func systemConfigPath() string {
	return "/etc/pmq/config.json"
}

// GlobalConfigDir returns the global config directory path.
func GlobalConfigDir() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "pmq")
}

// GlobalConfigPath returns the global config file path.
func GlobalConfigPath() string {
	return filepath.Join(GlobalConfigDir(), "config.json")
}

// NormalizeBaseURL ensures consistent URL format (no trailing slash).
func NormalizeBaseURL(url string) string {
	return strings.TrimSuffix(url, "/")
}
