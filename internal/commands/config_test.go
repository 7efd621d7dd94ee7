package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskchain/pmq/internal/config"
	"github.com/taskchain/pmq/internal/output"
)

func TestParseBoolValue(t *testing.T) {
	tests := []struct {
		input string
		value bool
		ok    bool
	}{
		{"true", true, true},
		{"TRUE", true, true},
		{"1", true, true},
		{"yes", true, true},
		{"on", true, true},
		{"false", false, true},
		{"0", false, true},
		{"no", false, true},
		{"off", false, true},
		{" true ", true, true},

		{"maybe", false, false},
		{"", false, false},
		{"2", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			value, ok := parseBoolValue(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.value, value)
			}
		})
	}
}

func TestConfigKeys(t *testing.T) {
	t.Run("backend accepts known ids", func(t *testing.T) {
		cfg := config.Default()
		require.NoError(t, configKeys["backend"](cfg, "jira"))
		assert.Equal(t, "jira", cfg.Backend)
	})

	t.Run("backend rejects unknown ids", func(t *testing.T) {
		cfg := config.Default()
		err := configKeys["backend"](cfg, "linear")
		require.Error(t, err)
		assert.Equal(t, output.CodeUsage, output.AsError(err).Code)
	})

	t.Run("timeout must be positive", func(t *testing.T) {
		cfg := config.Default()
		require.NoError(t, configKeys["timeout"](cfg, "60"))
		assert.Equal(t, 60, cfg.Timeout)

		assert.Error(t, configKeys["timeout"](cfg, "0"))
		assert.Error(t, configKeys["timeout"](cfg, "-5"))
		assert.Error(t, configKeys["timeout"](cfg, "soon"))
	})

	t.Run("format validates choices", func(t *testing.T) {
		cfg := config.Default()
		require.NoError(t, configKeys["format"](cfg, "json"))
		assert.Equal(t, "json", cfg.Format)

		assert.Error(t, configKeys["format"](cfg, "xml"))
	})

	t.Run("hints stores tri-state", func(t *testing.T) {
		cfg := config.Default()
		require.Nil(t, cfg.Hints)

		require.NoError(t, configKeys["hints"](cfg, "false"))
		require.NotNil(t, cfg.Hints)
		assert.False(t, *cfg.Hints)
	})
}

func TestSettableKeysSorted(t *testing.T) {
	keys := settableKeys()
	require.NotEmpty(t, keys)
	assert.IsType(t, []string{}, keys)

	for i := 1; i < len(keys); i++ {
		assert.LessOrEqual(t, keys[i-1], keys[i], "keys should be sorted")
	}

	assert.Contains(t, keys, "backend")
	assert.Contains(t, keys, "defaultProjectId")
	assert.NotContains(t, keys, "apiToken", "tokens are stored in the keychain, not config")
}

func TestResetKey(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = "trello"
	cfg.Timeout = 90
	cfg.DefaultProjectID = "7"
	hints := false
	cfg.Hints = &hints

	resetKey(cfg, "backend")
	resetKey(cfg, "timeout")
	resetKey(cfg, "defaultProjectId")
	resetKey(cfg, "hints")

	def := config.Default()
	assert.Equal(t, def.Backend, cfg.Backend)
	assert.Equal(t, def.Timeout, cfg.Timeout)
	assert.Empty(t, cfg.DefaultProjectID)
	assert.Nil(t, cfg.Hints)
}

func TestTokenStatus(t *testing.T) {
	assert.Equal(t, "(set)", tokenStatus(true))
	assert.Equal(t, "(not set)", tokenStatus(false))
}
