package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveHonorsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	got := Resolve()
	assert.Empty(t, got.Primary.Dark)
	assert.Empty(t, got.Error.Dark)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "colors.toml")
	content := `
# terminal palette
accent = "#89b4fa"
foreground = "#cdd6f4"  # main text
color1 = "#f38ba8"
color2 = 'a6e3a1'
bogus = "not-a-color"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	got, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "#89b4fa", got.Primary.Dark)
	assert.Equal(t, "#cdd6f4", got.Foreground.Dark)
	assert.Equal(t, "#f38ba8", got.Error.Dark)
	// Unquoted hex without # and invalid values fall back to defaults
	assert.Equal(t, Default().Success.Dark, got.Success.Dark)
	// Light variants always come from the default palette
	assert.Equal(t, Default().Primary.Light, got.Primary.Light)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestParseColorsSkipsMalformedLines(t *testing.T) {
	colors := parseColors([]byte("no equals sign\ncolor3 = \"#f9e2af\"\n= \"#ffffff\"\n"))
	assert.Equal(t, map[string]string{"color3": "#f9e2af"}, colors)
}

func TestValidHexColor(t *testing.T) {
	assert.True(t, validHexColor("#abc"))
	assert.True(t, validHexColor("#A1B2C3"))
	assert.False(t, validHexColor("abc"))
	assert.False(t, validHexColor("#abcd"))
	assert.False(t, validHexColor("#xyzxyz"))
}
