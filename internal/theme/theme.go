// Package theme resolves the terminal color palette.
package theme

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for styled output.
type Theme struct {
	Primary    lipgloss.AdaptiveColor
	Secondary  lipgloss.AdaptiveColor
	Success    lipgloss.AdaptiveColor
	Warning    lipgloss.AdaptiveColor
	Error      lipgloss.AdaptiveColor
	Muted      lipgloss.AdaptiveColor
	Background lipgloss.AdaptiveColor
	Foreground lipgloss.AdaptiveColor
	Border     lipgloss.AdaptiveColor
}

// Default returns the default pmq theme.
func Default() Theme {
	return Theme{
		Primary:    lipgloss.AdaptiveColor{Light: "#1a73e8", Dark: "#8ab4f8"},
		Secondary:  lipgloss.AdaptiveColor{Light: "#5f6368", Dark: "#9aa0a6"},
		Success:    lipgloss.AdaptiveColor{Light: "#1e8e3e", Dark: "#81c995"},
		Warning:    lipgloss.AdaptiveColor{Light: "#f9ab00", Dark: "#fdd663"},
		Error:      lipgloss.AdaptiveColor{Light: "#d93025", Dark: "#f28b82"},
		Muted:      lipgloss.AdaptiveColor{Light: "#80868b", Dark: "#6e7681"},
		Background: lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#1f1f1f"},
		Foreground: lipgloss.AdaptiveColor{Light: "#202124", Dark: "#e8eaed"},
		Border:     lipgloss.AdaptiveColor{Light: "#dadce0", Dark: "#3c4043"},
	}
}

// NoColor returns a theme with empty colors (honors the NO_COLOR standard).
// Lipgloss treats empty strings as "no color", resulting in plain text output.
func NoColor() Theme {
	empty := lipgloss.AdaptiveColor{}
	return Theme{
		Primary:    empty,
		Secondary:  empty,
		Success:    empty,
		Warning:    empty,
		Error:      empty,
		Muted:      empty,
		Background: empty,
		Foreground: empty,
		Border:     empty,
	}
}

// Resolve loads a theme with the following precedence:
//  1. NO_COLOR env var set → NoColor theme
//  2. PMQ_THEME env var → parse custom colors.toml file
//  3. User theme from ~/.config/pmq/theme/colors.toml
//  4. Default pmq theme
func Resolve() Theme {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return NoColor()
	}

	if path := os.Getenv("PMQ_THEME"); path != "" {
		if t, err := LoadFile(path); err == nil {
			return t
		}
		// Fall through on error
	}

	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "pmq", "theme", "colors.toml")
		if t, err := LoadFile(path); err == nil {
			return t
		}
	}

	return Default()
}

// LoadFile parses a colors.toml file and returns a Theme.
func LoadFile(path string) (Theme, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Path from trusted config
	if err != nil {
		return Theme{}, err
	}
	return fromColors(parseColors(data)), nil
}

// parseColors parses a simple TOML file with key = "value" lines. This is a
// lightweight parser for colors.toml theme files, not general TOML.
func parseColors(data []byte) map[string]string {
	result := make(map[string]string)

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		// Strip inline comments outside quotes
		if idx := inlineComment(value); idx > 0 {
			value = strings.TrimSpace(value[:idx])
		}
		value = strings.Trim(value, `"'`)

		if !validHexColor(value) {
			continue
		}
		result[key] = value
	}

	return result
}

func inlineComment(s string) int {
	inQuote := false
	quoteChar := rune(0)
	for i, c := range s {
		if !inQuote && (c == '"' || c == '\'') {
			inQuote = true
			quoteChar = c
		} else if inQuote && c == quoteChar {
			inQuote = false
		} else if !inQuote && c == '#' {
			return i
		}
	}
	return -1
}

func validHexColor(s string) bool {
	if !strings.HasPrefix(s, "#") {
		return false
	}
	hex := s[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return false
	}
	for _, c := range hex {
		isDigit := c >= '0' && c <= '9'
		isLower := c >= 'a' && c <= 'f'
		isUpper := c >= 'A' && c <= 'F'
		if !isDigit && !isLower && !isUpper {
			return false
		}
	}
	return true
}

// fromColors maps terminal-theme color keys to pmq Theme semantics. Terminal
// themes are typically dark, so parsed colors populate the Dark variants.
func fromColors(colors map[string]string) Theme {
	defaults := Default()

	get := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := colors[k]; ok {
				return v
			}
		}
		return ""
	}
	dark := func(base lipgloss.AdaptiveColor, v string) lipgloss.AdaptiveColor {
		if v == "" {
			return base
		}
		return lipgloss.AdaptiveColor{Light: base.Light, Dark: v}
	}

	return Theme{
		Primary:    dark(defaults.Primary, get("accent", "color4")),
		Secondary:  dark(defaults.Secondary, get("color7")),
		Success:    dark(defaults.Success, get("color2")),
		Warning:    dark(defaults.Warning, get("color3")),
		Error:      dark(defaults.Error, get("color1")),
		Muted:      dark(defaults.Muted, get("color8", "color0")),
		Background: dark(defaults.Background, get("background")),
		Foreground: dark(defaults.Foreground, get("foreground")),
		Border:     dark(defaults.Border, get("color8", "color0")),
	}
}
