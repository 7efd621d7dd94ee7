package presenter

import (
	"io"

	"github.com/taskchain/pmq/internal/theme"
)

// RenderMode controls the output format.
type RenderMode int

const (
	ModeStyled   RenderMode = iota // ANSI styled terminal output
	ModeMarkdown                   // Literal Markdown syntax
)

// Present attempts schema-aware rendering of the data.
// Returns true if a schema was found and rendering was handled.
// Returns false if no schema matched (caller should fall back to generic
// rendering).
func Present(w io.Writer, data any, entityHint string, mode RenderMode) bool {
	schema := Detect(data, entityHint)
	if schema == nil {
		return false
	}
	return presentWith(w, data, schema, theme.Resolve(), mode)
}

// PresentWithTheme is like Present but accepts a theme directly (for testing).
func PresentWithTheme(w io.Writer, data any, entityHint string, mode RenderMode, t theme.Theme) bool {
	schema := Detect(data, entityHint)
	if schema == nil {
		return false
	}
	return presentWith(w, data, schema, t, mode)
}

func presentWith(w io.Writer, data any, schema *EntitySchema, t theme.Theme, mode RenderMode) bool {
	locale := DetectLocale()

	switch mode {
	case ModeMarkdown:
		return presentMarkdown(w, data, schema, locale)
	default:
		return presentStyled(w, data, schema, t, locale)
	}
}

func presentStyled(w io.Writer, data any, schema *EntitySchema, t theme.Theme, locale Locale) bool {
	styles := NewStyles(t, true)

	switch d := data.(type) {
	case map[string]any:
		return RenderDetail(w, schema, d, styles, locale) == nil
	case []map[string]any:
		if len(d) == 0 {
			return false
		}
		return RenderList(w, schema, d, styles, locale) == nil
	}
	return false
}

func presentMarkdown(w io.Writer, data any, schema *EntitySchema, locale Locale) bool {
	switch d := data.(type) {
	case map[string]any:
		return RenderDetailMarkdown(w, schema, d, locale) == nil
	case []map[string]any:
		if len(d) == 0 {
			return false
		}
		return RenderListMarkdown(w, schema, d, locale) == nil
	}
	return false
}
