package presenter

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/taskchain/pmq/internal/richtext"
	"github.com/taskchain/pmq/internal/theme"
)

// bodyText flattens HTML fragments some backends return in description
// fields before display.
func bodyText(s string) string {
	if richtext.IsHTML(s) {
		return richtext.HTMLToText(s)
	}
	return s
}

// styledBody prepares a body field for terminal display: HTML is flattened,
// Markdown is rendered through glamour.
func styledBody(s string, styled bool) string {
	text := bodyText(s)
	if styled && richtext.IsMarkdown(text) {
		if out, err := richtext.RenderMarkdownWithWidth(text, 76); err == nil && out != "" {
			return out
		}
	}
	return text
}

// Styles holds the lipgloss styles used by the presenter.
type Styles struct {
	Primary lipgloss.Style
	Normal  lipgloss.Style
	Muted   lipgloss.Style
	Subtle  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Heading lipgloss.Style
	Label   lipgloss.Style
	Body    lipgloss.Style

	// Styled reports whether ANSI output is in effect; body fields only go
	// through the terminal Markdown renderer when it is.
	Styled bool
}

// NewStyles creates presenter styles from a theme.
func NewStyles(t theme.Theme, styled bool) Styles {
	if !styled {
		plain := lipgloss.NewStyle()
		return Styles{
			Primary: plain, Normal: plain, Muted: plain, Subtle: plain,
			Success: plain, Warning: plain, Error: plain,
			Heading: plain, Label: plain, Body: plain,
		}
	}

	return Styles{
		Primary: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Primary.Dark)).Bold(true),
		Normal:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Foreground.Dark)),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted.Dark)),
		Subtle:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Border.Dark)),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success.Dark)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning.Dark)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Error.Dark)),
		Heading: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted.Dark)).Bold(true),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted.Dark)),
		Body:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Foreground.Dark)),
		Styled:  true,
	}
}

// EmphasisStyle returns the style for a given emphasis string.
func (s Styles) EmphasisStyle(emphasis string) lipgloss.Style {
	switch emphasis {
	case "primary":
		return s.Primary
	case "muted":
		return s.Muted
	case "success":
		return s.Success
	case "warning":
		return s.Warning
	case "error":
		return s.Error
	default:
		return s.Normal
	}
}

// RenderDetail renders a single entity using its schema's detail view.
func RenderDetail(w io.Writer, schema *EntitySchema, data map[string]any, styles Styles, locale Locale) error {
	var b strings.Builder

	headline := RenderHeadline(schema, data)
	if headline != "" {
		b.WriteString(styles.Primary.Render(headline))
		b.WriteString("\n")
	}

	if len(schema.Views.Detail.Sections) > 0 {
		for _, section := range schema.Views.Detail.Sections {
			renderDetailSection(&b, schema, section, data, styles, locale)
		}
	} else {
		renderAllFields(&b, schema, data, styles, locale)
	}

	if len(schema.Actions) > 0 {
		renderAffordances(&b, schema, data, styles)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderList renders a slice of entities using the schema's list view.
func RenderList(w io.Writer, schema *EntitySchema, data []map[string]any, styles Styles, locale Locale) error {
	columns := listColumns(schema)
	if len(columns) == 0 || len(data) == 0 {
		return nil
	}

	var b strings.Builder
	for _, item := range data {
		renderListRow(&b, schema, columns, item, styles, locale)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// listColumns returns the schema's declared list columns, falling back to
// title/detail fields in stable order.
func listColumns(schema *EntitySchema) []string {
	if cols := schema.Views.List.Columns; len(cols) > 0 {
		return cols
	}

	var candidates []string
	for name, spec := range schema.Fields {
		if spec.Role == "title" || spec.Role == "detail" {
			candidates = append(candidates, name)
		}
	}
	sort.Strings(candidates)
	return candidates
}

func renderDetailSection(b *strings.Builder, schema *EntitySchema, section DetailSection, data map[string]any, styles Styles, locale Locale) {
	if section.Heading != "" {
		b.WriteString("\n")
		b.WriteString(styles.Heading.Render(section.Heading))
		b.WriteString("\n")
	}

	// Find max label length for alignment
	maxLen := 0
	var visibleFields []string
	for _, name := range section.Fields {
		spec := schema.Fields[name]
		val := data[name]

		if spec.Collapse && isEmpty(val) {
			continue
		}
		// Title role renders as the headline, not a labeled field
		if spec.Role == "title" {
			continue
		}
		// Body role renders as a text block, not labeled
		if spec.Role == "body" {
			if !isEmpty(val) {
				visibleFields = append(visibleFields, name)
			}
			continue
		}

		label := fieldLabel(name)
		if len(label) > maxLen {
			maxLen = len(label)
		}
		visibleFields = append(visibleFields, name)
	}

	for _, name := range visibleFields {
		spec := schema.Fields[name]
		val := data[name]
		formatted := FormatField(spec, name, val, locale)

		style := resolveEmphasis(spec, val, styles)
		if spec.Role == "body" && spec.Emphasis == "" && spec.WhenOverdue == "" {
			style = styles.Body
		}

		if spec.Role == "body" {
			b.WriteString("\n")
			b.WriteString(style.Render("  " + styledBody(formatted, styles.Styled)))
			b.WriteString("\n")
			continue
		}

		if formatted == "" {
			continue
		}

		label := fieldLabel(name)
		b.WriteString(styles.Label.Render(fmt.Sprintf("  %-*s  ", maxLen, label)))
		b.WriteString(style.Render(formatted))
		b.WriteString("\n")
	}
}

func renderAllFields(b *strings.Builder, schema *EntitySchema, data map[string]any, styles Styles, locale Locale) {
	fieldNames := make([]string, 0, len(schema.Fields))
	for name := range schema.Fields {
		fieldNames = append(fieldNames, name)
	}
	sort.Strings(fieldNames)

	roleOrder := []string{"title", "detail", "body", "meta"}
	for _, role := range roleOrder {
		for _, name := range fieldNames {
			spec := schema.Fields[name]
			if spec.Role != role {
				continue
			}
			val := data[name]
			if spec.Collapse && isEmpty(val) {
				continue
			}
			if spec.Role == "title" {
				continue // already rendered as headline
			}

			formatted := FormatField(spec, name, val, locale)
			if formatted == "" {
				continue
			}

			style := resolveEmphasis(spec, val, styles)
			if spec.Role == "body" && spec.Emphasis == "" && spec.WhenOverdue == "" {
				style = styles.Body
			}

			if spec.Role == "body" {
				b.WriteString("\n")
				b.WriteString(style.Render("  " + styledBody(formatted, styles.Styled)))
				b.WriteString("\n")
			} else {
				label := fieldLabel(name)
				b.WriteString(styles.Label.Render(fmt.Sprintf("  %-12s  ", label)))
				b.WriteString(style.Render(formatted))
				b.WriteString("\n")
			}
		}
	}
}

func renderAffordances(b *strings.Builder, schema *EntitySchema, data map[string]any, styles Styles) {
	var visible []Affordance
	for _, a := range schema.Actions {
		if EvalCondition(a.When, data) {
			visible = append(visible, a)
		}
	}
	if len(visible) == 0 {
		return
	}

	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("─────"))
	b.WriteString("\n")
	b.WriteString(styles.Subtle.Render("Next:"))
	b.WriteString("\n")

	maxCmd := 0
	renderedCmds := make([]string, len(visible))
	for i, a := range visible {
		renderedCmds[i] = RenderTemplate(a.Cmd, data)
		if len(renderedCmds[i]) > maxCmd {
			maxCmd = len(renderedCmds[i])
		}
	}

	for i, a := range visible {
		line := fmt.Sprintf("  %-*s  %s", maxCmd, renderedCmds[i], a.Label)
		b.WriteString(styles.Subtle.Render(line))
		b.WriteString("\n")
	}
}

func renderListRow(b *strings.Builder, schema *EntitySchema, columns []string, data map[string]any, styles Styles, locale Locale) {
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		spec := schema.Fields[col]
		val := data[col]
		formatted := FormatField(spec, col, val, locale)

		style := resolveEmphasis(spec, val, styles)
		parts = append(parts, style.Render(formatted))
	}
	b.WriteString(strings.Join(parts, "  "))
	b.WriteString("\n")
}

// resolveEmphasis picks the right style for a field, considering
// conditional emphasis.
func resolveEmphasis(spec FieldSpec, val any, styles Styles) lipgloss.Style {
	if spec.WhenOverdue != "" && IsOverdue(val) {
		return styles.EmphasisStyle(spec.WhenOverdue)
	}
	if spec.Emphasis != "" {
		return styles.EmphasisStyle(spec.Emphasis)
	}
	return styles.Normal
}

// fieldLabel converts a field key to a human label.
func fieldLabel(key string) string {
	key = strings.ReplaceAll(key, "_", " ")
	key = strings.TrimSuffix(key, " on")
	key = strings.TrimSuffix(key, " at")
	words := strings.Fields(key)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func isEmpty(val any) bool {
	if val == nil {
		return true
	}
	switch v := val.(type) {
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case []map[string]any:
		return len(v) == 0
	}
	return false
}

// escapePipe escapes pipe characters in Markdown table cells.
func escapePipe(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

// RenderDetailMarkdown renders a single entity as Markdown.
func RenderDetailMarkdown(w io.Writer, schema *EntitySchema, data map[string]any, locale Locale) error {
	var b strings.Builder

	headline := RenderHeadline(schema, data)
	if headline != "" {
		b.WriteString("**" + headline + "**\n")
	}

	if len(schema.Views.Detail.Sections) > 0 {
		for _, section := range schema.Views.Detail.Sections {
			renderDetailSectionMarkdown(&b, schema, section, data, locale)
		}
	} else {
		renderAllFieldsMarkdown(&b, schema, data, locale)
	}

	if len(schema.Actions) > 0 {
		renderAffordancesMarkdown(&b, schema, data)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderListMarkdown renders a slice of entities as a Markdown table.
func RenderListMarkdown(w io.Writer, schema *EntitySchema, data []map[string]any, locale Locale) error {
	columns := listColumns(schema)
	if len(columns) == 0 || len(data) == 0 {
		return nil
	}

	var b strings.Builder

	var headers []string
	var dividers []string
	for _, col := range columns {
		headers = append(headers, fieldLabel(col))
		dividers = append(dividers, "---")
	}
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString("| " + strings.Join(dividers, " | ") + " |\n")

	for _, item := range data {
		var cells []string
		for _, col := range columns {
			spec := schema.Fields[col]
			cells = append(cells, escapePipe(FormatField(spec, col, item[col], locale)))
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderDetailSectionMarkdown(b *strings.Builder, schema *EntitySchema, section DetailSection, data map[string]any, locale Locale) {
	if section.Heading != "" {
		b.WriteString("\n#### " + section.Heading + "\n\n")
	}

	for _, name := range section.Fields {
		spec := schema.Fields[name]
		val := data[name]

		if spec.Collapse && isEmpty(val) {
			continue
		}
		if spec.Role == "title" {
			continue
		}

		formatted := FormatField(spec, name, val, locale)

		if spec.Role == "body" {
			if formatted != "" {
				b.WriteString("\n" + bodyText(formatted) + "\n")
			}
			continue
		}

		if formatted == "" {
			continue
		}
		b.WriteString("- **" + fieldLabel(name) + ":** " + formatted + "\n")
	}
}

func renderAllFieldsMarkdown(b *strings.Builder, schema *EntitySchema, data map[string]any, locale Locale) {
	fieldNames := make([]string, 0, len(schema.Fields))
	for name := range schema.Fields {
		fieldNames = append(fieldNames, name)
	}
	sort.Strings(fieldNames)

	roleOrder := []string{"title", "detail", "body", "meta"}
	for _, role := range roleOrder {
		for _, name := range fieldNames {
			spec := schema.Fields[name]
			if spec.Role != role {
				continue
			}
			val := data[name]
			if spec.Collapse && isEmpty(val) {
				continue
			}
			if spec.Role == "title" {
				continue
			}

			formatted := FormatField(spec, name, val, locale)
			if formatted == "" {
				continue
			}

			if spec.Role == "body" {
				b.WriteString("\n" + bodyText(formatted) + "\n")
			} else {
				b.WriteString("- **" + fieldLabel(name) + ":** " + formatted + "\n")
			}
		}
	}
}

func renderAffordancesMarkdown(b *strings.Builder, schema *EntitySchema, data map[string]any) {
	var visible []Affordance
	for _, a := range schema.Actions {
		if EvalCondition(a.When, data) {
			visible = append(visible, a)
		}
	}
	if len(visible) == 0 {
		return
	}

	b.WriteString("\n#### Next\n\n")
	for _, a := range visible {
		cmd := RenderTemplate(a.Cmd, data)
		b.WriteString("- `" + cmd + "` — " + a.Label + "\n")
	}
}
