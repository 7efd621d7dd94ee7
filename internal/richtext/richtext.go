// Package richtext renders Markdown task descriptions and CCPM reports for
// terminal display, and flattens HTML fragments some backends return in
// comment bodies.
package richtext

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders Markdown for terminal display using glamour.
func RenderMarkdown(md string) (string, error) {
	return RenderMarkdownWithWidth(md, 80)
}

// RenderMarkdownWithWidth renders Markdown with a custom wrap width.
func RenderMarkdownWithWidth(md string, width int) (string, error) {
	if md == "" {
		return "", nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}

	out, err := r.Render(md)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

var (
	tagPattern    = regexp.MustCompile(`<[^>]+>`)
	brPattern     = regexp.MustCompile(`(?i)<br\s*/?>`)
	blockPattern  = regexp.MustCompile(`(?i)</(p|div|li|h[1-6])>`)
	spacesPattern = regexp.MustCompile(`\n{3,}`)
)

// HTMLToText flattens an HTML fragment to plain text. Some backends return
// comment bodies and descriptions as HTML; display and search want text.
func HTMLToText(html string) string {
	if html == "" {
		return ""
	}

	s := brPattern.ReplaceAllString(html, "\n")
	s = blockPattern.ReplaceAllString(s, "\n")
	s = tagPattern.ReplaceAllString(s, "")

	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#39;", "'")
	s = strings.ReplaceAll(s, "&nbsp;", " ")

	s = spacesPattern.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// markdownPatterns are the cues used to decide whether a description is
// worth running through the Markdown renderer. Heuristic, not a parser.
var markdownPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^#{1,6}\s`),       // headings
	regexp.MustCompile(`\*\*[^*]+\*\*`),       // bold
	regexp.MustCompile(`\[[^\]]+\]\([^)]+\)`), // links
	regexp.MustCompile("```"),                 // code blocks
	regexp.MustCompile(`(?m)^[-*+]\s`),        // unordered list
	regexp.MustCompile(`(?m)^\d+\.\s`),        // ordered list
	regexp.MustCompile(`(?m)^>\s`),            // blockquote
}

// IsMarkdown reports whether the input looks like Markdown rather than
// plain text or HTML.
func IsMarkdown(s string) bool {
	if s == "" || IsHTML(s) {
		return false
	}
	for _, pattern := range markdownPatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

var htmlPattern = regexp.MustCompile(`<[a-zA-Z][^>]*>`)

// IsHTML reports whether the input contains HTML tags.
func IsHTML(s string) bool {
	return s != "" && htmlPattern.MatchString(s)
}
