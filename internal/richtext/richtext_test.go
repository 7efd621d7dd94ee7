package richtext

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown("# Buffer Report\n\n- project buffer: 40%")
	if err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}
	if !strings.Contains(out, "Buffer Report") {
		t.Errorf("heading text missing from output: %q", out)
	}
}

func TestRenderMarkdownEmpty(t *testing.T) {
	out, err := RenderMarkdown("")
	if err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}
	if out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "paragraph",
			input:    "<p>Task started</p>",
			expected: "Task started",
		},
		{
			name:     "line breaks",
			input:    "line one<br>line two",
			expected: "line one\nline two",
		},
		{
			name:     "nested tags",
			input:    "<div><strong>bold</strong> and <em>italic</em></div>",
			expected: "bold and italic",
		},
		{
			name:     "entities",
			input:    "<p>a &amp; b &lt;= c</p>",
			expected: "a & b <= c",
		},
		{
			name:     "list items on separate lines",
			input:    "<ul><li>one</li><li>two</li></ul>",
			expected: "one\ntwo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTMLToText(tt.input); got != tt.expected {
				t.Errorf("HTMLToText(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsMarkdown(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"", false},
		{"plain text", false},
		{"# Heading", true},
		{"some **bold** text", true},
		{"a [link](https://x.test)", true},
		{"```\ncode\n```", true},
		{"- item", true},
		{"1. item", true},
		{"> quoted", true},
		{"<p>html, not markdown</p>", false},
	}

	for _, tt := range tests {
		if got := IsMarkdown(tt.input); got != tt.expected {
			t.Errorf("IsMarkdown(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestIsHTML(t *testing.T) {
	if !IsHTML("<p>hi</p>") {
		t.Error("paragraph should be detected as HTML")
	}
	if IsHTML("2 < 3 and 4 > 1") {
		t.Error("bare comparisons are not HTML")
	}
	if IsHTML("") {
		t.Error("empty string is not HTML")
	}
}
