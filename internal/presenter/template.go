package presenter

import (
	"bytes"
	"fmt"
	"text/template"
)

// templateFuncs provides helper functions for schema templates.
var templateFuncs = template.FuncMap{
	"not": func(v any) bool {
		return !toBool(v)
	},
}

// RenderTemplate executes a Go text/template with the given data.
// Returns the rendered string, or empty string on error.
func RenderTemplate(tmpl string, data map[string]any) string {
	t, err := template.New("").Funcs(templateFuncs).Parse(tmpl)
	if err != nil {
		return ""
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, normalizeNumbers(data)); err != nil {
		return ""
	}
	return buf.String()
}

// normalizeNumbers rewrites whole-number float64 values (the shape
// encoding/json gives every numeric ID) as int64 so templates print
// "123456789" rather than "1.23456789e+08".
func normalizeNumbers(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if f, ok := v.(float64); ok && f == float64(int64(f)) {
			out[k] = int64(f)
			continue
		}
		out[k] = v
	}
	return out
}

// EvalCondition evaluates a template condition (from affordance "when"
// fields). Returns true if the template renders to "true"; an empty
// condition is always visible.
func EvalCondition(condition string, data map[string]any) bool {
	if condition == "" {
		return true
	}
	return RenderTemplate(condition, data) == "true"
}

// RenderHeadline selects and renders the appropriate headline for the data.
func RenderHeadline(schema *EntitySchema, data map[string]any) string {
	if schema.Headline == nil {
		if label := schema.Identity.Label; label != "" {
			if v, ok := data[label]; ok {
				return fmt.Sprintf("%v", v)
			}
		}
		return ""
	}

	// Conditional headlines key on boolean data fields (e.g. "completed")
	for key, spec := range schema.Headline {
		if key == "default" {
			continue
		}
		if toBool(data[key]) {
			if rendered := RenderTemplate(spec.Template, data); rendered != "" {
				return rendered
			}
		}
	}

	if spec, ok := schema.Headline["default"]; ok {
		return RenderTemplate(spec.Template, data)
	}
	return ""
}
