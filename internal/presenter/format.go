package presenter

import (
	"fmt"
	"strings"
	"time"
)

// FormatField formats a field value according to its FieldSpec.
func FormatField(spec FieldSpec, key string, val any, locale Locale) string {
	switch spec.Format {
	case "boolean":
		return formatBoolean(spec, val)
	case "date":
		return formatDate(val, locale)
	case "relative_time":
		return formatRelativeTime(val, locale)
	case "percentage":
		return formatPercentage(val)
	case "hours":
		return formatHours(val, locale)
	case "label":
		return formatLabel(spec, val)
	case "people":
		return formatPeople(val)
	default:
		return formatText(val, locale)
	}
}

// formatBoolean converts a boolean to a schema-provided label, or "yes"/"no".
func formatBoolean(spec FieldSpec, val any) string {
	b := toBool(val)
	if label, ok := spec.Labels[fmt.Sprintf("%v", b)]; ok {
		return label
	}
	if b {
		return "yes"
	}
	return "no"
}

// formatDate formats a date string per the locale.
func formatDate(val any, locale Locale) string {
	str, ok := val.(string)
	if !ok || str == "" {
		return ""
	}

	if t, err := time.Parse(time.RFC3339, str); err == nil {
		return locale.FormatDate(t)
	}
	if t, err := time.Parse("2006-01-02", str); err == nil {
		return locale.FormatDate(t)
	}
	return str
}

// formatRelativeTime formats a timestamp as relative time (e.g. "2 hours ago").
func formatRelativeTime(val any, locale Locale) string {
	str, ok := val.(string)
	if !ok || str == "" {
		return ""
	}

	t, err := time.Parse(time.RFC3339, str)
	if err != nil {
		t, err = time.Parse("2006-01-02", str)
		if err != nil {
			return str
		}
	}

	diff := time.Since(t)
	if diff < 0 {
		return locale.FormatDate(t)
	}

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "yesterday"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return locale.FormatDate(t)
	}
}

// formatPercentage renders buffer consumption and progress values.
func formatPercentage(val any) string {
	switch v := val.(type) {
	case float64:
		return fmt.Sprintf("%.0f%%", v)
	case int:
		return fmt.Sprintf("%d%%", v)
	case string:
		if v == "" {
			return ""
		}
		return v + "%"
	default:
		return ""
	}
}

// formatHours renders an estimation in hours.
func formatHours(val any, locale Locale) string {
	f, ok := toFloat(val)
	if !ok || f == 0 {
		return ""
	}
	return locale.FormatNumber(f) + "h"
}

// formatLabel maps a raw value (like a ccpm_status) to a display label.
func formatLabel(spec FieldSpec, val any) string {
	if val == nil {
		return ""
	}
	s := fmt.Sprintf("%v", val)
	if label, ok := spec.Labels[s]; ok {
		return label
	}
	return strings.ReplaceAll(s, "_", " ")
}

// formatPeople formats an array of people (maps with a "name" field) as
// comma-separated names.
func formatPeople(val any) string {
	arr, ok := val.([]any)
	if !ok || len(arr) == 0 {
		return ""
	}

	var names []string
	for _, item := range arr {
		if m, ok := item.(map[string]any); ok {
			if name, ok := m["name"].(string); ok {
				names = append(names, name)
			}
		}
	}
	return strings.Join(names, ", ")
}

// formatText converts any value to a string representation.
func formatText(val any, locale Locale) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "yes"
		}
		return "no"
	case float64:
		return locale.FormatNumber(v)
	case int:
		return locale.FormatNumber(float64(v))
	case int64:
		return locale.FormatNumber(float64(v))
	case []any:
		var items []string
		for _, item := range v {
			items = append(items, formatText(item, locale))
		}
		return strings.Join(items, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}

// toBool converts various types to bool.
func toBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "1" || v == "yes"
	case float64:
		return v != 0
	default:
		return false
	}
}

func toFloat(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// IsOverdue checks if a date value is before the start of today in local
// time. Handles both date-only ("2006-01-02") and RFC3339 timestamps.
func IsOverdue(val any) bool {
	str, ok := val.(string)
	if !ok || str == "" {
		return false
	}

	now := time.Now()
	todayLocal := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if t, err := time.Parse(time.RFC3339, str); err == nil {
		return t.In(now.Location()).Before(todayLocal)
	}
	// Date-only values have no timezone; parse in local timezone
	if t, err := time.ParseInLocation("2006-01-02", str, now.Location()); err == nil {
		return t.Before(todayLocal)
	}
	return false
}
