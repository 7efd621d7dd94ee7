// Package args parses the free-text command argument lists into the generic
// structures the adapter consumes. Arguments mix bare keywords
// ("pending", "urgent") with key:value tokens ("project:3", "estimate:2");
// anything unrecognized in a creation context becomes part of the task name.
package args

import (
	"strconv"
	"strings"

	"github.com/taskchain/pmq/internal/models"
	"github.com/taskchain/pmq/internal/output"
)

var statusKeywords = map[string]bool{
	"completed":   true,
	"pending":     true,
	"in_progress": true,
}

var priorityKeywords = map[string]bool{
	"urgent": true,
	"high":   true,
	"medium": true,
	"low":    true,
}

// ParseTaskFilters interprets listing arguments. Status and priority
// keywords are positional-free; "project:<id>" scopes to one project.
func ParseTaskFilters(tokens []string) models.TaskFilters {
	var f models.TaskFilters
	for _, tok := range tokens {
		switch {
		case statusKeywords[tok]:
			f.Status = tok
		case priorityKeywords[tok]:
			f.Priority = tok
		default:
			if key, value, ok := splitKeyValue(tok); ok && key == "project" {
				f.ProjectID = value
			}
		}
	}
	return f
}

// ParseTaskFields interprets creation arguments. key:value tokens fill
// specific fields; every remaining free-text token joins the task name.
func ParseTaskFields(tokens []string) (models.TaskFields, error) {
	var fields models.TaskFields
	var nameParts []string

	for _, tok := range tokens {
		key, value, ok := splitKeyValue(tok)
		if !ok {
			nameParts = append(nameParts, tok)
			continue
		}
		switch key {
		case "project":
			fields.ProjectID = value
		case "estimate":
			hours, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fields, output.ErrUsageHint(
					"Invalid estimate: "+value,
					"Use a number of hours, e.g. estimate:2.5",
				)
			}
			fields.Estimation = hours
		case "type":
			fields.PricingType = value
		case "name":
			fields.Name = value
		case "desc":
			fields.Description = value
		case "due":
			fields.DueDate = value
		case "priority":
			fields.Priority = value
		case "assignee":
			fields.Assignee = value
		default:
			// Unknown key:value tokens are treated as name text, so titles
			// containing a colon still work.
			nameParts = append(nameParts, tok)
		}
	}

	if fields.Name == "" && len(nameParts) > 0 {
		fields.Name = strings.Join(nameParts, " ")
	}
	if fields.Name == "" {
		return fields, output.ErrUsageHint(
			"Task name is required",
			"Provide a name as free text or name:<text>",
		)
	}
	return fields, nil
}

// ParseCCPMSettings interprets ccpm-enable arguments.
func ParseCCPMSettings(tokens []string) (models.CCPMSettings, error) {
	var s models.CCPMSettings
	for _, tok := range tokens {
		key, value, ok := splitKeyValue(tok)
		if !ok {
			continue
		}
		var err error
		switch key {
		case "project-buffer":
			s.ProjectBufferPct, err = parsePercentage(key, value)
		case "feeding-buffer":
			s.FeedingBufferPct, err = parsePercentage(key, value)
		case "resource-utilization":
			s.ResourceUtilization, err = parsePercentage(key, value)
		case "start-date":
			s.StartDate = value
		case "duration":
			s.DurationDays, err = parsePositiveInt(key, value)
		case "auto-analyze":
			s.AutoAnalyze = value == "true" || value == "yes" || value == "1"
		}
		if err != nil {
			return s, err
		}
	}
	return s, nil
}

// ParseBufferUpdate interprets "<task-id> <percentage>" arguments.
func ParseBufferUpdate(tokens []string) (models.BufferUpdate, error) {
	if len(tokens) < 2 {
		return models.BufferUpdate{}, output.ErrUsageHint(
			"Task id and percentage are required",
			"Usage: pmq ccpm buffer <task-id> <percentage>",
		)
	}
	pct, err := strconv.Atoi(tokens[1])
	if err != nil || pct < 0 || pct > 100 {
		return models.BufferUpdate{}, output.ErrUsageHint(
			"Invalid percentage: "+tokens[1],
			"Use a whole number between 0 and 100",
		)
	}
	return models.BufferUpdate{TaskID: tokens[0], Percentage: pct}, nil
}

func splitKeyValue(tok string) (key, value string, ok bool) {
	key, value, ok = strings.Cut(tok, ":")
	if !ok || key == "" || value == "" {
		return "", "", false
	}
	return key, value, true
}

func parsePercentage(key, value string) (int, error) {
	pct, err := strconv.Atoi(value)
	if err != nil || pct < 0 || pct > 100 {
		return 0, output.ErrUsageHint(
			"Invalid "+key+": "+value,
			"Use a whole number between 0 and 100",
		)
	}
	return pct, nil
}

func parsePositiveInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, output.ErrUsageHint(
			"Invalid "+key+": "+value,
			"Use a positive whole number",
		)
	}
	return n, nil
}
