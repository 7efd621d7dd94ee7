package backend

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/taskchain/pmq/internal/models"
)

// jiraStatusNames maps generic status values to Jira status names for JQL.
var jiraStatusNames = map[string]string{
	"pending":     "To Do",
	"in_progress": "In Progress",
	"completed":   "Done",
}

// jiraProfile adapts the Jira REST API v2. Tokens are "email:apitoken" pairs
// encoded as HTTP basic auth; the raw pair never appears in a header.
// Start/complete map to the transitions sub-resource, Jira's nearest
// primitive for status changes. No CCPM endpoints exist.
var jiraProfile = &Profile{
	ID:   IDJira,
	Name: "Jira",

	Headers: func(token string) map[string]string {
		encoded := base64.StdEncoding.EncodeToString([]byte(token))
		return map[string]string{
			"Authorization": "Basic " + encoded,
		}
	},

	Endpoints: map[Operation]Endpoint{
		OpListTasks:      static(http.MethodGet, "/rest/api/2/search"),
		OpGetTask:        byID(http.MethodGet, func(id string) string { return "/rest/api/2/issue/" + id }),
		OpCreateTask:     static(http.MethodPost, "/rest/api/2/issue"),
		OpStartTask:      byID(http.MethodPost, func(id string) string { return "/rest/api/2/issue/" + id + "/transitions" }),
		OpUpdateProgress: byID(http.MethodPut, func(id string) string { return "/rest/api/2/issue/" + id }),
		OpCompleteTask:   byID(http.MethodPost, func(id string) string { return "/rest/api/2/issue/" + id + "/transitions" }),
		OpAddComment:     byID(http.MethodPost, func(id string) string { return "/rest/api/2/issue/" + id + "/comment" }),
		OpListComments:   byID(http.MethodGet, func(id string) string { return "/rest/api/2/issue/" + id + "/comment" }),
		OpGetTimeLogs:    byID(http.MethodGet, func(id string) string { return "/rest/api/2/issue/" + id + "/worklog" }),
		OpListProjects:   static(http.MethodGet, "/rest/api/2/project"),
		OpGetProject:     byID(http.MethodGet, func(id string) string { return "/rest/api/2/project/" + id }),
		OpSearchTasks:    static(http.MethodGet, "/rest/api/2/search"),
		OpSystemInfo:     static(http.MethodGet, "/rest/api/2/serverInfo"),
		OpCurrentUser:    static(http.MethodGet, "/rest/api/2/myself"),
	},

	Translate: Translators{
		TaskFilters: func(f models.TaskFilters) url.Values {
			v := url.Values{}
			var clauses []string
			if name, ok := jiraStatusNames[f.Status]; ok {
				clauses = append(clauses, fmt.Sprintf("status = %q", name))
			}
			if f.Priority != "" {
				clauses = append(clauses, fmt.Sprintf("priority = %q", strings.Title(f.Priority))) //nolint:staticcheck // ASCII priority names only
			}
			if f.ProjectID != "" {
				clauses = append(clauses, "project = "+f.ProjectID)
			}
			if f.Query != "" {
				clauses = append(clauses, fmt.Sprintf("text ~ %q", f.Query))
			}
			if len(clauses) > 0 {
				v.Set("jql", strings.Join(clauses, " AND "))
			}
			if f.PerPage > 0 {
				v.Set("maxResults", strconv.Itoa(f.PerPage))
			}
			if f.Page > 1 && f.PerPage > 0 {
				v.Set("startAt", strconv.Itoa((f.Page-1)*f.PerPage))
			}
			return v
		},

		CreateTask: func(t models.TaskFields) map[string]any {
			fields := map[string]any{
				"issuetype": map[string]any{"name": "Task"},
			}
			if t.Name != "" {
				fields["summary"] = t.Name
			}
			if t.Description != "" {
				fields["description"] = t.Description
			}
			if t.ProjectID != "" {
				fields["project"] = map[string]any{"id": t.ProjectID}
			}
			if t.Priority != "" {
				fields["priority"] = map[string]any{"name": strings.Title(t.Priority)} //nolint:staticcheck // ASCII priority names only
			}
			if t.Estimation > 0 {
				fields["timetracking"] = map[string]any{
					"originalEstimate": fmt.Sprintf("%gh", t.Estimation),
				}
			}
			if t.DueDate != "" {
				fields["duedate"] = t.DueDate
			}
			return map[string]any{"fields": fields}
		},

		StartTask: func(o models.StartOptions) map[string]any {
			body := map[string]any{
				"transition": map[string]any{"name": "In Progress"},
			}
			if o.Comment != "" {
				body["update"] = commentUpdate(o.Comment)
			}
			return body
		},

		// Jira has no progress percentage; only the comment survives.
		Progress: func(p models.ProgressUpdate) map[string]any {
			body := map[string]any{}
			if p.Comment != "" {
				body["update"] = commentUpdate(p.Comment)
			}
			return body
		},

		Complete: func(o models.CompleteOptions) map[string]any {
			body := map[string]any{
				"transition": map[string]any{"name": "Done"},
			}
			if o.Comment != "" {
				body["update"] = commentUpdate(o.Comment)
			}
			return body
		},

		Comment: func(text string) map[string]any {
			return map[string]any{"body": text}
		},
	},
}

func commentUpdate(text string) map[string]any {
	return map[string]any{
		"comment": []any{
			map[string]any{"add": map[string]any{"body": text}},
		},
	}
}
