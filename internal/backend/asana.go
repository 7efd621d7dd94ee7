package backend

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/taskchain/pmq/internal/models"
)

// asanaProfile adapts the Asana REST API. Every request/response body is
// wrapped in a {"data": ...} envelope; start/complete/progress all route to
// the generic task-update endpoint since Asana has no dedicated workflow
// sub-resources. Comments are "stories". No CCPM endpoints exist.
var asanaProfile = &Profile{
	ID:   IDAsana,
	Name: "Asana",

	Headers: func(token string) map[string]string {
		return map[string]string{
			"Authorization": "Bearer " + token,
		}
	},

	Endpoints: map[Operation]Endpoint{
		OpListTasks:      static(http.MethodGet, "/api/1.0/tasks"),
		OpGetTask:        byID(http.MethodGet, func(id string) string { return "/api/1.0/tasks/" + id }),
		OpCreateTask:     static(http.MethodPost, "/api/1.0/tasks"),
		OpStartTask:      byID(http.MethodPut, func(id string) string { return "/api/1.0/tasks/" + id }),
		OpUpdateProgress: byID(http.MethodPut, func(id string) string { return "/api/1.0/tasks/" + id }),
		OpCompleteTask:   byID(http.MethodPut, func(id string) string { return "/api/1.0/tasks/" + id }),
		OpAddComment:     byID(http.MethodPost, func(id string) string { return "/api/1.0/tasks/" + id + "/stories" }),
		OpListComments:   byID(http.MethodGet, func(id string) string { return "/api/1.0/tasks/" + id + "/stories" }),
		OpGetTimeLogs:    byID(http.MethodGet, func(id string) string { return "/api/1.0/tasks/" + id + "/stories" }),
		OpListProjects:   static(http.MethodGet, "/api/1.0/projects"),
		OpGetProject:     byID(http.MethodGet, func(id string) string { return "/api/1.0/projects/" + id }),
		OpSearchTasks:    static(http.MethodGet, "/api/1.0/tasks"),
		OpSystemInfo:     static(http.MethodGet, "/api/1.0/users/me"),
		OpCurrentUser:    static(http.MethodGet, "/api/1.0/users/me"),
	},

	Translate: Translators{
		TaskFilters: func(f models.TaskFilters) url.Values {
			v := url.Values{}
			setIfNotEmpty(v, "project", f.ProjectID)
			if f.Status == "completed" {
				v.Set("completed_since", "now")
			}
			setIfNotEmpty(v, "text", f.Query)
			if f.PerPage > 0 {
				v.Set("limit", strconv.Itoa(f.PerPage))
			}
			return v
		},

		CreateTask: func(t models.TaskFields) map[string]any {
			data := map[string]any{}
			if t.Name != "" {
				data["name"] = t.Name
			}
			if t.Description != "" {
				data["notes"] = t.Description
			}
			if t.ProjectID != "" {
				data["projects"] = []any{t.ProjectID}
			}
			if t.DueDate != "" {
				data["due_on"] = t.DueDate
			}
			if t.Assignee != "" {
				data["assignee"] = t.Assignee
			}
			return map[string]any{"data": data}
		},

		// Asana has no "start" state; claiming the task is the nearest analogue.
		StartTask: func(o models.StartOptions) map[string]any {
			return map[string]any{"data": map[string]any{"assignee": "me"}}
		},

		Progress: func(p models.ProgressUpdate) map[string]any {
			return map[string]any{"data": map[string]any{}}
		},

		Complete: func(o models.CompleteOptions) map[string]any {
			return map[string]any{"data": map[string]any{"completed": true}}
		},

		Comment: func(text string) map[string]any {
			return map[string]any{"data": map[string]any{"text": text}}
		},
	},
}
