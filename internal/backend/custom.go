package backend

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/taskchain/pmq/internal/models"
)

// customProfile is the generic fallback for self-hosted or unknown systems.
// It assumes a plain REST shape with bearer auth and passes generic field
// names through untranslated. Unknown backend identifiers resolve here, so
// it deliberately makes the weakest assumptions: start routes to a generic
// task update rather than a workflow sub-resource, and no CCPM endpoints
// are defined.
var customProfile = &Profile{
	ID:   IDCustom,
	Name: "Custom",

	Headers: func(token string) map[string]string {
		return map[string]string{
			"Authorization": "Bearer " + token,
		}
	},

	Endpoints: map[Operation]Endpoint{
		OpListTasks:      static(http.MethodGet, "/api/tasks"),
		OpGetTask:        byID(http.MethodGet, func(id string) string { return "/api/tasks/" + id }),
		OpCreateTask:     static(http.MethodPost, "/api/tasks"),
		OpStartTask:      byID(http.MethodPut, func(id string) string { return "/api/tasks/" + id }),
		OpUpdateProgress: byID(http.MethodPut, func(id string) string { return "/api/tasks/" + id }),
		OpCompleteTask:   byID(http.MethodPut, func(id string) string { return "/api/tasks/" + id }),
		OpAddComment:     byID(http.MethodPost, func(id string) string { return "/api/tasks/" + id + "/comments" }),
		OpListComments:   byID(http.MethodGet, func(id string) string { return "/api/tasks/" + id + "/comments" }),
		OpGetTimeLogs:    byID(http.MethodGet, func(id string) string { return "/api/tasks/" + id + "/time-logs" }),
		OpListProjects:   static(http.MethodGet, "/api/projects"),
		OpGetProject:     byID(http.MethodGet, func(id string) string { return "/api/projects/" + id }),
		OpSearchTasks:    static(http.MethodGet, "/api/tasks"),
		OpSystemInfo:     static(http.MethodGet, "/api/info"),
		OpCurrentUser:    static(http.MethodGet, "/api/me"),
	},

	Translate: Translators{
		TaskFilters: func(f models.TaskFilters) url.Values {
			v := url.Values{}
			setIfNotEmpty(v, "status", f.Status)
			setIfNotEmpty(v, "priority", f.Priority)
			setIfNotEmpty(v, "project_id", f.ProjectID)
			setIfNotEmpty(v, "q", f.Query)
			if f.Page > 0 {
				v.Set("page", strconv.Itoa(f.Page))
			}
			if f.PerPage > 0 {
				v.Set("per_page", strconv.Itoa(f.PerPage))
			}
			return v
		},

		CreateTask: func(t models.TaskFields) map[string]any {
			body := map[string]any{}
			if t.Name != "" {
				body["name"] = t.Name
			}
			if t.Description != "" {
				body["description"] = t.Description
			}
			if t.ProjectID != "" {
				body["project_id"] = t.ProjectID
			}
			if t.Status != "" {
				body["status"] = t.Status
			}
			if t.Priority != "" {
				body["priority"] = t.Priority
			}
			if t.Estimation > 0 {
				body["estimation"] = t.Estimation
			}
			if t.DueDate != "" {
				body["due_date"] = t.DueDate
			}
			return body
		},

		StartTask: func(o models.StartOptions) map[string]any {
			body := map[string]any{"status": "in_progress"}
			if o.Comment != "" {
				body["comment"] = o.Comment
			}
			return body
		},

		Progress: func(p models.ProgressUpdate) map[string]any {
			body := map[string]any{"progress": p.Percentage}
			if p.Comment != "" {
				body["comment"] = p.Comment
			}
			return body
		},

		Complete: func(o models.CompleteOptions) map[string]any {
			body := map[string]any{"status": "completed"}
			if o.Comment != "" {
				body["comment"] = o.Comment
			}
			return body
		},

		Comment: func(text string) map[string]any {
			return map[string]any{"text": text}
		},
	},
}
