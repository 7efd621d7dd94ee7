package backend

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/taskchain/pmq/internal/models"
)

// trelloProfile adapts the Trello REST API. Tokens are "key:token" pairs
// carried in an OAuth 1.0-style Authorization header. Boards stand in for
// projects and cards for tasks; Trello has no workflow states, so start and
// progress route to the generic card-update endpoint and complete marks the
// due date done. No CCPM endpoints exist.
var trelloProfile = &Profile{
	ID:   IDTrello,
	Name: "Trello",

	Headers: func(token string) map[string]string {
		key, tok, _ := strings.Cut(token, ":")
		return map[string]string{
			"Authorization": fmt.Sprintf(`OAuth oauth_consumer_key=%q, oauth_token=%q`, key, tok),
		}
	},

	Endpoints: map[Operation]Endpoint{
		OpListTasks:      static(http.MethodGet, "/1/members/me/cards"),
		OpGetTask:        byID(http.MethodGet, func(id string) string { return "/1/cards/" + id }),
		OpCreateTask:     static(http.MethodPost, "/1/cards"),
		OpStartTask:      byID(http.MethodPut, func(id string) string { return "/1/cards/" + id }),
		OpUpdateProgress: byID(http.MethodPut, func(id string) string { return "/1/cards/" + id }),
		OpCompleteTask:   byID(http.MethodPut, func(id string) string { return "/1/cards/" + id }),
		OpAddComment:     byID(http.MethodPost, func(id string) string { return "/1/cards/" + id + "/actions/comments" }),
		OpListComments:   byID(http.MethodGet, func(id string) string { return "/1/cards/" + id + "/actions" }),
		OpGetTimeLogs:    byID(http.MethodGet, func(id string) string { return "/1/cards/" + id + "/actions" }),
		OpListProjects:   static(http.MethodGet, "/1/members/me/boards"),
		OpGetProject:     byID(http.MethodGet, func(id string) string { return "/1/boards/" + id }),
		OpSearchTasks:    static(http.MethodGet, "/1/search"),
		OpSystemInfo:     static(http.MethodGet, "/1/members/me"),
		OpCurrentUser:    static(http.MethodGet, "/1/members/me"),
	},

	Translate: Translators{
		TaskFilters: func(f models.TaskFilters) url.Values {
			v := url.Values{}
			switch f.Status {
			case "completed":
				v.Set("filter", "closed")
			case "pending", "in_progress":
				v.Set("filter", "open")
			}
			setIfNotEmpty(v, "query", f.Query)
			return v
		},

		CreateTask: func(t models.TaskFields) map[string]any {
			body := map[string]any{}
			if t.Name != "" {
				body["name"] = t.Name
			}
			if t.Description != "" {
				body["desc"] = t.Description
			}
			if t.ProjectID != "" {
				body["idList"] = t.ProjectID
			}
			if t.DueDate != "" {
				body["due"] = t.DueDate
			}
			return body
		},

		StartTask: func(o models.StartOptions) map[string]any {
			return map[string]any{}
		},

		Progress: func(p models.ProgressUpdate) map[string]any {
			return map[string]any{}
		},

		Complete: func(o models.CompleteOptions) map[string]any {
			return map[string]any{"dueComplete": true}
		},

		Comment: func(text string) map[string]any {
			return map[string]any{"text": text}
		},
	},
}
