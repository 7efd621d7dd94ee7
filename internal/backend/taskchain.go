package backend

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/taskchain/pmq/internal/models"
)

// taskchainProfile is the native backend. It is the only profile with a
// complete CCPM endpoint table; the server performs all critical chain
// analysis and this client only relays settings and renders results.
var taskchainProfile = &Profile{
	ID:   IDTaskChain,
	Name: "TaskChain",

	Headers: func(token string) map[string]string {
		return map[string]string{
			"Authorization":      "Bearer " + token,
			"X-TaskChain-Client": "pmq",
		}
	},

	Endpoints: map[Operation]Endpoint{
		OpListTasks:      static(http.MethodGet, "/api/tasks"),
		OpGetTask:        byID(http.MethodGet, func(id string) string { return "/api/tasks/" + id }),
		OpCreateTask:     static(http.MethodPost, "/api/tasks"),
		OpStartTask:      byID(http.MethodPost, func(id string) string { return "/api/tasks/" + id + "/start" }),
		OpUpdateProgress: byID(http.MethodPut, func(id string) string { return "/api/tasks/" + id + "/progress" }),
		OpCompleteTask:   byID(http.MethodPost, func(id string) string { return "/api/tasks/" + id + "/complete" }),
		OpAddComment:     byID(http.MethodPost, func(id string) string { return "/api/tasks/" + id + "/comments" }),
		OpListComments:   byID(http.MethodGet, func(id string) string { return "/api/tasks/" + id + "/comments" }),
		OpGetTimeLogs:    byID(http.MethodGet, func(id string) string { return "/api/tasks/" + id + "/time-logs" }),
		OpListProjects:   static(http.MethodGet, "/api/projects"),
		OpGetProject:     byID(http.MethodGet, func(id string) string { return "/api/projects/" + id }),
		OpSearchTasks:    static(http.MethodGet, "/api/tasks/search"),
		OpSystemInfo:     static(http.MethodGet, "/api/system/info"),
		OpCurrentUser:    static(http.MethodGet, "/api/users/me"),

		OpCCPMAnalyze:         byID(http.MethodPost, func(id string) string { return "/api/projects/" + id + "/critical-chain/analyze" }),
		OpCCPMEnable:          byID(http.MethodPost, func(id string) string { return "/api/projects/" + id + "/ccpm/enable" }),
		OpCCPMReport:          byID(http.MethodGet, func(id string) string { return "/api/projects/" + id + "/ccpm/report" }),
		OpCCPMBufferStatus:    byID(http.MethodGet, func(id string) string { return "/api/projects/" + id + "/ccpm/buffer-status" }),
		OpCCPMRecalculate:     byID(http.MethodPost, func(id string) string { return "/api/projects/" + id + "/critical-chain/recalculate" }),
		OpCCPMResourceLoading: byID(http.MethodGet, func(id string) string { return "/api/projects/" + id + "/ccpm/resource-loading" }),
		OpCCPMFeedingBuffers:  byID(http.MethodGet, func(id string) string { return "/api/projects/" + id + "/ccpm/feeding-buffers" }),
		OpCCPMChainTasks:      byID(http.MethodGet, func(id string) string { return "/api/projects/" + id + "/critical-chain/tasks" }),
		OpCCPMTaskBuffer:      byID(http.MethodPut, func(id string) string { return "/api/tasks/" + id + "/ccpm/buffer" }),
		OpCCPMDashboard:       static(http.MethodGet, "/api/ccpm/dashboard"),
	},

	Translate: Translators{
		TaskFilters: func(f models.TaskFilters) url.Values {
			v := url.Values{}
			setIfNotEmpty(v, "status", f.Status)
			setIfNotEmpty(v, "priority", f.Priority)
			setIfNotEmpty(v, "project_id", f.ProjectID)
			setIfNotEmpty(v, "q", f.Query)
			setIfNotEmpty(v, "sort_by", f.SortBy)
			setIfNotEmpty(v, "sort_order", f.SortOrder)
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
				body["project_id"] = numericID(t.ProjectID)
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
			if t.PricingType != "" {
				body["pricing_type"] = t.PricingType
			}
			if t.DueDate != "" {
				body["due_date"] = t.DueDate
			}
			if t.Assignee != "" {
				body["assignee"] = t.Assignee
			}
			return body
		},

		StartTask: func(o models.StartOptions) map[string]any {
			body := map[string]any{}
			if o.Comment != "" {
				body["comment"] = o.Comment
			}
			if o.TimeLog {
				body["time_log"] = true
			}
			if o.StartedAt != "" {
				body["started_at"] = o.StartedAt
			}
			return body
		},

		Progress: func(p models.ProgressUpdate) map[string]any {
			body := map[string]any{"progress_percentage": p.Percentage}
			if p.Comment != "" {
				body["comment"] = p.Comment
			}
			return body
		},

		Complete: func(o models.CompleteOptions) map[string]any {
			body := map[string]any{}
			if o.Comment != "" {
				body["comment"] = o.Comment
			}
			if o.TimeSpent > 0 {
				body["time_spent"] = o.TimeSpent
			}
			if o.CompletedAt != "" {
				body["completed_at"] = o.CompletedAt
			}
			return body
		},

		Comment: func(text string) map[string]any {
			return map[string]any{"text": text}
		},

		EnableCCPM: func(s models.CCPMSettings) map[string]any {
			body := map[string]any{}
			if s.ProjectBufferPct > 0 {
				body["project_buffer_percentage"] = s.ProjectBufferPct
			}
			if s.FeedingBufferPct > 0 {
				body["feeding_buffer_percentage"] = s.FeedingBufferPct
			}
			if s.ResourceUtilization > 0 {
				body["resource_utilization"] = s.ResourceUtilization
			}
			if s.StartDate != "" {
				body["start_date"] = s.StartDate
			}
			if s.DurationDays > 0 {
				body["duration_days"] = s.DurationDays
			}
			if s.AutoAnalyze {
				body["auto_analyze"] = true
			}
			return body
		},

		BufferUpdate: func(b models.BufferUpdate) map[string]any {
			return map[string]any{
				"buffer_consumption": b.Percentage,
				"ccpm_status":        models.CCPMStatusFor(b.Percentage),
			}
		},
	},
}
