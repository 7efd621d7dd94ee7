// Package models defines the generic, backend-agnostic shapes that flow
// through the adapter. Every backend profile translates these into its own
// wire format; callers never construct backend-specific payloads.
package models

// TaskFields is the generic task creation/update shape.
// Fields a backend has no analogue for are omitted during translation,
// never invented.
type TaskFields struct {
	Name        string  `json:"name,omitempty"`
	Description string  `json:"description,omitempty"`
	ProjectID   string  `json:"project_id,omitempty"`
	Status      string  `json:"status,omitempty"`
	Priority    string  `json:"priority,omitempty"`
	Estimation  float64 `json:"estimation,omitempty"`
	PricingType string  `json:"pricing_type,omitempty"`
	DueDate     string  `json:"due_date,omitempty"`
	Assignee    string  `json:"assignee,omitempty"`
}

// TaskFilters narrows task listing and search.
type TaskFilters struct {
	Status    string `json:"status,omitempty"`
	Priority  string `json:"priority,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
	Query     string `json:"query,omitempty"`
	Page      int    `json:"page,omitempty"`
	PerPage   int    `json:"per_page,omitempty"`
	SortBy    string `json:"sort_by,omitempty"`
	SortOrder string `json:"sort_order,omitempty"`
}

// StartOptions accompanies a start-task call.
type StartOptions struct {
	Comment   string `json:"comment,omitempty"`
	TimeLog   bool   `json:"time_log,omitempty"`
	StartedAt string `json:"started_at,omitempty"`
}

// ProgressUpdate reports completion percentage on a task.
type ProgressUpdate struct {
	Percentage int    `json:"percentage"`
	Comment    string `json:"comment,omitempty"`
}

// CompleteOptions accompanies a complete-task call.
type CompleteOptions struct {
	Comment     string  `json:"comment,omitempty"`
	TimeSpent   float64 `json:"time_spent,omitempty"`
	CompletedAt string  `json:"completed_at,omitempty"`
}

// CCPMSettings configures critical chain analysis when enabling CCPM
// on a project. Zero values mean "use server defaults".
type CCPMSettings struct {
	ProjectBufferPct    int    `json:"project_buffer_pct,omitempty"`
	FeedingBufferPct    int    `json:"feeding_buffer_pct,omitempty"`
	ResourceUtilization int    `json:"resource_utilization,omitempty"`
	StartDate           string `json:"start_date,omitempty"`
	DurationDays        int    `json:"duration_days,omitempty"`
	AutoAnalyze         bool   `json:"auto_analyze,omitempty"`
}

// BufferUpdate reports buffer consumption on a task.
type BufferUpdate struct {
	TaskID     string `json:"task_id"`
	Percentage int    `json:"percentage"`
}

// CCPM status values derived from buffer consumption. Thresholds match the
// native backend's reporting semantics: above 75% the buffer is considered
// consumed, above 50% it is a warning.
const (
	CCPMStatusOnTrack        = "on_track"
	CCPMStatusBufferWarning  = "buffer_warning"
	CCPMStatusBufferConsumed = "buffer_consumed"
)

// CCPMStatusFor maps a buffer consumption percentage to a ccpm_status value.
func CCPMStatusFor(percentage int) string {
	switch {
	case percentage > 75:
		return CCPMStatusBufferConsumed
	case percentage > 50:
		return CCPMStatusBufferWarning
	default:
		return CCPMStatusOnTrack
	}
}
