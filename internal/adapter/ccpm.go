package adapter

import (
	"context"
	"encoding/json"

	"github.com/taskchain/pmq/internal/backend"
	"github.com/taskchain/pmq/internal/models"
)

// CCPM operations. These follow the same contract as the core methods but
// only the native backend defines routes for them; on any other backend
// they return a capability error rather than guessing a translation.

// AnalyzeCriticalChain asks the backend to run critical chain analysis on a
// project. All scheduling math happens server-side.
func (a *Adapter) AnalyzeCriticalChain(ctx context.Context, projectID string) (json.RawMessage, error) {
	return a.call(ctx, backend.OpCCPMAnalyze, projectID, nil, nil)
}

// EnableCCPM turns on critical chain management for a project with the
// given buffer and scheduling settings.
func (a *Adapter) EnableCCPM(ctx context.Context, projectID string, settings models.CCPMSettings) (json.RawMessage, error) {
	_, profile, _, _ := a.snapshot()
	var body any
	if profile.Translate.EnableCCPM != nil {
		body = profile.Translate.EnableCCPM(settings)
	}
	return a.call(ctx, backend.OpCCPMEnable, projectID, nil, body)
}

// CCPMReport fetches the project's critical chain report.
func (a *Adapter) CCPMReport(ctx context.Context, projectID string) (json.RawMessage, error) {
	return a.call(ctx, backend.OpCCPMReport, projectID, nil, nil)
}

// BufferStatus fetches the project's buffer consumption summary.
func (a *Adapter) BufferStatus(ctx context.Context, projectID string) (json.RawMessage, error) {
	return a.call(ctx, backend.OpCCPMBufferStatus, projectID, nil, nil)
}

// RecalculateChain asks the backend to recompute the project's critical
// chain after task changes.
func (a *Adapter) RecalculateChain(ctx context.Context, projectID string) (json.RawMessage, error) {
	return a.call(ctx, backend.OpCCPMRecalculate, projectID, nil, nil)
}

// ResourceLoading fetches per-resource utilization for a project.
func (a *Adapter) ResourceLoading(ctx context.Context, projectID string) (json.RawMessage, error) {
	return a.call(ctx, backend.OpCCPMResourceLoading, projectID, nil, nil)
}

// FeedingBuffers fetches the project's feeding buffer states.
func (a *Adapter) FeedingBuffers(ctx context.Context, projectID string) (json.RawMessage, error) {
	return a.call(ctx, backend.OpCCPMFeedingBuffers, projectID, nil, nil)
}

// ChainTasks fetches the tasks on the project's critical chain.
func (a *Adapter) ChainTasks(ctx context.Context, projectID string) (json.RawMessage, error) {
	return a.call(ctx, backend.OpCCPMChainTasks, projectID, nil, nil)
}

// UpdateTaskBuffer records buffer consumption for a task. The translated
// payload derives the task's buffer state from the percentage.
func (a *Adapter) UpdateTaskBuffer(ctx context.Context, update models.BufferUpdate) (json.RawMessage, error) {
	_, profile, _, _ := a.snapshot()
	var body any
	if profile.Translate.BufferUpdate != nil {
		body = profile.Translate.BufferUpdate(update)
	}
	return a.call(ctx, backend.OpCCPMTaskBuffer, update.TaskID, nil, body)
}

// CCPMDashboard fetches the cross-project buffer dashboard.
func (a *Adapter) CCPMDashboard(ctx context.Context) (json.RawMessage, error) {
	return a.call(ctx, backend.OpCCPMDashboard, "", nil, nil)
}
