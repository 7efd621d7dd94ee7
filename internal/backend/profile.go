// Package backend defines the per-backend profiles the adapter dispatches
// through: authentication header rules, endpoint tables, and payload
// translators. Adding a backend means adding one profile, never touching the
// adapter's method bodies.
package backend

import (
	"net/url"
	"strconv"

	"github.com/taskchain/pmq/internal/models"
)

// Operation is a logical adapter operation name.
type Operation string

// Core operations supported by every profile.
const (
	OpListTasks      Operation = "listTasks"
	OpGetTask        Operation = "getTask"
	OpCreateTask     Operation = "createTask"
	OpStartTask      Operation = "startTask"
	OpUpdateProgress Operation = "updateProgress"
	OpCompleteTask   Operation = "completeTask"
	OpAddComment     Operation = "addComment"
	OpListComments   Operation = "listComments"
	OpGetTimeLogs    Operation = "getTimeLogs"
	OpListProjects   Operation = "listProjects"
	OpGetProject     Operation = "getProject"
	OpSearchTasks    Operation = "searchTasks"
	OpSystemInfo     Operation = "systemInfo"
	OpCurrentUser    Operation = "currentUser"
)

// CCPM operations, defined only on the native profile. Resolution fails for
// other backends and surfaces as a capability error, not a transient failure.
const (
	OpCCPMAnalyze         Operation = "ccpmAnalyze"
	OpCCPMEnable          Operation = "ccpmEnable"
	OpCCPMReport          Operation = "ccpmReport"
	OpCCPMBufferStatus    Operation = "ccpmBufferStatus"
	OpCCPMRecalculate     Operation = "ccpmRecalculate"
	OpCCPMResourceLoading Operation = "ccpmResourceLoading"
	OpCCPMFeedingBuffers  Operation = "ccpmFeedingBuffers"
	OpCCPMChainTasks      Operation = "ccpmChainTasks"
	OpCCPMTaskBuffer      Operation = "ccpmTaskBuffer"
	OpCCPMDashboard       Operation = "ccpmDashboard"
)

// CoreOperations lists the operations every profile must define.
func CoreOperations() []Operation {
	return []Operation{
		OpListTasks, OpGetTask, OpCreateTask, OpStartTask, OpUpdateProgress,
		OpCompleteTask, OpAddComment, OpListComments, OpGetTimeLogs,
		OpListProjects, OpGetProject, OpSearchTasks, OpSystemInfo, OpCurrentUser,
	}
}

// CCPMOperations lists the CCPM-specific operations.
func CCPMOperations() []Operation {
	return []Operation{
		OpCCPMAnalyze, OpCCPMEnable, OpCCPMReport, OpCCPMBufferStatus,
		OpCCPMRecalculate, OpCCPMResourceLoading, OpCCPMFeedingBuffers,
		OpCCPMChainTasks, OpCCPMTaskBuffer, OpCCPMDashboard,
	}
}

// Endpoint is one resolved route: HTTP method plus a path builder.
// Static endpoints ignore the id argument.
type Endpoint struct {
	Method string
	Path   func(id string) string
}

func static(method, path string) Endpoint {
	return Endpoint{Method: method, Path: func(string) string { return path }}
}

func byID(method string, build func(id string) string) Endpoint {
	return Endpoint{Method: method, Path: build}
}

// Translators maps the generic argument shapes to a backend's wire format.
// A nil function means the operation category sends no translated payload
// for this backend.
type Translators struct {
	TaskFilters  func(models.TaskFilters) url.Values
	CreateTask   func(models.TaskFields) map[string]any
	StartTask    func(models.StartOptions) map[string]any
	Progress     func(models.ProgressUpdate) map[string]any
	Complete     func(models.CompleteOptions) map[string]any
	Comment      func(text string) map[string]any
	EnableCCPM   func(models.CCPMSettings) map[string]any
	BufferUpdate func(models.BufferUpdate) map[string]any
}

// Profile is the per-backend bundle of header rule, endpoint table, and
// payload translators. Profiles are defined statically and immutable.
type Profile struct {
	ID   string
	Name string

	// Headers builds the authentication header set from the raw token.
	// Called at send time so credential rotation takes effect immediately.
	Headers func(token string) map[string]string

	Endpoints map[Operation]Endpoint
	Translate Translators
}

// Endpoint resolves an operation to its route. The second return is false
// when the backend has no mapping for the operation.
func (p *Profile) Endpoint(op Operation) (Endpoint, bool) {
	ep, ok := p.Endpoints[op]
	return ep, ok
}

// Supported backend identifiers.
const (
	IDTaskChain = "taskchain"
	IDJira      = "jira"
	IDAsana     = "asana"
	IDTrello    = "trello"
	IDCustom    = "custom"
)

var profiles = map[string]*Profile{
	IDTaskChain: taskchainProfile,
	IDJira:      jiraProfile,
	IDAsana:     asanaProfile,
	IDTrello:    trelloProfile,
	IDCustom:    customProfile,
}

// Resolve returns the profile for a backend identifier. Unknown identifiers
// fail closed by resolving to the generic custom profile, which makes the
// weakest assumptions about endpoint shape.
func Resolve(id string) *Profile {
	if p, ok := profiles[id]; ok {
		return p
	}
	return customProfile
}

// Known reports whether id names a defined profile.
func Known(id string) bool {
	_, ok := profiles[id]
	return ok
}

// IDs returns the defined backend identifiers in a stable order.
func IDs() []string {
	return []string{IDTaskChain, IDJira, IDAsana, IDTrello, IDCustom}
}

// numericID converts a string id to an int when possible, for backends whose
// wire format expects numeric ids. Non-numeric ids pass through unchanged.
func numericID(id string) any {
	if n, err := strconv.Atoi(id); err == nil {
		return n
	}
	return id
}

func setIfNotEmpty(v url.Values, key, val string) {
	if val != "" {
		v.Set(key, val)
	}
}
