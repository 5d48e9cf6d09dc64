// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Account metrics
	IncUserSignup()
	IncLogin(status string) // status: "success" or "failed"
	IncLogout()
	IncAuthFailure(reason string)

	// Session cache metrics
	IncSessionCacheHit()
	IncSessionCacheMiss()

	// Todo metrics
	IncTodoCreated()
	IncTodoUpdated()
	IncTodoDeleted()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}

// Login statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)
