// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// User listing metrics
	IncUsersCacheHit()
	IncUsersCacheMiss()
	ObserveUsersListDuration(duration time.Duration)
	IncUsersListFailed()

	// User writes
	IncUserCreated()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
