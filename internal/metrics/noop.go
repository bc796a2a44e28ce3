package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUsersCacheHit is a no-op.
func (n *NoopRecorder) IncUsersCacheHit() {}

// IncUsersCacheMiss is a no-op.
func (n *NoopRecorder) IncUsersCacheMiss() {}

// ObserveUsersListDuration is a no-op.
func (n *NoopRecorder) ObserveUsersListDuration(duration time.Duration) {}

// IncUsersListFailed is a no-op.
func (n *NoopRecorder) IncUsersListFailed() {}

// IncUserCreated is a no-op.
func (n *NoopRecorder) IncUserCreated() {}
