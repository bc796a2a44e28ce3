package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersCacheHits           uint64
	UsersCacheMisses         uint64
	UsersListDurationCount   uint64
	UsersListDurationTotalNs int64
	UsersListFailed          uint64
	UsersCreated             uint64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	usersCacheHits           atomic.Uint64
	usersCacheMisses         atomic.Uint64
	usersListDurationCount   atomic.Uint64
	usersListDurationTotalNs atomic.Int64
	usersListFailed          atomic.Uint64
	usersCreated             atomic.Uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersCacheHits:           m.usersCacheHits.Load(),
		UsersCacheMisses:         m.usersCacheMisses.Load(),
		UsersListDurationCount:   m.usersListDurationCount.Load(),
		UsersListDurationTotalNs: m.usersListDurationTotalNs.Load(),
		UsersListFailed:          m.usersListFailed.Load(),
		UsersCreated:             m.usersCreated.Load(),
	}
}

// IncUsersCacheHit increments cache hit counter.
func (m *InMemoryRecorder) IncUsersCacheHit() {
	m.usersCacheHits.Add(1)
}

// IncUsersCacheMiss increments cache miss counter.
func (m *InMemoryRecorder) IncUsersCacheMiss() {
	m.usersCacheMisses.Add(1)
}

// ObserveUsersListDuration records listing duration.
func (m *InMemoryRecorder) ObserveUsersListDuration(duration time.Duration) {
	m.usersListDurationCount.Add(1)
	m.usersListDurationTotalNs.Add(duration.Nanoseconds())
}

// IncUsersListFailed increments the failed listing counter.
func (m *InMemoryRecorder) IncUsersListFailed() {
	m.usersListFailed.Add(1)
}

// IncUserCreated increments user created counter.
func (m *InMemoryRecorder) IncUserCreated() {
	m.usersCreated.Add(1)
}
