package metrics

import (
	"sync"
	"sync/atomic"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UserSignups      uint64
	LoginsSucceeded  uint64
	LoginsFailed     uint64
	Logouts          uint64
	AuthFailures     map[string]uint64
	SessionCacheHits uint64
	SessionCacheMiss uint64
	TodosCreated     uint64
	TodosUpdated     uint64
	TodosDeleted     uint64
}

// InMemoryRecorder keeps counters in process memory.
type InMemoryRecorder struct {
	userSignups      uint64
	loginsSucceeded  uint64
	loginsFailed     uint64
	logouts          uint64
	sessionCacheHits uint64
	sessionCacheMiss uint64
	todosCreated     uint64
	todosUpdated     uint64
	todosDeleted     uint64

	mu           sync.Mutex
	authFailures map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{authFailures: make(map[string]uint64)}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	failures := make(map[string]uint64, len(m.authFailures))
	for reason, n := range m.authFailures {
		failures[reason] = n
	}
	m.mu.Unlock()

	return Snapshot{
		UserSignups:      atomic.LoadUint64(&m.userSignups),
		LoginsSucceeded:  atomic.LoadUint64(&m.loginsSucceeded),
		LoginsFailed:     atomic.LoadUint64(&m.loginsFailed),
		Logouts:          atomic.LoadUint64(&m.logouts),
		AuthFailures:     failures,
		SessionCacheHits: atomic.LoadUint64(&m.sessionCacheHits),
		SessionCacheMiss: atomic.LoadUint64(&m.sessionCacheMiss),
		TodosCreated:     atomic.LoadUint64(&m.todosCreated),
		TodosUpdated:     atomic.LoadUint64(&m.todosUpdated),
		TodosDeleted:     atomic.LoadUint64(&m.todosDeleted),
	}
}

// IncUserSignup increments the signup counter.
func (m *InMemoryRecorder) IncUserSignup() {
	atomic.AddUint64(&m.userSignups, 1)
}

// IncLogin increments the login counter for status.
func (m *InMemoryRecorder) IncLogin(status string) {
	if status == StatusSuccess {
		atomic.AddUint64(&m.loginsSucceeded, 1)
		return
	}
	atomic.AddUint64(&m.loginsFailed, 1)
}

// IncLogout increments the logout counter.
func (m *InMemoryRecorder) IncLogout() {
	atomic.AddUint64(&m.logouts, 1)
}

// IncAuthFailure increments the rejected-session counter for reason.
func (m *InMemoryRecorder) IncAuthFailure(reason string) {
	m.mu.Lock()
	m.authFailures[reason]++
	m.mu.Unlock()
}

// IncSessionCacheHit increments the session cache hit counter.
func (m *InMemoryRecorder) IncSessionCacheHit() {
	atomic.AddUint64(&m.sessionCacheHits, 1)
}

// IncSessionCacheMiss increments the session cache miss counter.
func (m *InMemoryRecorder) IncSessionCacheMiss() {
	atomic.AddUint64(&m.sessionCacheMiss, 1)
}

// IncTodoCreated increments todo created counter.
func (m *InMemoryRecorder) IncTodoCreated() {
	atomic.AddUint64(&m.todosCreated, 1)
}

// IncTodoUpdated increments todo updated counter.
func (m *InMemoryRecorder) IncTodoUpdated() {
	atomic.AddUint64(&m.todosUpdated, 1)
}

// IncTodoDeleted increments todo deleted counter.
func (m *InMemoryRecorder) IncTodoDeleted() {
	atomic.AddUint64(&m.todosDeleted, 1)
}
