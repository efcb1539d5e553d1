package serverstate

import "sync/atomic"

// Server statuses.
const (
	StatusNotReady = "not_ready"
	StatusReady    = "ready"
	StatusDraining = "draining"
	StatusUnknown  = "unknown"
)

// State holds the server status and draining flag. Both fields are written
// together so readers always observe a consistent snapshot.
type State struct {
	Status   string `json:"status"`
	Draining bool   `json:"draining"`
}

// Store persists the server state. The default keeps it in memory; a Redis
// store lets several mock replicas behind one address share it.
type Store interface {
	Load() State
	Store(State)
}

var active atomic.Pointer[storeHolder]

type storeHolder struct{ s Store }

func init() {
	active.Store(&storeHolder{s: NewMemoryStore()})
}

// UseStore replaces the active Store. It is safe for concurrent use.
func UseStore(s Store) {
	if s != nil {
		active.Store(&storeHolder{s: s})
	}
}

// Active returns the store currently in use.
func Active() Store { return active.Load().s }

type memoryStore struct {
	v atomic.Value
}

// NewMemoryStore returns a memory-backed Store initialized to "not_ready".
func NewMemoryStore() Store {
	ms := &memoryStore{}
	ms.v.Store(State{Status: StatusNotReady})
	return ms
}

func (m *memoryStore) Load() State {
	if st, ok := m.v.Load().(State); ok {
		return st
	}
	return State{Status: StatusUnknown}
}

func (m *memoryStore) Store(s State) { m.v.Store(s) }

// Load returns the current state snapshot.
func Load() State { return Active().Load() }

// SetState updates the server status string.
func SetState(status string) {
	st := Active().Load()
	st.Status = status
	Active().Store(st)
}

// GetState returns the current server status.
func GetState() string { return Active().Load().Status }

// StartDrain marks the server as draining.
func StartDrain() {
	Active().Store(State{Status: StatusDraining, Draining: true})
}

// IsDraining reports whether the server is draining.
func IsDraining() bool { return Active().Load().Draining }
