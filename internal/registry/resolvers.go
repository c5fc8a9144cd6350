package registry

import (
	"sync"
	"time"

	"github.com/weft-io/weft/internal/trace"
)

// SessionInfoStore is a daemon-wide, mutex-guarded table of session
// identities. It is the in-process InfoResolver used by the CLI and tests;
// the daemon proper substitutes its own resolver.
type SessionInfoStore struct {
	mu    sync.RWMutex
	infos map[uint64]trace.SessionInfo
}

// NewSessionInfoStore returns an empty store.
func NewSessionInfoStore() *SessionInfoStore {
	return &SessionInfoStore{infos: make(map[uint64]trace.SessionInfo)}
}

// Put records the identity of a session.
func (st *SessionInfoStore) Put(id uint64, info trace.SessionInfo) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.infos[id] = info
}

// LookupSessionInfo implements InfoResolver.
func (st *SessionInfoStore) LookupSessionInfo(id uint64) (trace.SessionInfo, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	info, ok := st.infos[id]
	if !ok {
		return trace.SessionInfo{}, trace.Errorf(trace.KindNotFound,
			"session info lookup", "no session with id %d", id)
	}
	return info, nil
}

// SystemClock is a ClockSource describing the host's monotonic clock at
// nanosecond resolution, with the offset anchoring it to the Unix epoch.
type SystemClock struct {
	// UUID optionally identifies the clock across traces.
	UUID string
}

// Snapshot implements ClockSource.
func (c SystemClock) Snapshot() (trace.ClockAttributes, error) {
	return trace.ClockAttributes{
		Name:        "monotonic",
		UUID:        c.UUID,
		Description: "Monotonic Clock",
		Frequency:   1000000000,
		Offset:      uint64(time.Now().UnixNano()),
	}, nil
}
