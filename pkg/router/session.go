package router

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/onekit-js/onekit-site/pkg/core"
	"github.com/onekit-js/onekit-site/pkg/transport"
)

// LiveSession binds a mounted component to its websocket connection.
type LiveSession struct {
	ID        string
	SocketID  string
	Route     *LiveRoute
	Component core.Component
	Socket    *core.Socket
	Transport transport.Transport
	Params    core.Params
	Session   core.Session
	CreatedAt time.Time

	cancel   context.CancelFunc
	clientIP string

	mounted    bool
	joinRef    string
	version    uint64
	slotHashes map[string]uint64
	closeWhy   core.TerminateReason

	mu sync.RWMutex
}

// NewLiveSession creates a session for a freshly connected socket.
func NewLiveSession(socketID string, route *LiveRoute, comp core.Component, params core.Params, session core.Session) *LiveSession {
	return &LiveSession{
		ID:        uuid.NewString(),
		SocketID:  socketID,
		Route:     route,
		Component: comp,
		Params:    params,
		Session:   session,
		CreatedAt: time.Now(),
		closeWhy:  core.TerminateNormal,
	}
}

// SlotHashes returns the hashes of the slots last sent to the client.
func (s *LiveSession) SlotHashes() map[string]uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slotHashes
}

// SetSlotHashes records the slots last sent to the client.
func (s *LiveSession) SetSlotHashes(hashes map[string]uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slotHashes = hashes
}

func (s *LiveSession) nextVersion() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++
	return s.version
}

// Version returns the last diff version sent.
func (s *LiveSession) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// SetMounted marks the session as mounted.
func (s *LiveSession) SetMounted(mounted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mounted = mounted
}

// IsMounted reports whether the component has been mounted.
func (s *LiveSession) IsMounted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mounted
}

// SetJoinRef stores the ref of the join message.
func (s *LiveSession) SetJoinRef(ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.joinRef = ref
}

// JoinRef returns the ref of the join message.
func (s *LiveSession) JoinRef() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.joinRef
}

func (s *LiveSession) setReason(r core.TerminateReason) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeWhy = r
}

func (s *LiveSession) reason() core.TerminateReason {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closeWhy
}

// SessionManager tracks active live sessions.
type SessionManager struct {
	sessions map[string]*LiveSession
	bySocket map[string]*LiveSession
	mu       sync.RWMutex
}

// NewSessionManager creates an empty session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*LiveSession),
		bySocket: make(map[string]*LiveSession),
	}
}

// Create creates and registers a session.
func (m *SessionManager) Create(socketID string, route *LiveRoute, comp core.Component, params core.Params, session core.Session) *LiveSession {
	s := NewLiveSession(socketID, route, comp, params, session)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	m.bySocket[socketID] = s
	return s
}

// Get returns a session by ID.
func (m *SessionManager) Get(id string) (*LiveSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// GetBySocket returns a session by socket ID.
func (m *SessionManager) GetBySocket(socketID string) (*LiveSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.bySocket[socketID]
	return s, ok
}

// Remove unregisters a session.
func (m *SessionManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		delete(m.bySocket, s.SocketID)
		delete(m.sessions, id)
	}
}

// Count returns the number of active sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CountByPath returns active sessions per route path.
func (m *SessionManager) CountByPath() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]int)
	for _, s := range m.sessions {
		out[s.Route.Path]++
	}
	return out
}
