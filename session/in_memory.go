package session

import (
	"sync"
	"time"

	"github.com/terramesh/terramesh/core"
)

// InMemoryStore is a volatile SessionStore keeping state in a process-local
// map. Safe for concurrent access; every returned state is a copy so callers
// cannot mutate internal records.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]core.SessionState
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]core.SessionState)}
}

// Put creates or replaces the state for state.ID.
func (s *InMemoryStore) Put(state core.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[state.ID] = cloneState(state)
	return nil
}

// Get returns a copy of the stored state or core.ErrSessionNotFound.
func (s *InMemoryStore) Get(id string) (core.SessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.sessions[id]
	if !ok {
		return core.SessionState{}, core.ErrSessionNotFound
	}
	return cloneState(state), nil
}

// SetStatus transitions the session to status and bumps Updated.
func (s *InMemoryStore) SetStatus(id string, status core.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.sessions[id]
	if !ok {
		return core.ErrSessionNotFound
	}
	state.Status = status
	state.Updated = time.Now().UTC()
	s.sessions[id] = state
	return nil
}

func cloneState(state core.SessionState) core.SessionState {
	if state.Metadata != nil {
		md := make(map[string]string, len(state.Metadata))
		for k, v := range state.Metadata {
			md[k] = v
		}
		state.Metadata = md
	}
	return state
}

var _ core.SessionStore = (*InMemoryStore)(nil)
