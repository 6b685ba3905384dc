package report

import (
	"fmt"
	"sync"
)

// ErrNotFound is returned when no report exists for the given session.
var ErrNotFound = fmt.Errorf("report not found")

// Store persists one report per session.
type Store interface {
	Save(sessionID string, r Report) error
	Load(sessionID string) (Report, error)
}

// InMemoryStore is a process-local Store guarded by an RWMutex. Suited for
// tests and single-process runs; reports do not survive restarts.
type InMemoryStore struct {
	mu      sync.RWMutex
	reports map[string]Report
}

// NewInMemoryStore returns an empty in-memory report store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{reports: make(map[string]Report)}
}

// Save stores (or overwrites) the report for the given session.
func (s *InMemoryStore) Save(sessionID string, r Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[sessionID] = r
	return nil
}

// Load returns the stored report or ErrNotFound.
func (s *InMemoryStore) Load(sessionID string) (Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[sessionID]
	if !ok {
		return Report{}, ErrNotFound
	}
	return r, nil
}
