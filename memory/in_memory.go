package memory

import "sync"

// InMemoryStore is a process-local Store guarded by an RWMutex.
type InMemoryStore struct {
	mu        sync.RWMutex
	summaries []RunSummary
}

// NewInMemoryStore returns an empty in-memory run memory.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Append records a completed run.
func (m *InMemoryStore) Append(summary RunSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries = append(m.summaries, summary)
	return nil
}

// Recent returns the most recent limit summaries, oldest first.
func (m *InMemoryStore) Recent(limit int) ([]RunSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return tail(m.summaries, limit), nil
}

// Patterns aggregates all remembered runs.
func (m *InMemoryStore) Patterns() (Patterns, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return aggregate(m.summaries), nil
}
