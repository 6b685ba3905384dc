package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/terramesh/terramesh/core"
)

// FileStore persists each session as <id>.json under a directory. The mutex
// serializes writers within one process; cross-process coordination is out
// of scope.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore ensures dir exists and returns the store.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("session: create store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Put creates or replaces the state file for state.ID.
func (s *FileStore) Put(state core.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(state)
}

// Get loads the state for id, returning core.ErrSessionNotFound when the
// file does not exist.
func (s *FileStore) Get(id string) (core.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(id)
}

// SetStatus loads, transitions and rewrites the session state.
func (s *FileStore) SetStatus(id string, status core.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.read(id)
	if err != nil {
		return err
	}
	state.Status = status
	state.Updated = time.Now().UTC()
	return s.write(state)
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *FileStore) read(id string) (core.SessionState, error) {
	raw, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return core.SessionState{}, core.ErrSessionNotFound
		}
		return core.SessionState{}, fmt.Errorf("session: read state: %w", err)
	}
	var state core.SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return core.SessionState{}, fmt.Errorf("session: decode state: %w", err)
	}
	return state, nil
}

func (s *FileStore) write(state core.SessionState) error {
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encode state: %w", err)
	}
	if err := os.WriteFile(s.path(state.ID), raw, 0o644); err != nil {
		return fmt.Errorf("session: write state: %w", err)
	}
	return nil
}

var _ core.SessionStore = (*FileStore)(nil)
