package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// fileFormat is the on-disk JSON envelope.
type fileFormat struct {
	Sessions []RunSummary `json:"sessions"`
}

// FileStore persists run summaries in one JSON file, rewritten on every
// append. Safe for a single process; concurrent processes should move to a
// database-backed implementation.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore ensures the parent directory exists and returns the store.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("memory: create store dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Append loads the file, appends the summary and writes it back.
func (m *FileStore) Append(summary RunSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := m.load()
	if err != nil {
		return err
	}
	data.Sessions = append(data.Sessions, summary)
	return m.save(data)
}

// Recent returns the most recent limit summaries, oldest first.
func (m *FileStore) Recent(limit int) ([]RunSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := m.load()
	if err != nil {
		return nil, err
	}
	return tail(data.Sessions, limit), nil
}

// Patterns aggregates all remembered runs.
func (m *FileStore) Patterns() (Patterns, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := m.load()
	if err != nil {
		return Patterns{}, err
	}
	return aggregate(data.Sessions), nil
}

func (m *FileStore) load() (fileFormat, error) {
	raw, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fileFormat{}, nil
		}
		return fileFormat{}, fmt.Errorf("memory: read store: %w", err)
	}
	var data fileFormat
	if err := json.Unmarshal(raw, &data); err != nil {
		return fileFormat{}, fmt.Errorf("memory: decode store: %w", err)
	}
	return data, nil
}

func (m *FileStore) save(data fileFormat) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("memory: encode store: %w", err)
	}
	if err := os.WriteFile(m.path, raw, 0o644); err != nil {
		return fmt.Errorf("memory: write store: %w", err)
	}
	return nil
}

var (
	_ Store = (*InMemoryStore)(nil)
	_ Store = (*FileStore)(nil)
)
