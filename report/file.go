package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists reports as pretty-printed JSON files, one per session,
// under a base directory (`<sessionID>_report.json`).
type FileStore struct {
	dir string
}

// NewFileStore creates the base directory if needed and returns the store.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("report: create store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(sessionID string) string {
	return filepath.Join(s.dir, sessionID+"_report.json")
}

// Save writes the report JSON for the given session.
func (s *FileStore) Save(sessionID string, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("report: encode report for session %s: %w", sessionID, err)
	}
	if err := os.WriteFile(s.path(sessionID), data, 0o644); err != nil {
		return fmt.Errorf("report: write report for session %s: %w", sessionID, err)
	}
	return nil
}

// Load reads the report JSON for the given session or returns ErrNotFound.
func (s *FileStore) Load(sessionID string) (Report, error) {
	data, err := os.ReadFile(s.path(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return Report{}, ErrNotFound
		}
		return Report{}, fmt.Errorf("report: read report for session %s: %w", sessionID, err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return Report{}, fmt.Errorf("report: decode report for session %s: %w", sessionID, err)
	}
	return r, nil
}

var (
	_ Store = (*InMemoryStore)(nil)
	_ Store = (*FileStore)(nil)
)
