package core

import "time"

// Status is the lifecycle phase of a session.
type Status string

const (
	StatusCreated   Status = "created"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// SessionState is the durable record of one planning run.
type SessionState struct {
	ID       string            `json:"id"`
	GoalText string            `json:"goal_text"`
	RegionID string            `json:"region_id"`
	Status   Status            `json:"status"`
	Created  time.Time         `json:"created"`
	Updated  time.Time         `json:"updated"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// SessionStore persists session state across the lifetime of a run.
type SessionStore interface {
	// Put creates or replaces the state for state.ID.
	Put(state SessionState) error

	// Get returns the state for id, or ErrSessionNotFound.
	Get(id string) (SessionState, error)

	// SetStatus transitions the session to status, bumping Updated.
	SetStatus(id string, status Status) error
}
