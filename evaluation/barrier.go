package evaluation

import (
	"fmt"
	"sync"
)

// LateResultError reports a result (or count) arriving for a session whose
// barrier already fired. The surplus value is discarded by the caller; the
// barrier never re-fires for a completed session.
type LateResultError struct {
	SessionID string
}

func (e *LateResultError) Error() string {
	return fmt.Sprintf("evaluation: late or duplicate result for completed session %q", e.SessionID)
}

// barrierState tracks one in-flight session. expected is nil until a count
// arrives; results accumulate in insertion order regardless.
type barrierState[T any] struct {
	expected *int
	results  []T
}

// Barrier is a per-session counting barrier: a fan-out stage declares how
// many results to expect and the fan-in stage appends results as they
// arrive in any interleaving. The barrier fires exactly once per session,
// on whichever call first satisfies len(results) >= expected, returning the
// accumulated batch. Session state is discarded at fire time and the
// session is remembered as completed so stragglers are rejected.
//
// The dispatch loop is single-threaded, but accessors still serialize so a
// future per-session worker split cannot corrupt the table.
type Barrier[T any] struct {
	mu        sync.Mutex
	sessions  map[string]*barrierState[T]
	completed map[string]bool
}

// NewBarrier constructs an empty barrier table.
func NewBarrier[T any]() *Barrier[T] {
	return &Barrier[T]{
		sessions:  make(map[string]*barrierState[T]),
		completed: make(map[string]bool),
	}
}

// UpsertCount declares the number of results expected for a session. The
// count may arrive before or after individual results; if all results are
// already present the barrier fires immediately and the batch is returned
// with fired=true. A non-positive count is rejected: a fan-out stage that
// produced no work must short-circuit instead of starving the barrier.
func (b *Barrier[T]) UpsertCount(sessionID string, count int) ([]T, bool, error) {
	if count <= 0 {
		return nil, false, fmt.Errorf("evaluation: expected count for session %q must be positive, got %d", sessionID, count)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.completed[sessionID] {
		return nil, false, &LateResultError{SessionID: sessionID}
	}

	state := b.state(sessionID)
	state.expected = &count
	batch, fired := b.tryFireLocked(sessionID, state)
	return batch, fired, nil
}

// Append records one partial result for a session. The returned batch is
// non-nil with fired=true exactly when this result satisfies the expected
// count. Results arriving after the session fired are rejected with
// LateResultError and must not be accumulated.
func (b *Barrier[T]) Append(sessionID string, result T) ([]T, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.completed[sessionID] {
		return nil, false, &LateResultError{SessionID: sessionID}
	}

	state := b.state(sessionID)
	state.results = append(state.results, result)
	batch, fired := b.tryFireLocked(sessionID, state)
	return batch, fired, nil
}

// Pending reports accumulation progress for a session: how many results
// have arrived and the expected count (known=false until a count arrived).
func (b *Barrier[T]) Pending(sessionID string) (have int, expected int, known bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	state, ok := b.sessions[sessionID]
	if !ok {
		return 0, 0, false
	}
	if state.expected != nil {
		return len(state.results), *state.expected, true
	}
	return len(state.results), 0, false
}

// Completed reports whether the session's barrier already fired.
func (b *Barrier[T]) Completed(sessionID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.completed[sessionID]
}

func (b *Barrier[T]) state(sessionID string) *barrierState[T] {
	state, ok := b.sessions[sessionID]
	if !ok {
		state = &barrierState[T]{}
		b.sessions[sessionID] = state
	}
	return state
}

// tryFireLocked fires and tears down the session when the threshold is met.
func (b *Barrier[T]) tryFireLocked(sessionID string, state *barrierState[T]) ([]T, bool) {
	if state.expected == nil || len(state.results) < *state.expected {
		return nil, false
	}
	delete(b.sessions, sessionID)
	b.completed[sessionID] = true
	return state.results, true
}
