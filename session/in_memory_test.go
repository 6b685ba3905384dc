package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terramesh/terramesh/core"
)

func newState(id string) core.SessionState {
	now := time.Now().UTC()
	return core.SessionState{
		ID:       id,
		GoalText: "Reduce emissions 30% in 10 years",
		RegionID: "coastal_city_01",
		Status:   core.StatusCreated,
		Created:  now,
		Updated:  now,
		Metadata: map[string]string{"source": "test"},
	}
}

func TestInMemoryStore_PutGet(t *testing.T) {
	store := NewInMemoryStore()
	require.NoError(t, store.Put(newState("s1")))

	got, err := store.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, core.StatusCreated, got.Status)
	assert.Equal(t, "coastal_city_01", got.RegionID)

	// Mutating the returned copy must not leak into the store.
	got.Metadata["source"] = "mutated"
	again, err := store.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, "test", again.Metadata["source"])
}

func TestInMemoryStore_GetUnknown(t *testing.T) {
	_, err := NewInMemoryStore().Get("missing")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestInMemoryStore_SetStatus(t *testing.T) {
	store := NewInMemoryStore()
	state := newState("s1")
	require.NoError(t, store.Put(state))

	require.NoError(t, store.SetStatus("s1", core.StatusCompleted))

	got, err := store.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, core.StatusCompleted, got.Status)
	assert.False(t, got.Updated.Before(state.Updated))

	assert.ErrorIs(t, store.SetStatus("missing", core.StatusFailed), core.ErrSessionNotFound)
}
