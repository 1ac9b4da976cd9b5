package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_PutGet(t *testing.T) {
	store := NewMemoryStore()

	store.Put(State{ID: "job-1", Status: StatusRunning, Total: 10})

	state, ok := store.Get("job-1")
	require.True(t, ok)
	assert.Equal(t, StatusRunning, state.Status)
	assert.Equal(t, 10, state.Total)
	assert.False(t, state.UpdatedAt.IsZero())
	assert.False(t, state.StartedAt.IsZero())
}

func TestMemoryStore_GetUnknown(t *testing.T) {
	store := NewMemoryStore()

	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestMemoryStore_PutPreservesStartedAt(t *testing.T) {
	store := NewMemoryStore()
	started := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)

	store.Put(State{ID: "job-1", Status: StatusRunning, StartedAt: started})
	store.Put(State{ID: "job-1", Status: StatusCompleted, StartedAt: started})

	state, ok := store.Get("job-1")
	require.True(t, ok)
	assert.Equal(t, started, state.StartedAt)
	assert.Equal(t, StatusCompleted, state.Status)
}

func TestMemoryStore_SweepOlderThan(t *testing.T) {
	store := NewMemoryStore()

	store.Put(State{ID: "old-done", Status: StatusCompleted})
	store.Put(State{ID: "old-failed", Status: StatusFailed})
	store.Put(State{ID: "old-running", Status: StatusRunning})

	// Backdate everything past the cutoff.
	store.mu.Lock()
	for id, state := range store.jobs {
		state.UpdatedAt = time.Now().UTC().Add(-2 * time.Hour)
		store.jobs[id] = state
	}
	store.mu.Unlock()

	store.Put(State{ID: "fresh-done", Status: StatusCompleted})

	removed := store.SweepOlderThan(time.Hour)
	assert.Equal(t, 2, removed)

	_, ok := store.Get("old-done")
	assert.False(t, ok)
	_, ok = store.Get("old-failed")
	assert.False(t, ok)

	// Running jobs are never swept, however stale.
	_, ok = store.Get("old-running")
	assert.True(t, ok)
	_, ok = store.Get("fresh-done")
	assert.True(t, ok)

	assert.Equal(t, 2, store.Len())
}

func TestStatus_Terminal(t *testing.T) {
	assert.False(t, StatusRunning.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
}
