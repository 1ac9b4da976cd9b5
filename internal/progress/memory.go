package progress

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// MemoryStore is an in-process Store backed by a map. It is the
// default backend; a shared backend can be swapped in behind the
// Store interface when jobs must survive restarts.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]State
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs: make(map[string]State),
	}
}

// Get returns the state for id.
func (m *MemoryStore) Get(id string) (State, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.jobs[id]
	return state, ok
}

// Put stores the state, stamping UpdatedAt.
func (m *MemoryStore) Put(state State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state.UpdatedAt = time.Now().UTC()
	if state.StartedAt.IsZero() {
		state.StartedAt = state.UpdatedAt
	}
	m.jobs[state.ID] = state
}

// SweepOlderThan removes terminal jobs not updated within maxAge.
func (m *MemoryStore) SweepOlderThan(maxAge time.Duration) int {
	cutoff := time.Now().UTC().Add(-maxAge)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, state := range m.jobs {
		if state.Status.Terminal() && state.UpdatedAt.Before(cutoff) {
			delete(m.jobs, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked jobs.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.jobs)
}

// StartJanitor sweeps the store on the given interval until ctx is
// cancelled. It runs in its own goroutine.
func StartJanitor(ctx context.Context, store Store, interval, maxAge time.Duration, logger *slog.Logger) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := store.SweepOlderThan(maxAge); removed > 0 {
					logger.Debug("swept finished export jobs", "removed", removed)
				}
			}
		}
	}()
}
