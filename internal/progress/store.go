// Package progress tracks the state of long-running export jobs.
// Jobs are identified by opaque IDs and move from running to a
// terminal completed or failed status. Finished jobs are retained
// for a configurable window so clients can poll the result.
package progress

import "time"

// Status is the lifecycle state of a job.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// State is a snapshot of a job's progress.
type State struct {
	ID        string    `json:"id"`
	Status    Status    `json:"status"`
	Total     int       `json:"total"`
	Completed int       `json:"completed"`
	Failed    int       `json:"failed"`
	Message   string    `json:"message,omitempty"`
	Result    any       `json:"result,omitempty"`
	StartedAt time.Time `json:"startedAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store persists job state. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns the state for id, or false if the job is unknown.
	Get(id string) (State, bool)

	// Put stores the state, replacing any previous snapshot. The
	// store stamps UpdatedAt.
	Put(state State)

	// SweepOlderThan removes terminal jobs that have not been
	// updated within maxAge and returns the number removed.
	SweepOlderThan(maxAge time.Duration) int
}
