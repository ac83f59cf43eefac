package domain

import "time"

// JobStatus tracks an async solve request through its lifecycle (C12/C13).
type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// SolveJob is the durable record of one async solve request: the input
// snapshot (serialised team CSV + config), and, once processed, the
// result snapshot. Persisted by internal/repository, consumed by
// cmd/worker.
type SolveJob struct {
	ID            int64       `json:"id"`
	RequestedBy   int64       `json:"requestedBy"`
	TeamCSV       string      `json:"teamCSV"`
	Config        SolveConfig `json:"config"`
	Status        JobStatus   `json:"status"`
	ResultStatus  Status      `json:"resultStatus,omitempty"`
	Score         float64     `json:"score,omitempty"`
	SeedUsed      uint64      `json:"seedUsed,omitempty"`
	ScheduleCSV   string      `json:"scheduleCSV,omitempty"`
	FailureReason string      `json:"failureReason,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	CompletedAt   *time.Time  `json:"completedAt,omitempty"`
	Version       int32       `json:"-"`
}
