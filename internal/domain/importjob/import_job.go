package importjob

import (
	"errors"
	"time"
)

var (
	ErrJobNotFound = errors.New("import job not found")
)

type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

func (s Status) Finished() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is one import of a file into an entity collection. Synchronous
// imports are recorded as jobs that are already completed.
type Job struct {
	ID             string         `json:"id"`
	Entity         string         `json:"entity"`
	SourcePath     string         `json:"source_path"`
	Mapping        map[int]string `json:"mapping,omitempty"`
	UpdateExisting bool           `json:"update_existing"`
	Status         Status         `json:"status"`
	Attempts       int            `json:"attempts"`
	MaxAttempts    int            `json:"max_attempts"`
	Summary        Summary        `json:"summary"`
	ErrorMessage   string         `json:"error,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	FinishedAt     *time.Time     `json:"finished_at,omitempty"`
}

type Failure struct {
	RowIndex int64  `json:"row_index"`
	Reason   string `json:"reason"`
}

type Summary struct {
	ProcessedCount int64     `json:"processed"`
	CreatedCount   int64     `json:"created"`
	UpdatedCount   int64     `json:"updated"`
	SkippedCount   int64     `json:"skipped"`
	Failures       []Failure `json:"failures,omitempty"`
}
