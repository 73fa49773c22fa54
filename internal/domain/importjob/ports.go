package importjob

import (
	"context"
	"time"
)

type EnqueueInput struct {
	Entity         string
	SourcePath     string
	Mapping        map[int]string
	UpdateExisting bool
	MaxAttempts    int
}

type Repository interface {
	Enqueue(ctx context.Context, in EnqueueInput) (string, error)
	// ClaimNext leases the oldest queued job, or a running one whose lease
	// ran out. It returns nil when there is nothing to do.
	ClaimNext(ctx context.Context, leaseDuration time.Duration) (*Job, error)
	Complete(ctx context.Context, jobID string, summary Summary) error
	Requeue(ctx context.Context, jobID string, reason string) error
	Fail(ctx context.Context, jobID string, reason string) error
	// Record stores a job that ran synchronously.
	Record(ctx context.Context, job Job) error
	Get(ctx context.Context, jobID string) (*Job, error)
	List(ctx context.Context, entity string, limit int) ([]Job, error)
}
