package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/geritapp/gerit/internal/csvimport"
	domain "github.com/geritapp/gerit/internal/domain/importjob"
)

// MemoryStore keeps a catalog in process memory, newest item first.
type MemoryStore[T csvimport.Identifiable[T]] struct {
	mu    sync.Mutex
	items []T
}

func NewMemoryStore[T csvimport.Identifiable[T]]() *MemoryStore[T] {
	return &MemoryStore[T]{}
}

func (s *MemoryStore[T]) Load(context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *MemoryStore[T]) Save(_ context.Context, items ...T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := make([]T, 0, len(items))
	for _, item := range items {
		if i := s.indexOf(item.EntityID()); i >= 0 {
			s.items[i] = item
			continue
		}
		added = append(added, item)
	}
	s.items = append(added, s.items...)
	return nil
}

func (s *MemoryStore[T]) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
	return nil
}

func (s *MemoryStore[T]) indexOf(id int64) int {
	for i, item := range s.items {
		if item.EntityID() == id {
			return i
		}
	}
	return -1
}

type memoryJob struct {
	job   domain.Job
	lease time.Time
}

// MemoryImportJobs is the import job queue used when no database is
// configured. Jobs do not survive a restart.
type MemoryImportJobs struct {
	clock clockwork.Clock

	mu   sync.Mutex
	jobs map[string]*memoryJob
}

func NewMemoryImportJobs(clock clockwork.Clock) *MemoryImportJobs {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryImportJobs{clock: clock, jobs: make(map[string]*memoryJob)}
}

func (r *MemoryImportJobs) Enqueue(_ context.Context, in domain.EnqueueInput) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	r.jobs[id] = &memoryJob{job: domain.Job{
		ID:             id,
		Entity:         in.Entity,
		SourcePath:     in.SourcePath,
		Mapping:        in.Mapping,
		UpdateExisting: in.UpdateExisting,
		Status:         domain.StatusQueued,
		MaxAttempts:    in.MaxAttempts,
		CreatedAt:      r.clock.Now(),
	}}
	return id, nil
}

func (r *MemoryImportJobs) ClaimNext(_ context.Context, leaseDuration time.Duration) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	var next *memoryJob
	for _, j := range r.jobs {
		claimable := j.job.Status == domain.StatusQueued ||
			(j.job.Status == domain.StatusRunning && j.lease.Before(now))
		if claimable && (next == nil || j.job.CreatedAt.Before(next.job.CreatedAt)) {
			next = j
		}
	}
	if next == nil {
		return nil, nil
	}

	next.job.Status = domain.StatusRunning
	next.job.Attempts++
	next.lease = now.Add(leaseDuration)
	job := next.job
	return &job, nil
}

func (r *MemoryImportJobs) Complete(_ context.Context, jobID string, summary domain.Summary) error {
	return r.finish(jobID, func(j *domain.Job) {
		j.Status = domain.StatusCompleted
		j.Summary = summary
		j.ErrorMessage = ""
	})
}

func (r *MemoryImportJobs) Requeue(_ context.Context, jobID string, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jobs[jobID]
	if !ok {
		return domain.ErrJobNotFound
	}
	j.job.Status = domain.StatusQueued
	j.job.ErrorMessage = reason
	j.lease = time.Time{}
	return nil
}

func (r *MemoryImportJobs) Fail(_ context.Context, jobID string, reason string) error {
	return r.finish(jobID, func(j *domain.Job) {
		j.Status = domain.StatusFailed
		j.ErrorMessage = reason
	})
}

func (r *MemoryImportJobs) finish(jobID string, apply func(*domain.Job)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jobs[jobID]
	if !ok {
		return domain.ErrJobNotFound
	}
	apply(&j.job)
	now := r.clock.Now()
	j.job.FinishedAt = &now
	j.lease = time.Time{}
	return nil
}

func (r *MemoryImportJobs) Record(_ context.Context, job domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = &memoryJob{job: job}
	return nil
}

func (r *MemoryImportJobs) Get(_ context.Context, jobID string) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jobs[jobID]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	job := j.job
	return &job, nil
}

func (r *MemoryImportJobs) List(_ context.Context, entity string, limit int) ([]domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	jobs := make([]domain.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		if entity == "" || j.job.Entity == entity {
			job := j.job
			job.Summary.Failures = nil
			jobs = append(jobs, job)
		}
	}
	sort.Slice(jobs, func(a, b int) bool { return jobs[a].CreatedAt.After(jobs[b].CreatedAt) })
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}
