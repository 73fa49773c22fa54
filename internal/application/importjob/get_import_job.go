package importjob

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	domain "github.com/geritapp/gerit/internal/domain/importjob"
)

type GetImportJobInput struct {
	ID string
}

type GetImportJob interface {
	Execute(ctx context.Context, in GetImportJobInput) (domain.Job, error)
}

type jobReader interface {
	Get(ctx context.Context, jobID string) (*domain.Job, error)
}

type getImportJob struct {
	jobs jobReader
}

func NewGetImportJob(jobs jobReader) GetImportJob {
	return &getImportJob{jobs: jobs}
}

func (uc *getImportJob) Execute(ctx context.Context, in GetImportJobInput) (domain.Job, error) {
	if _, err := uuid.Parse(in.ID); err != nil {
		return domain.Job{}, ErrInvalidJobID
	}

	job, err := uc.jobs.Get(ctx, in.ID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			return domain.Job{}, ErrJobNotFound
		}
		return domain.Job{}, fmt.Errorf("%w: %v", ErrGetImportJob, err)
	}
	return *job, nil
}

type ListImportJobsInput struct {
	Entity string
	Limit  int
}

type ListImportJobs interface {
	Execute(ctx context.Context, in ListImportJobsInput) ([]domain.Job, error)
}

type jobLister interface {
	List(ctx context.Context, entity string, limit int) ([]domain.Job, error)
}

type listImportJobs struct {
	jobs jobLister
}

func NewListImportJobs(jobs jobLister) ListImportJobs {
	return &listImportJobs{jobs: jobs}
}

// Execute returns the most recent jobs first, at most 50 unless Limit says
// fewer.
func (uc *listImportJobs) Execute(ctx context.Context, in ListImportJobsInput) ([]domain.Job, error) {
	limit := in.Limit
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	jobs, err := uc.jobs.List(ctx, in.Entity, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGetImportJob, err)
	}
	return jobs, nil
}
