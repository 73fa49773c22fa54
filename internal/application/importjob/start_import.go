package importjob

import (
	"context"
	"fmt"
	"strings"

	"github.com/geritapp/gerit/internal/application/fieldservice"
	"github.com/geritapp/gerit/internal/csvimport"
	domain "github.com/geritapp/gerit/internal/domain/importjob"
)

type StartImportInput struct {
	Entity         string
	SourcePath     string
	Mapping        csvimport.Mapping
	UpdateExisting bool
}

type StartImportOutput struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

type StartImport interface {
	Execute(ctx context.Context, in StartImportInput) (StartImportOutput, error)
}

type jobEnqueuer interface {
	Enqueue(ctx context.Context, in domain.EnqueueInput) (string, error)
}

type startImport struct {
	jobs        jobEnqueuer
	known       func(entity string) bool
	maxAttempts int
}

// NewStartImport queues files for the worker. known tells which entity
// names can be imported.
func NewStartImport(jobs jobEnqueuer, known func(entity string) bool, maxAttempts int) StartImport {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &startImport{jobs: jobs, known: known, maxAttempts: maxAttempts}
}

func (uc *startImport) Execute(ctx context.Context, in StartImportInput) (StartImportOutput, error) {
	sourcePath := strings.TrimSpace(in.SourcePath)
	if sourcePath == "" || !csvimport.Supported(sourcePath) {
		return StartImportOutput{}, ErrInvalidImportSource
	}
	if !uc.known(in.Entity) {
		return StartImportOutput{}, fmt.Errorf("%w: %q", fieldservice.ErrUnknownEntity, in.Entity)
	}

	jobID, err := uc.jobs.Enqueue(ctx, domain.EnqueueInput{
		Entity:         in.Entity,
		SourcePath:     sourcePath,
		Mapping:        in.Mapping,
		UpdateExisting: in.UpdateExisting,
		MaxAttempts:    uc.maxAttempts,
	})
	if err != nil {
		return StartImportOutput{}, fmt.Errorf("%w: %v", ErrEnqueueImportJob, err)
	}

	return StartImportOutput{
		JobID:  jobID,
		Status: string(domain.StatusQueued),
	}, nil
}
