package importjob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/geritapp/gerit/internal/application/catalog"
	"github.com/geritapp/gerit/internal/application/fieldservice"
	"github.com/geritapp/gerit/internal/csvimport"
	domain "github.com/geritapp/gerit/internal/domain/importjob"
)

const (
	maxStoredFailures = 100
	completeAttempts  = 3
)

type ImportSource interface {
	Open(ctx context.Context, sourcePath string) (io.ReadCloser, error)
}

// Importer applies a parsed file to the named entity collection.
type Importer interface {
	Import(ctx context.Context, entity string, req catalog.ImportRequest) (catalog.ImportOutcome, error)
}

type workerJobRepo interface {
	ClaimNext(ctx context.Context, leaseDuration time.Duration) (*domain.Job, error)
	Complete(ctx context.Context, jobID string, summary domain.Summary) error
	Requeue(ctx context.Context, jobID string, reason string) error
	Fail(ctx context.Context, jobID string, reason string) error
}

type WorkerConfig struct {
	Workers       int
	PollInterval  time.Duration
	LeaseDuration time.Duration
	Logger        *logrus.Logger
}

type Worker struct {
	repo     workerJobRepo
	source   ImportSource
	importer Importer
	cfg      WorkerConfig
	log      *logrus.Entry

	once sync.Once
	wg   sync.WaitGroup
}

func NewWorker(repo workerJobRepo, source ImportSource, importer Importer, cfg WorkerConfig) *Worker {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 500 * time.Millisecond
	}
	if cfg.LeaseDuration <= 0 {
		cfg.LeaseDuration = 60 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	return &Worker{
		repo:     repo,
		source:   source,
		importer: importer,
		cfg:      cfg,
		log:      cfg.Logger.WithField("component", "import_worker"),
	}
}

func (w *Worker) Start(ctx context.Context) {
	w.once.Do(func() {
		for i := 0; i < w.cfg.Workers; i++ {
			w.wg.Add(1)
			go func() {
				defer w.wg.Done()
				w.workerLoop(ctx)
			}()
		}
	})
}

// Wait blocks until every loop started by Start has returned.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) workerLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := w.repo.ClaimNext(ctx, w.cfg.LeaseDuration)
		if err != nil {
			w.log.WithError(err).Error("claim next import job failed")
			if !sleepWithContext(ctx, w.cfg.PollInterval) {
				return
			}
			continue
		}

		if job == nil {
			if !sleepWithContext(ctx, w.cfg.PollInterval) {
				return
			}
			continue
		}

		if err := w.ProcessJob(ctx, *job); err != nil {
			w.log.WithError(err).WithField("job_id", job.ID).Error("process import job failed")
		}
	}
}

func (w *Worker) ProcessJob(ctx context.Context, job domain.Job) error {
	reader, err := w.source.Open(ctx, job.SourcePath)
	if err != nil {
		return w.onProcessingError(ctx, job, fmt.Errorf("open import source: %w", err))
	}
	defer reader.Close()

	table, err := csvimport.ReadTable(job.SourcePath, reader)
	if err != nil {
		return w.onProcessingError(ctx, job, fmt.Errorf("read import source: %w", err))
	}

	outcome, err := w.importer.Import(ctx, job.Entity, catalog.ImportRequest{
		JobID:          job.ID,
		Source:         job.SourcePath,
		Table:          table,
		Mapping:        job.Mapping,
		UpdateExisting: job.UpdateExisting,
	})
	if err != nil {
		return w.onProcessingError(ctx, job, fmt.Errorf("apply import: %w", err))
	}

	summary := domain.Summary{
		ProcessedCount: int64(len(table.Rows)),
		CreatedCount:   int64(outcome.Created),
		UpdatedCount:   int64(outcome.Updated),
		SkippedCount:   int64(outcome.Skipped),
	}
	for _, f := range outcome.Failures {
		if len(summary.Failures) >= maxStoredFailures {
			break
		}
		summary.Failures = append(summary.Failures, domain.Failure{
			RowIndex: int64(f.RowIndex),
			Reason:   truncateReason(f.Reason),
		})
	}

	if err := w.complete(ctx, job.ID, summary); err != nil {
		// The rows are already applied, so the job must not run again.
		err = fmt.Errorf("complete job: %w", err)
		if failErr := w.repo.Fail(ctx, job.ID, truncateReason(err.Error())); failErr != nil {
			return fmt.Errorf("%v; fail update failed: %w", err, failErr)
		}
		return err
	}

	w.log.WithFields(logrus.Fields{
		"job_id":  job.ID,
		"entity":  job.Entity,
		"created": summary.CreatedCount,
		"updated": summary.UpdatedCount,
		"skipped": summary.SkippedCount,
	}).Info("import job completed")
	return nil
}

func (w *Worker) complete(ctx context.Context, jobID string, summary domain.Summary) error {
	var err error
	for attempt := 1; attempt <= completeAttempts; attempt++ {
		if err = w.repo.Complete(ctx, jobID, summary); err == nil {
			return nil
		}
		w.log.WithError(err).WithFields(logrus.Fields{"job_id": jobID, "attempt": attempt}).Warn("complete import job failed")
		if attempt < completeAttempts && !sleepWithContext(ctx, w.cfg.PollInterval) {
			break
		}
	}
	return err
}

// onProcessingError requeues the job while attempts remain. Errors that
// another attempt cannot fix fail it straight away.
func (w *Worker) onProcessingError(ctx context.Context, job domain.Job, err error) error {
	reason := truncateReason(err.Error())
	if job.Attempts < job.MaxAttempts && !permanent(err) {
		if requeueErr := w.repo.Requeue(ctx, job.ID, reason); requeueErr != nil {
			return fmt.Errorf("%v; requeue failed: %w", err, requeueErr)
		}
		return err
	}

	if failErr := w.repo.Fail(ctx, job.ID, reason); failErr != nil {
		return fmt.Errorf("%v; fail update failed: %w", err, failErr)
	}
	return err
}

func permanent(err error) bool {
	for _, target := range []error{
		catalog.ErrInvalidMapping,
		fieldservice.ErrUnknownEntity,
		csvimport.ErrNotEnoughLines,
		csvimport.ErrUnsupportedFormat,
		csvimport.ErrSheetNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func truncateReason(reason string) string {
	const maxLen = 1000
	reason = strings.TrimSpace(reason)
	if len(reason) <= maxLen {
		return reason
	}
	return reason[:maxLen]
}
