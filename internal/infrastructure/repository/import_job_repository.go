package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/geritapp/gerit/internal/domain/importjob"
	"github.com/geritapp/gerit/internal/infrastructure/db/models"
)

type failureWriter interface {
	ReplaceFailures(ctx context.Context, jobID string, failures []domain.Failure) error
	ListFailures(ctx context.Context, jobID string) ([]domain.Failure, error)
}

type ImportJobRepository struct {
	db       *gorm.DB
	failures failureWriter
}

func NewImportJobRepository(db *gorm.DB, failures failureWriter) *ImportJobRepository {
	return &ImportJobRepository{db: db, failures: failures}
}

func (r *ImportJobRepository) Enqueue(ctx context.Context, in domain.EnqueueInput) (string, error) {
	job := models.ImportJob{
		ID:             uuid.NewString(),
		Entity:         in.Entity,
		SourcePath:     in.SourcePath,
		Mapping:        in.Mapping,
		UpdateExisting: in.UpdateExisting,
		Status:         string(domain.StatusQueued),
		MaxAttempts:    in.MaxAttempts,
	}

	if err := r.db.WithContext(ctx).Create(&job).Error; err != nil {
		return "", fmt.Errorf("create import job: %w", err)
	}

	return job.ID, nil
}

// ClaimNext locks the oldest claimable row with SKIP LOCKED so concurrent
// workers never take the same job.
func (r *ImportJobRepository) ClaimNext(ctx context.Context, leaseDuration time.Duration) (*domain.Job, error) {
	var claimed *domain.Job

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		var row models.ImportJob
		err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("status = ? OR (status = ? AND lease_expires_at < ?)", domain.StatusQueued, domain.StatusRunning, now).
			Order("created_at").
			Take(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		lease := now.Add(leaseDuration)
		updates := map[string]any{
			"status":           string(domain.StatusRunning),
			"attempts":         gorm.Expr("attempts + 1"),
			"lease_expires_at": lease,
			"updated_at":       now,
		}
		if row.StartedAt == nil {
			updates["started_at"] = now
		}
		if err := tx.Model(&models.ImportJob{}).Where("id = ?", row.ID).Updates(updates).Error; err != nil {
			return err
		}

		row.Status = string(domain.StatusRunning)
		row.Attempts++
		row.LeaseExpiresAt = &lease
		job := toDomainJob(row)
		claimed = &job
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("claim import job: %w", err)
	}
	return claimed, nil
}

func (r *ImportJobRepository) Complete(ctx context.Context, jobID string, summary domain.Summary) error {
	if err := r.failures.ReplaceFailures(ctx, jobID, summary.Failures); err != nil {
		return err
	}

	now := time.Now().UTC()
	return r.update(ctx, jobID, map[string]any{
		"status":           string(domain.StatusCompleted),
		"processed_count":  summary.ProcessedCount,
		"created_count":    summary.CreatedCount,
		"updated_count":    summary.UpdatedCount,
		"skipped_count":    summary.SkippedCount,
		"error_message":    nil,
		"lease_expires_at": nil,
		"finished_at":      now,
		"updated_at":       now,
	})
}

func (r *ImportJobRepository) Requeue(ctx context.Context, jobID string, reason string) error {
	return r.update(ctx, jobID, map[string]any{
		"status":           string(domain.StatusQueued),
		"error_message":    reason,
		"lease_expires_at": nil,
		"updated_at":       time.Now().UTC(),
	})
}

func (r *ImportJobRepository) Fail(ctx context.Context, jobID string, reason string) error {
	now := time.Now().UTC()
	return r.update(ctx, jobID, map[string]any{
		"status":           string(domain.StatusFailed),
		"error_message":    reason,
		"lease_expires_at": nil,
		"finished_at":      now,
		"updated_at":       now,
	})
}

func (r *ImportJobRepository) update(ctx context.Context, jobID string, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.ImportJob{}).Where("id = ?", jobID).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update import job %s: %w", jobID, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

// Record stores a job that already ran, failures included.
func (r *ImportJobRepository) Record(ctx context.Context, job domain.Job) error {
	row := toModelJob(job)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("record import job: %w", err)
	}
	return r.failures.ReplaceFailures(ctx, job.ID, job.Summary.Failures)
}

func (r *ImportJobRepository) Get(ctx context.Context, jobID string) (*domain.Job, error) {
	var row models.ImportJob
	err := r.db.WithContext(ctx).First(&row, "id = ?", jobID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("get import job: %w", err)
	}

	job := toDomainJob(row)
	failures, err := r.failures.ListFailures(ctx, jobID)
	if err != nil {
		return nil, err
	}
	job.Summary.Failures = failures
	return &job, nil
}

// List returns the newest jobs first, without their row failures.
func (r *ImportJobRepository) List(ctx context.Context, entity string, limit int) ([]domain.Job, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if entity != "" {
		q = q.Where("entity = ?", entity)
	}

	var rows []models.ImportJob
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list import jobs: %w", err)
	}

	jobs := make([]domain.Job, 0, len(rows))
	for _, row := range rows {
		jobs = append(jobs, toDomainJob(row))
	}
	return jobs, nil
}

func toDomainJob(row models.ImportJob) domain.Job {
	job := domain.Job{
		ID:             row.ID,
		Entity:         row.Entity,
		SourcePath:     row.SourcePath,
		Mapping:        row.Mapping,
		UpdateExisting: row.UpdateExisting,
		Status:         domain.Status(row.Status),
		Attempts:       row.Attempts,
		MaxAttempts:    row.MaxAttempts,
		Summary: domain.Summary{
			ProcessedCount: row.ProcessedCount,
			CreatedCount:   row.CreatedCount,
			UpdatedCount:   row.UpdatedCount,
			SkippedCount:   row.SkippedCount,
		},
		CreatedAt:  row.CreatedAt,
		FinishedAt: row.FinishedAt,
	}
	if row.ErrorMessage != nil {
		job.ErrorMessage = *row.ErrorMessage
	}
	return job
}

func toModelJob(job domain.Job) models.ImportJob {
	row := models.ImportJob{
		ID:             job.ID,
		Entity:         job.Entity,
		SourcePath:     job.SourcePath,
		Mapping:        job.Mapping,
		UpdateExisting: job.UpdateExisting,
		Status:         string(job.Status),
		ProcessedCount: job.Summary.ProcessedCount,
		CreatedCount:   job.Summary.CreatedCount,
		UpdatedCount:   job.Summary.UpdatedCount,
		SkippedCount:   job.Summary.SkippedCount,
		Attempts:       job.Attempts,
		MaxAttempts:    job.MaxAttempts,
		StartedAt:      &job.CreatedAt,
		FinishedAt:     job.FinishedAt,
		CreatedAt:      job.CreatedAt,
	}
	if job.ErrorMessage != "" {
		msg := job.ErrorMessage
		row.ErrorMessage = &msg
	}
	return row
}
