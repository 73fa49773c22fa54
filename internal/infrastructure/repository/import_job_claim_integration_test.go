package repository_test

import (
	"context"
	"testing"
	"time"

	domain "github.com/geritapp/gerit/internal/domain/importjob"
	"github.com/geritapp/gerit/internal/infrastructure/repository"
)

func TestImportJobRepositoryClaimAndLifecycleIntegration(t *testing.T) {
	gdb, pool := openTestDB(t)

	if err := gdb.Exec("DELETE FROM import_jobs WHERE status IN ('queued','running')").Error; err != nil {
		t.Fatalf("failed to cleanup import_jobs: %v", err)
	}

	repo := repository.NewImportJobRepository(gdb, repository.NewImportFailureRepository(pool))
	ctx := context.Background()

	jobID, err := repo.Enqueue(ctx, domain.EnqueueInput{Entity: "team", SourcePath: "equipa.csv", MaxAttempts: 2})
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	claimed, err := repo.ClaimNext(ctx, 30*time.Second)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if claimed == nil {
		t.Fatal("expected claimed job")
	}
	if claimed.ID != jobID || claimed.Attempts != 1 || claimed.Status != domain.StatusRunning {
		t.Fatalf("unexpected claimed job: %+v", claimed)
	}

	again, err := repo.ClaimNext(ctx, 30*time.Second)
	if err != nil {
		t.Fatalf("second claim failed: %v", err)
	}
	if again != nil {
		t.Fatalf("leased job must not be claimed twice, got %s", again.ID)
	}

	if err := repo.Requeue(ctx, jobID, "connection reset"); err != nil {
		t.Fatalf("requeue failed: %v", err)
	}
	claimed, err = repo.ClaimNext(ctx, 30*time.Second)
	if err != nil || claimed == nil {
		t.Fatalf("reclaim failed: %v", err)
	}
	if claimed.Attempts != 2 {
		t.Fatalf("expected attempts=2, got %d", claimed.Attempts)
	}

	summary := domain.Summary{
		ProcessedCount: 10,
		CreatedCount:   8,
		UpdatedCount:   1,
		SkippedCount:   1,
		Failures:       []domain.Failure{{RowIndex: 4, Reason: "Email inválido."}},
	}
	if err := repo.Complete(ctx, claimed.ID, summary); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	job, err := repo.Get(ctx, jobID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if job.Status != domain.StatusCompleted || job.Summary.CreatedCount != 8 || job.FinishedAt == nil {
		t.Fatalf("unexpected completed job: %+v", job)
	}
	if len(job.Summary.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(job.Summary.Failures))
	}

	if err := repo.Fail(ctx, "00000000-0000-4000-8000-000000000000", "x"); err != domain.ErrJobNotFound {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}
