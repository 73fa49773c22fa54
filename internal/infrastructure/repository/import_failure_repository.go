package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/geritapp/gerit/internal/domain/importjob"
)

// ImportFailureRepository keeps the skipped rows of import jobs. Writes go
// through COPY since a single file can skip thousands of rows.
type ImportFailureRepository struct {
	pool *pgxpool.Pool
}

func NewImportFailureRepository(pool *pgxpool.Pool) *ImportFailureRepository {
	return &ImportFailureRepository{pool: pool}
}

// ReplaceFailures swaps the stored failures of jobID for failures, so a
// retried job does not accumulate rows from earlier attempts.
func (r *ImportFailureRepository) ReplaceFailures(ctx context.Context, jobID string, failures []domain.Failure) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM import_job_failures WHERE job_id = $1", jobID); err != nil {
		return fmt.Errorf("cleanup import_job_failures: %w", err)
	}

	if len(failures) > 0 {
		rows := make([][]any, 0, len(failures))
		for _, f := range failures {
			rows = append(rows, []any{jobID, f.RowIndex, f.Reason})
		}
		if _, err := tx.CopyFrom(
			ctx,
			pgx.Identifier{"import_job_failures"},
			[]string{"job_id", "row_index", "reason"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("copy import failures: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit import failures: %w", err)
	}
	return nil
}

func (r *ImportFailureRepository) ListFailures(ctx context.Context, jobID string) ([]domain.Failure, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT row_index, reason FROM import_job_failures WHERE job_id = $1 ORDER BY row_index", jobID)
	if err != nil {
		return nil, fmt.Errorf("list import failures: %w", err)
	}

	failures, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Failure, error) {
		var f domain.Failure
		err := row.Scan(&f.RowIndex, &f.Reason)
		return f, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan import failures: %w", err)
	}
	return failures, nil
}
