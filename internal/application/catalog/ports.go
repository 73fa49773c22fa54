package catalog

import (
	"context"

	"github.com/geritapp/gerit/internal/domain/importjob"
)

// Store persists one entity collection. The catalog keeps the working set
// in memory and writes every change through.
type Store[T any] interface {
	Load(ctx context.Context) ([]T, error)
	Save(ctx context.Context, items ...T) error
	Delete(ctx context.Context, id int64) error
}

type ImportRecorder interface {
	Record(ctx context.Context, job importjob.Job) error
}

type ImportObserver interface {
	ObserveImport(entity string, created, updated, skipped int)
}
