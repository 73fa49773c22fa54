package catalog

import (
	"context"
	"time"

	"github.com/geritapp/gerit/internal/csvimport"
	"github.com/geritapp/gerit/internal/export"
	"github.com/geritapp/gerit/internal/liststate"
)

// Definition is everything the catalog needs to know about one entity type.
type Definition[T csvimport.Identifiable[T]] struct {
	// Name is the URL and job name (e.g. "vehicles"); Title is shown to
	// people and used in export file names (e.g. "Viaturas").
	Name  string
	Title string

	// Fields are sortable; SearchKeys picks the ones free-text search looks
	// at. Empty SearchKeys searches every field.
	Fields      []liststate.Field[T]
	SearchKeys  []string
	DefaultSort liststate.Sort

	Import csvimport.Schema[T]
	Export []export.Column[T]

	// Prepare normalizes an entity before validation on create and update.
	Prepare func(T) T
	// Stamp sets creation metadata on new entities.
	Stamp func(T, time.Time) T
	// Keep copies immutable fields from the stored entity onto an update.
	Keep     func(stored, updated T) T
	Validate func(item T, all []T) error
	// Guard blocks deletes that would leave dangling references.
	Guard func(T) error
	// Narrow applies the structured filters of a Query.
	Narrow func(T, Query) bool
	// Remote, when set, creates the entity upstream first and stores what
	// the remote returns.
	Remote func(ctx context.Context, item T) (T, error)
}

type Query struct {
	Search   string
	Sort     liststate.Sort
	Page     int
	PageSize int
	Status   string
	From     time.Time
	To       time.Time
}

type ImportRequest struct {
	// JobID is set when the import runs as a queued job; the job's owner
	// records it then.
	JobID          string
	Source         string
	Table          csvimport.Table
	Mapping        csvimport.Mapping
	UpdateExisting bool
}

type ImportPreview struct {
	Entity    string                 `json:"entity"`
	Delimiter string                 `json:"delimiter,omitempty"`
	Headers   []string               `json:"headers"`
	Columns   []csvimport.Column     `json:"columns"`
	Mapping   csvimport.Mapping      `json:"mapping"`
	Missing   []string               `json:"missing"`
	Summary   csvimport.Summary      `json:"summary"`
	Failures  []csvimport.RowFailure `json:"failures"`
	Sample    []csvimport.Record     `json:"sample"`
}

type ImportOutcome struct {
	JobID    string                 `json:"job_id"`
	Entity   string                 `json:"entity"`
	Created  int                    `json:"created"`
	Updated  int                    `json:"updated"`
	Skipped  int                    `json:"skipped"`
	Failures []csvimport.RowFailure `json:"failures"`
}
