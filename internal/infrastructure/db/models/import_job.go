package models

import "time"

type ImportJob struct {
	ID             string         `gorm:"type:uuid;primaryKey"`
	Entity         string         `gorm:"type:text;not null;index"`
	SourcePath     string         `gorm:"type:text;not null"`
	Mapping        map[int]string `gorm:"type:jsonb;serializer:json"`
	UpdateExisting bool           `gorm:"not null;default:false"`
	Status         string         `gorm:"type:text;not null;index"`
	ProcessedCount int64          `gorm:"not null;default:0"`
	CreatedCount   int64          `gorm:"not null;default:0"`
	UpdatedCount   int64          `gorm:"not null;default:0"`
	SkippedCount   int64          `gorm:"not null;default:0"`
	Attempts       int            `gorm:"not null;default:0"`
	MaxAttempts    int            `gorm:"not null;default:3"`
	ErrorMessage   *string        `gorm:"type:text"`
	LeaseExpiresAt *time.Time
	StartedAt      *time.Time
	FinishedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (ImportJob) TableName() string {
	return "import_jobs"
}

// ImportJobFailure is one skipped row of a job. Rows are written in bulk
// with COPY, so the table has no surrogate key.
type ImportJobFailure struct {
	JobID    string `gorm:"type:uuid;not null;index"`
	RowIndex int64  `gorm:"not null"`
	Reason   string `gorm:"type:text;not null"`
}

func (ImportJobFailure) TableName() string {
	return "import_job_failures"
}
