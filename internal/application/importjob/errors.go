package importjob

import "errors"

var (
	ErrInvalidImportSource = errors.New("invalid import source")
	ErrEnqueueImportJob    = errors.New("failed to enqueue import job")
	ErrInvalidJobID        = errors.New("invalid import job id")
	ErrJobNotFound         = errors.New("import job not found")
	ErrGetImportJob        = errors.New("failed to get import job")
)
