package catalog

import (
	"errors"
	"strings"
)

var (
	ErrNotFound       = errors.New("entity not found")
	ErrInvalidMapping = errors.New("invalid column mapping")
	ErrPersist        = errors.New("failed to persist entities")
	ErrRemote         = errors.New("remote create failed")
)

// MappingError lists the required fields no column is mapped to.
type MappingError struct {
	Missing []string
}

func (e *MappingError) Error() string {
	return "required fields not mapped: " + strings.Join(e.Missing, ", ")
}

func (e *MappingError) Is(target error) bool { return target == ErrInvalidMapping }
