package fieldservice

import (
	"errors"
	"sort"
	"strings"
)

var ErrInUse = errors.New("in use")

// ValidationError maps JSON field names to user-facing messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// GuardError blocks a delete that would orphan a reference. It matches
// ErrInUse with errors.Is.
type GuardError struct {
	Reason string
}

func (e *GuardError) Error() string { return e.Reason }

func (e *GuardError) Is(target error) bool { return target == ErrInUse }
