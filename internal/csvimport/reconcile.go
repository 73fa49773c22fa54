package csvimport

import (
	"fmt"
	"strings"
)

type Outcome string

const (
	OutcomeCreate Outcome = "create"
	OutcomeUpdate Outcome = "update"
	OutcomeSkip   Outcome = "skip"
)

// Identifiable is implemented by every importable entity.
type Identifiable[T any] interface {
	EntityID() int64
	WithID(id int64) T
}

// Schema describes how imported records become entities of type T.
type Schema[T Identifiable[T]] struct {
	Entity  string
	Columns []Column

	// UniqueKey is the record field matched against KeyOf of existing
	// entities. Empty means rows are always created.
	UniqueKey    string
	KeyOf        func(T) string
	NormalizeKey func(string) string

	// Check rejects rows that pass the required-field test but break an
	// entity rule (e.g. a malformed plate).
	Check func(Record) error
	Build func(Record) (T, error)
	// Merge overlays the fields present in the record onto an existing entity.
	Merge func(T, Record) (T, error)
}

type Options struct {
	UpdateExisting bool
}

type Decision struct {
	RowIndex int
	Outcome  Outcome
	// Match is the index of the existing entity an update targets, -1 otherwise.
	Match  int
	Reason string
}

type RowFailure struct {
	RowIndex int    `json:"row_index"`
	Reason   string `json:"reason"`
}

type Summary struct {
	ToCreate int `json:"to_create"`
	ToUpdate int `json:"to_update"`
	ToSkip   int `json:"to_skip"`
}

// Plan is the classification of every row against one snapshot of existing
// entities. It is a preview: nothing is changed until Apply.
type Plan[T Identifiable[T]] struct {
	schema    Schema[T]
	existing  []T
	records   []Record
	decisions []Decision
}

type Result[T any] struct {
	Entities []T
	Created  int
	Updated  int
	Skipped  int
	Failures []RowFailure
}

// Summarize classifies every record as create, update or skip.
func Summarize[T Identifiable[T]](records []Record, existing []T, schema Schema[T], opts Options) Plan[T] {
	plan := Plan[T]{
		schema:    schema,
		existing:  existing,
		records:   records,
		decisions: make([]Decision, 0, len(records)),
	}

	matchUpdates := opts.UpdateExisting && schema.UniqueKey != "" && schema.KeyOf != nil && schema.Merge != nil
	var index map[string]int
	if matchUpdates {
		index = make(map[string]int, len(existing))
		for i, entity := range existing {
			key := schema.normalize(schema.KeyOf(entity))
			if key == "" {
				continue
			}
			if _, seen := index[key]; !seen {
				index[key] = i
			}
		}
	}

	for i, record := range records {
		plan.decisions = append(plan.decisions, schema.classify(i, record, existing, index, matchUpdates))
	}

	return plan
}

func (s Schema[T]) classify(rowIndex int, record Record, existing []T, index map[string]int, matchUpdates bool) Decision {
	skip := func(reason string) Decision {
		return Decision{RowIndex: rowIndex, Outcome: OutcomeSkip, Match: -1, Reason: reason}
	}

	if missing := s.missingRequired(record); len(missing) > 0 {
		return skip("missing required field(s): " + strings.Join(missing, ", "))
	}
	if s.Check != nil {
		if err := s.Check(record); err != nil {
			return skip(err.Error())
		}
	}

	if matchUpdates && record.Has(s.UniqueKey) {
		if match, ok := index[s.normalize(record[s.UniqueKey])]; ok {
			if _, err := s.Merge(existing[match], record); err != nil {
				return skip(err.Error())
			}
			return Decision{RowIndex: rowIndex, Outcome: OutcomeUpdate, Match: match}
		}
	}

	if _, err := s.Build(record); err != nil {
		return skip(err.Error())
	}
	return Decision{RowIndex: rowIndex, Outcome: OutcomeCreate, Match: -1}
}

func (s Schema[T]) missingRequired(record Record) []string {
	var missing []string
	for _, col := range s.Columns {
		if col.Required && !record.Has(col.Field) {
			missing = append(missing, col.Field)
		}
	}
	return missing
}

func (s Schema[T]) normalize(key string) string {
	if s.NormalizeKey != nil {
		return s.NormalizeKey(key)
	}
	return strings.ToLower(strings.TrimSpace(key))
}

func (p Plan[T]) Decisions() []Decision {
	out := make([]Decision, len(p.decisions))
	copy(out, p.decisions)
	return out
}

func (p Plan[T]) Summary() Summary {
	var s Summary
	for _, d := range p.decisions {
		switch d.Outcome {
		case OutcomeCreate:
			s.ToCreate++
		case OutcomeUpdate:
			s.ToUpdate++
		case OutcomeSkip:
			s.ToSkip++
		}
	}
	return s
}

func (p Plan[T]) Failures() []RowFailure {
	failures := make([]RowFailure, 0)
	for _, d := range p.decisions {
		if d.Outcome == OutcomeSkip {
			failures = append(failures, RowFailure{RowIndex: d.RowIndex, Reason: d.Reason})
		}
	}
	return failures
}

// Apply replays the plan on a copy of its snapshot. Created entities take
// their IDs from ids and are placed ahead of the existing ones in source
// order; updated entities keep their position and ID.
func Apply[T Identifiable[T]](plan Plan[T], ids IDGenerator) Result[T] {
	working := make([]T, len(plan.existing))
	copy(working, plan.existing)

	result := Result[T]{Failures: make([]RowFailure, 0)}
	created := make([]T, 0)

	fail := func(d Decision, reason string) {
		result.Skipped++
		result.Failures = append(result.Failures, RowFailure{RowIndex: d.RowIndex, Reason: reason})
	}

	for _, d := range plan.decisions {
		record := plan.records[d.RowIndex]
		switch d.Outcome {
		case OutcomeSkip:
			fail(d, d.Reason)
		case OutcomeUpdate:
			current := working[d.Match]
			merged, err := plan.schema.Merge(current, record)
			if err != nil {
				fail(d, err.Error())
				continue
			}
			working[d.Match] = merged.WithID(current.EntityID())
			result.Updated++
		case OutcomeCreate:
			built, err := plan.schema.Build(record)
			if err != nil {
				fail(d, err.Error())
				continue
			}
			created = append(created, built.WithID(ids.Next()))
			result.Created++
		default:
			fail(d, fmt.Sprintf("unknown outcome %q", d.Outcome))
		}
	}

	result.Entities = append(created, working...)
	return result
}
