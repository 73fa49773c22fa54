package csvimport

import "sync/atomic"

type IDGenerator interface {
	Next() int64
}

// Sequence hands out strictly increasing IDs. It is safe for concurrent use.
type Sequence struct {
	last atomic.Int64
}

// NewSequence returns a sequence whose first ID is after+1.
func NewSequence(after int64) *Sequence {
	s := &Sequence{}
	s.last.Store(after)
	return s
}

// SequenceAfter starts a sequence past the highest ID in existing.
func SequenceAfter[T Identifiable[T]](existing []T) *Sequence {
	var highest int64
	for _, entity := range existing {
		if id := entity.EntityID(); id > highest {
			highest = id
		}
	}
	return NewSequence(highest)
}

func (s *Sequence) Next() int64 {
	return s.last.Add(1)
}

// Observe moves the sequence past id if it is behind it.
func (s *Sequence) Observe(id int64) {
	for {
		last := s.last.Load()
		if id <= last || s.last.CompareAndSwap(last, id) {
			return
		}
	}
}
