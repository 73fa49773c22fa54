package liststate

import "time"

// Debouncer holds back a value until it has been stable for the delay. It
// keeps no timers: callers pass the current time, so tests drive it with a
// fake clock.
type Debouncer[T any] struct {
	delay   time.Duration
	current T
	pending T
	since   time.Time
	waiting bool
}

func NewDebouncer[T any](initial T, delay time.Duration) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, current: initial}
}

// Push records v as the latest input at now, restarting the delay.
func (d *Debouncer[T]) Push(v T, now time.Time) {
	d.pending = v
	d.since = now
	d.waiting = true
}

// Value returns the emitted value at now.
func (d *Debouncer[T]) Value(now time.Time) T {
	if d.waiting && !now.Before(d.since.Add(d.delay)) {
		d.current = d.pending
		d.waiting = false
	}
	return d.current
}

// Deadline reports when the pending value will be emitted.
func (d *Debouncer[T]) Deadline() (time.Time, bool) {
	if !d.waiting {
		return time.Time{}, false
	}
	return d.since.Add(d.delay), true
}

// Debounce is the stateless form: the value pushed at pushedAt is visible
// at now only once delay has passed, otherwise previous stays visible.
func Debounce[T any](previous, value T, pushedAt time.Time, delay time.Duration, now time.Time) T {
	if now.Sub(pushedAt) >= delay {
		return value
	}
	return previous
}
