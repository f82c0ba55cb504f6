// Package debounce delays a function until its input has been quiet for a
// fixed interval.
package debounce

import (
	"sync"
	"time"
)

// Timer is the subset of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// Clock schedules deferred calls.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Option configures a Debouncer.
type Option func(*options)

type options struct {
	clock Clock
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// Debouncer forwards the value of the most recent Call to fn once wait has
// elapsed without another Call. It owns at most one pending timer.
type Debouncer[T any] struct {
	wait  time.Duration
	fn    func(T)
	clock Clock

	mu      sync.Mutex
	pending Timer
	gen     uint64
	value   T
}

// New returns a debouncer that calls fn after wait of quiet.
func New[T any](wait time.Duration, fn func(T), opts ...Option) *Debouncer[T] {
	o := options{clock: realClock{}}
	for _, opt := range opts {
		opt(&o)
	}
	return &Debouncer[T]{wait: wait, fn: fn, clock: o.clock}
}

// Call replaces any pending invocation with one carrying v.
func (d *Debouncer[T]) Call(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		d.pending.Stop()
	}
	d.gen++
	gen := d.gen
	d.value = v
	d.pending = d.clock.AfterFunc(d.wait, func() { d.fire(gen) })
}

// fire runs fn unless a later Call, Cancel or Flush superseded generation gen.
// A timer that already started when Stop was called lands here with a stale gen.
func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	v := d.value
	d.pending = nil
	d.mu.Unlock()
	d.fn(v)
}

// Cancel drops the pending invocation, if any.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	d.gen++
}

// Flush runs the pending invocation now. It reports whether one was pending.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if d.pending == nil {
		d.mu.Unlock()
		return false
	}
	d.pending.Stop()
	d.pending = nil
	d.gen++
	v := d.value
	d.mu.Unlock()
	d.fn(v)
	return true
}

// Pending reports whether an invocation is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}
