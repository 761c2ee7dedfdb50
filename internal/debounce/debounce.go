// Package debounce holds back rapidly changing values until a quiet period
// has passed, then releases only the latest one.
//
// The Debouncer does not own a timer goroutine. Each Push returns a Ticket
// carrying a deadline; the caller's event loop arranges to call Fire with
// that ticket once the deadline passes (for Bubble Tea, via tea.Tick).
// Fire releases the value only if no newer Push happened in between and
// the deadline has been reached, so stale tickets are dropped and the last
// value wins.
package debounce

import "time"

// Ticket identifies one scheduled release.
type Ticket struct {
	Seq      uint64
	Deadline time.Time
}

// Wait returns how long to sleep from now until the ticket is due.
func (t Ticket) Wait(now time.Time) time.Duration {
	d := t.Deadline.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Debouncer keeps the most recent value and its release deadline.
// It is meant to be driven from a single event loop and is not safe for
// concurrent use.
type Debouncer[T any] struct {
	delay   time.Duration
	seq     uint64
	pending T
	has     bool
	due     time.Time
}

// New creates a debouncer with the given quiet period.
func New[T any](delay time.Duration) *Debouncer[T] {
	if delay < 0 {
		delay = 0
	}
	return &Debouncer[T]{delay: delay}
}

// Delay returns the configured quiet period.
func (d *Debouncer[T]) Delay() time.Duration { return d.delay }

// SetDelay changes the quiet period for later pushes. A ticket already
// handed out keeps its deadline.
func (d *Debouncer[T]) SetDelay(delay time.Duration) {
	if delay < 0 {
		delay = 0
	}
	d.delay = delay
}

// Push records v as the latest value and supersedes any earlier ticket.
func (d *Debouncer[T]) Push(v T, now time.Time) Ticket {
	d.seq++
	d.pending = v
	d.has = true
	d.due = now.Add(d.delay)
	return Ticket{Seq: d.seq, Deadline: d.due}
}

// Fire releases the pending value if t is the newest ticket and now has
// reached its deadline. Superseded or already fired tickets return false.
// A ticket fired early returns false and stays pending.
func (d *Debouncer[T]) Fire(t Ticket, now time.Time) (T, bool) {
	if !d.has || t.Seq != d.seq || now.Before(t.Deadline) {
		var zero T
		return zero, false
	}
	return d.take()
}

// Flush releases the pending value regardless of its deadline.
func (d *Debouncer[T]) Flush() (T, bool) {
	if !d.has {
		var zero T
		return zero, false
	}
	return d.take()
}

// Cancel drops the pending value; outstanding tickets become stale.
func (d *Debouncer[T]) Cancel() {
	var zero T
	d.pending = zero
	d.has = false
}

// Pending reports whether a value is waiting, and the newest ticket.
func (d *Debouncer[T]) Pending() (Ticket, bool) {
	return Ticket{Seq: d.seq, Deadline: d.due}, d.has
}

func (d *Debouncer[T]) take() (T, bool) {
	v := d.pending
	var zero T
	d.pending = zero
	d.has = false
	return v, true
}
