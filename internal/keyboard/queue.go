// Package keyboard forwards terminal key presses to the capture loop.
package keyboard

import (
	"context"
	"sync"
)

// Key identifies the kind of key event.
type Key int

const (
	// KeyRune is any key other than Enter.
	KeyRune Key = iota
	// KeyEnter toggles pause in the capture loop.
	KeyEnter
)

// Event is one key press.
type Event struct {
	Key  Key
	Rune rune
}

// Status reports the outcome of a TryTake.
type Status int

const (
	Taken Status = iota
	Empty
	Closed
)

func (s Status) String() string {
	switch s {
	case Taken:
		return "taken"
	case Empty:
		return "empty"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// Queue is a single-producer, single-consumer event queue. The producer
// may block in Push; the consumer never blocks in TryTake.
type Queue struct {
	ch        chan Event
	closeOnce sync.Once
}

// NewQueue returns a queue holding up to size pending events.
func NewQueue(size int) *Queue {
	if size < 0 {
		size = 0
	}
	return &Queue{ch: make(chan Event, size)}
}

// Push enqueues ev, blocking while the queue is full. It gives up when
// ctx is done. Push must not be called after Close.
func (q *Queue) Push(ctx context.Context, ev Event) error {
	select {
	case q.ch <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryTake returns the next pending event without blocking. Closed is
// reported only once every pending event has been taken.
func (q *Queue) TryTake() (Event, Status) {
	select {
	case ev, ok := <-q.ch:
		if !ok {
			return Event{}, Closed
		}
		return ev, Taken
	default:
		return Event{}, Empty
	}
}

// Close marks the queue as permanently finished. It is safe to call
// more than once.
func (q *Queue) Close() {
	q.closeOnce.Do(func() { close(q.ch) })
}
