package latch

import (
	"context"
	"sync"
)

// Latch is a one-shot completion signal carrying a value of type T or an
// error. The zero value is not usable; create latches with New, Completed
// or Failed.
type Latch[T any] struct {
	mu    sync.Mutex
	done  chan struct{}
	value T
	err   error
}

// New creates an unsettled latch.
func New[T any]() *Latch[T] {
	return &Latch[T]{done: make(chan struct{})}
}

// Completed creates a latch already settled with the given value.
func Completed[T any](value T) *Latch[T] {
	l := New[T]()
	l.Complete(value)
	return l
}

// Failed creates a latch already settled with the given error.
func Failed[T any](err error) *Latch[T] {
	l := New[T]()
	l.Fail(err)
	return l
}

// Complete settles the latch with a value. It returns true if this call
// settled the latch, false if the latch was already settled.
func (l *Latch[T]) Complete(value T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.settledLocked() {
		return false
	}

	l.value = value
	close(l.done)
	return true
}

// Fail settles the latch with an error. It returns true if this call
// settled the latch, false if the latch was already settled.
func (l *Latch[T]) Fail(err error) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.settledLocked() {
		return false
	}

	l.err = err
	close(l.done)
	return true
}

// Done returns a channel that is closed once the latch settles. It is safe
// to call before or after settlement.
func (l *Latch[T]) Done() <-chan struct{} {
	return l.done
}

// Wait blocks until the latch settles or the context is canceled. It returns
// the settled value or error; a context error means the latch itself is
// still unsettled.
func (l *Latch[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-l.done:
		return l.get()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// TryGet returns the settled outcome without blocking. The boolean reports
// whether the latch has settled.
func (l *Latch[T]) TryGet() (T, bool, error) {
	select {
	case <-l.done:
		v, err := l.get()
		return v, true, err
	default:
		var zero T
		return zero, false, nil
	}
}

// Settled returns true if the latch has been completed or failed.
func (l *Latch[T]) Settled() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

func (l *Latch[T]) get() (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value, l.err
}

func (l *Latch[T]) settledLocked() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}
