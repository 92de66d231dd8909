package stream

import (
	"context"
	"io"
	"sync"

	siocontext "github.com/vnykmshr/streamio/pkg/common/context"
	sioerrors "github.com/vnykmshr/streamio/pkg/common/errors"
	"github.com/vnykmshr/streamio/pkg/streaming/latch"
)

// IteratorReader adapts a synchronous, in-memory pull sequence to the
// Reader contract. All state transitions happen under a single lock, so
// reads are serialized rather than rejected.
type IteratorReader[T any] struct {
	mu      sync.Mutex
	next    func() (T, bool)
	drained bool // source reported exhaustion; EOF not yet returned
	state   readerState
	onClose *latch.Latch[Termination]
}

// FromIterator creates a Reader over a pull function. next is called once
// per element, only as elements are requested, and never again after it
// reports exhaustion.
func FromIterator[T any](next func() (T, bool)) *IteratorReader[T] {
	return &IteratorReader[T]{
		next:    next,
		onClose: latch.New[Termination](),
	}
}

// FromSlice creates a Reader over the elements of a slice. The slice is not
// copied; callers must not mutate it while the reader is live.
func FromSlice[T any](elems []T) *IteratorReader[T] {
	i := 0
	return FromIterator(func() (T, bool) {
		if i >= len(elems) {
			var zero T
			return zero, false
		}
		v := elems[i]
		i++
		return v, true
	})
}

// Read returns the next chunk of up to max elements, or io.EOF once the
// sequence is exhausted.
func (r *IteratorReader[T]) Read(ctx context.Context, max int) ([]T, error) {
	if siocontext.IsCanceled(ctx) {
		return nil, ctx.Err()
	}
	if max <= 0 {
		return nil, sioerrors.ErrInvalidConfiguration
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case stateDiscarded:
		return nil, sioerrors.ErrDiscarded
	case stateFullyRead:
		return nil, io.EOF
	}

	if r.drained {
		r.state = stateFullyRead
		r.onClose.Complete(FullyRead)
		return nil, io.EOF
	}

	chunk := make([]T, 0, max)
	for len(chunk) < max {
		v, ok := r.next()
		if !ok {
			r.drained = true
			break
		}
		chunk = append(chunk, v)
	}

	if len(chunk) == 0 {
		r.state = stateFullyRead
		r.onClose.Complete(FullyRead)
		return nil, io.EOF
	}
	return chunk, nil
}

// Discard cancels the reader. Only an idle reader transitions; discarding
// an already-terminal reader is a no-op.
func (r *IteratorReader[T]) Discard() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != stateIdle {
		return
	}
	r.state = stateDiscarded
	r.onClose.Complete(Discarded)
}

// OnClose returns the latch settled with the reader's termination reason.
func (r *IteratorReader[T]) OnClose() *latch.Latch[Termination] {
	return r.onClose
}
