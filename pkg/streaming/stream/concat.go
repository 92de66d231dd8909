package stream

import (
	"context"
	"errors"
	"io"
	"sync"

	siocontext "github.com/vnykmshr/streamio/pkg/common/context"
	sioerrors "github.com/vnykmshr/streamio/pkg/common/errors"
	"github.com/vnykmshr/streamio/pkg/streaming/latch"
)

// ConcatReader flattens a lazily-produced sequence of readers into one.
// The continuation producing the next reader is forced only after the
// current head reports EOF, so infinite or side-effecting sequences are
// safe to compose. Discard forwards to the current head only and never
// forces the continuation.
type ConcatReader[T any] struct {
	mu      sync.Mutex
	head    Reader[T]
	next    func() (Reader[T], bool)
	reading bool
	state   readerState
	err     error
	onClose *latch.Latch[Termination]
}

// Concat creates a Reader over a lazy sequence of readers. next is called
// once per advance, only when the previous reader is exhausted, and never
// again after it reports exhaustion. next must not block: it runs under the
// reader's lock.
func Concat[T any](next func() (Reader[T], bool)) *ConcatReader[T] {
	return &ConcatReader[T]{
		next:    next,
		onClose: latch.New[Termination](),
	}
}

// ConcatReaders creates a Reader over a fixed sequence of readers.
func ConcatReaders[T any](rs ...Reader[T]) *ConcatReader[T] {
	i := 0
	return Concat(func() (Reader[T], bool) {
		if i >= len(rs) {
			return nil, false
		}
		r := rs[i]
		i++
		return r, true
	})
}

// Read delegates to the current head, advancing to the next reader when the
// head is exhausted.
func (r *ConcatReader[T]) Read(ctx context.Context, max int) ([]T, error) {
	if siocontext.IsCanceled(ctx) {
		return nil, ctx.Err()
	}
	if max <= 0 {
		return nil, sioerrors.ErrInvalidConfiguration
	}

	r.mu.Lock()
	switch r.state {
	case stateDiscarded:
		r.mu.Unlock()
		return nil, sioerrors.ErrDiscarded
	case stateFullyRead:
		r.mu.Unlock()
		return nil, io.EOF
	case stateFailed:
		err := r.err
		r.mu.Unlock()
		return nil, err
	}
	if r.reading {
		r.mu.Unlock()
		return nil, sioerrors.ErrConcurrentRead
	}
	r.reading = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.reading = false
		r.mu.Unlock()
	}()

	for {
		r.mu.Lock()
		if r.state == stateDiscarded {
			r.mu.Unlock()
			return nil, sioerrors.ErrDiscarded
		}
		if r.head == nil {
			nh, ok := r.next()
			if !ok {
				r.state = stateFullyRead
				r.onClose.Complete(FullyRead)
				r.mu.Unlock()
				return nil, io.EOF
			}
			r.head = nh
		}
		head := r.head
		r.mu.Unlock()

		chunk, err := head.Read(ctx, max)
		switch {
		case err == nil:
			return chunk, nil

		case err == io.EOF:
			r.mu.Lock()
			if r.state == stateDiscarded {
				r.mu.Unlock()
				return nil, sioerrors.ErrDiscarded
			}
			r.head = nil
			r.mu.Unlock()

		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			// The wait was abandoned; the stream itself is unaffected.
			return nil, err

		case sioerrors.IsUsage(err):
			return nil, err

		default:
			r.mu.Lock()
			if r.state == stateDiscarded {
				r.mu.Unlock()
				return nil, sioerrors.ErrDiscarded
			}
			r.state = stateFailed
			r.err = err
			r.mu.Unlock()
			return nil, err
		}
	}
}

// Discard cancels the combined reader, forwarding to the current head.
func (r *ConcatReader[T]) Discard() {
	r.mu.Lock()
	switch r.state {
	case stateFullyRead, stateDiscarded, stateFailed:
		r.mu.Unlock()
		return
	}
	head := r.head
	r.state = stateDiscarded
	r.onClose.Complete(Discarded)
	r.mu.Unlock()

	if head != nil {
		head.Discard()
	}
}

// OnClose returns the latch settled with the reader's termination reason.
func (r *ConcatReader[T]) OnClose() *latch.Latch[Termination] {
	return r.onClose
}
