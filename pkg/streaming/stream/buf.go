package stream

import (
	"context"
	"io"
	"sync"

	siocontext "github.com/vnykmshr/streamio/pkg/common/context"
	sioerrors "github.com/vnykmshr/streamio/pkg/common/errors"
	"github.com/vnykmshr/streamio/pkg/streaming/latch"
)

// BufReader wraps one pre-materialized chunk as a one-shot Reader: each
// read serves up to max elements from the chunk and retains the remainder;
// once exhausted it reports io.EOF permanently.
type BufReader[T any] struct {
	mu      sync.Mutex
	rest    []T
	state   readerState
	onClose *latch.Latch[Termination]
}

// NewBuf creates a Reader over a single chunk. The chunk is not copied.
func NewBuf[T any](chunk []T) *BufReader[T] {
	return &BufReader[T]{
		rest:    chunk,
		onClose: latch.New[Termination](),
	}
}

// Read returns up to max elements of the remaining chunk.
func (r *BufReader[T]) Read(ctx context.Context, max int) ([]T, error) {
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

	if len(r.rest) == 0 {
		r.state = stateFullyRead
		r.onClose.Complete(FullyRead)
		return nil, io.EOF
	}

	n := max
	if n > len(r.rest) {
		n = len(r.rest)
	}
	chunk := r.rest[:n]
	r.rest = r.rest[n:]
	return chunk, nil
}

// Discard cancels the reader before exhaustion; afterwards it is a no-op.
func (r *BufReader[T]) Discard() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != stateIdle {
		return
	}
	r.state = stateDiscarded
	r.rest = nil
	r.onClose.Complete(Discarded)
}

// OnClose returns the latch settled with the reader's termination reason.
func (r *BufReader[T]) OnClose() *latch.Latch[Termination] {
	return r.onClose
}
