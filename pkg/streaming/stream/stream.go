package stream

import (
	"context"

	"github.com/vnykmshr/streamio/pkg/streaming/latch"
)

// readerState is the lifecycle of a reader instance. Terminal states
// (fullyRead, discarded, failed) are never left; every later operation
// reports the same terminal outcome.
type readerState int

const (
	stateIdle readerState = iota
	stateReading
	stateFullyRead
	stateDiscarded
	stateFailed
)

// Termination describes why a stream reached its end state.
type Termination int

const (
	// FullyRead means the consumer drained the stream to its natural end.
	FullyRead Termination = iota + 1

	// Discarded means the consumer cancelled the stream before its end.
	Discarded
)

// String returns a human-readable name for the termination reason.
func (t Termination) String() string {
	switch t {
	case FullyRead:
		return "fully-read"
	case Discarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// Reader is a pull-based, lazy source of element chunks.
//
// Read returns the next chunk, never larger than max elements. End of
// stream is reported as (nil, io.EOF) and is idempotent: once observed,
// every later Read reports it again without touching the underlying
// source. At most one Read may be outstanding per instance; an overlapping
// Read fails immediately with errors.ErrConcurrentRead and leaves the
// outstanding call unaffected. After Discard, Read fails with
// errors.ErrDiscarded. A failure of the underlying source is sticky: the
// same error is returned by every later Read.
//
// Read blocks the calling goroutine until a chunk is available or ctx is
// canceled; cancellation abandons the wait but never corrupts the stream.
//
// Discard requests cooperative cancellation. It is idempotent, never
// blocks, and is a no-op once the reader is in a terminal state.
//
// OnClose settles exactly once, to FullyRead or Discarded, whichever
// terminal state is reached first. It never settles on failure; failures
// surface through Read.
type Reader[T any] interface {
	Read(ctx context.Context, max int) ([]T, error)
	Discard()
	OnClose() *latch.Latch[Termination]
}

// Writer is a push-based sink of element chunks.
//
// Write returns once the chunk has been fully accepted by the consumer
// side; this is the backpressure contract: a producer must let the
// previous Write return before issuing the next. Empty chunks are accepted
// immediately. An overlapping Write fails with errors.ErrConcurrentWrite.
//
// Close signals that no more data will be written; the paired reader
// observes io.EOF. Close is idempotent.
//
// Fail aborts the stream: the pending operation on the paired side, and
// every later operation, reports err. Fail never blocks.
type Writer[T any] interface {
	Write(ctx context.Context, chunk []T) error
	Close() error
	Fail(err error)
}
