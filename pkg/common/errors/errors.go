package errors

import "errors"

// Common error types used across the streamio library

var (
	// ErrDiscarded indicates that a stream was cancelled by its consumer.
	// It is an expected control-flow signal, not a bug: producers observing
	// it should release their resources and stop.
	ErrDiscarded = errors.New("stream discarded")

	// ErrConcurrentRead indicates that a read was issued while another read
	// on the same reader was still outstanding
	ErrConcurrentRead = errors.New("read already in progress")

	// ErrConcurrentWrite indicates that a write was issued while another
	// write on the same writer was still outstanding
	ErrConcurrentWrite = errors.New("write already in progress")

	// ErrClosed indicates that an operation was attempted on a closed resource
	ErrClosed = errors.New("resource is closed")

	// ErrInvalidConfiguration indicates invalid configuration parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// IsDiscarded returns true if the error is the cooperative cancellation
// signal propagated from a discarded stream
func IsDiscarded(err error) bool {
	return errors.Is(err, ErrDiscarded)
}

// IsUsage returns true if the error indicates caller misuse (overlapping
// operations on a single instance); such errors are programming bugs and
// are not recoverable by retrying
func IsUsage(err error) bool {
	return errors.Is(err, ErrConcurrentRead) || errors.Is(err, ErrConcurrentWrite)
}
