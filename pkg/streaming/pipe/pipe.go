package pipe

import (
	"context"
	"io"
	"sync"

	siocontext "github.com/vnykmshr/streamio/pkg/common/context"
	sioerrors "github.com/vnykmshr/streamio/pkg/common/errors"
	"github.com/vnykmshr/streamio/pkg/metrics"
	"github.com/vnykmshr/streamio/pkg/streaming/latch"
	"github.com/vnykmshr/streamio/pkg/streaming/stream"
)

// pipeState is the rendezvous state machine. At most one pending writer and
// one pending reader exist at any time; terminal states are never left.
type pipeState int

const (
	stateIdle pipeState = iota
	statePendingWrite
	statePendingRead
	stateClosed
	stateDiscarded
	stateFailed
)

// Pipe is an in-process, unbuffered, single-producer/single-consumer
// handoff implementing both stream.Reader and stream.Writer. See the
// package documentation for the full contract.
type Pipe[T any] struct {
	mu      sync.Mutex
	state   pipeState
	closing bool // Close arrived while a write was pending; drain, then EOF

	chunk []T                    // pending write payload
	ack   *latch.Latch[struct{}] // pending write acknowledgement
	recv  *latch.Latch[[]T]      // pending read result; nil payload means EOF

	err     error // sticky failure
	onClose *latch.Latch[stream.Termination]

	// metrics, nil registry when disabled
	name     string
	registry *metrics.Registry
}

// New creates an empty pipe in the idle state.
func New[T any]() *Pipe[T] {
	return &Pipe[T]{
		onClose: latch.New[stream.Termination](),
	}
}

// NewWithMetrics creates a pipe that records handoffs and blocked
// operations under the given name.
func NewWithMetrics[T any](name string, config metrics.Config) *Pipe[T] {
	p := New[T]()
	if !config.Enabled {
		return p
	}

	p.name = name
	p.registry = metrics.RegistryFor(config)
	return p
}

// Read returns the next chunk written to the pipe, blocking until a
// producer supplies one, the pipe is closed (io.EOF), discarded
// (errors.ErrDiscarded) or failed. A pending write's chunk is handed over
// whole regardless of max: the rendezvous holds at most one chunk, and
// splitting it would require buffering the remainder.
//
// If ctx is canceled while the read is parked, the read is withdrawn --
// unless a handoff has already completed, in which case the handed-over
// chunk is returned and the cancellation is ignored.
func (p *Pipe[T]) Read(ctx context.Context, max int) ([]T, error) {
	if siocontext.IsCanceled(ctx) {
		return nil, ctx.Err()
	}
	if max <= 0 {
		return nil, sioerrors.ErrInvalidConfiguration
	}

	p.mu.Lock()
	switch p.state {
	case stateFailed:
		err := p.err
		p.mu.Unlock()
		return nil, err

	case stateDiscarded:
		p.mu.Unlock()
		return nil, sioerrors.ErrDiscarded

	case stateClosed:
		p.mu.Unlock()
		return nil, io.EOF

	case statePendingRead:
		p.mu.Unlock()
		return nil, sioerrors.ErrConcurrentRead

	case statePendingWrite:
		chunk, ack := p.chunk, p.ack
		p.chunk, p.ack = nil, nil
		if p.closing {
			p.closing = false
			p.state = stateClosed
			p.onClose.Complete(stream.FullyRead)
		} else {
			p.state = stateIdle
		}
		p.countHandoff()
		p.mu.Unlock()

		ack.Complete(struct{}{})
		return chunk, nil
	}

	// Idle: park until a writer arrives.
	recv := latch.New[[]T]()
	p.recv = recv
	p.state = statePendingRead
	p.countBlockedRead()
	p.mu.Unlock()

	if _, err := recv.Wait(ctx); err != nil && !recv.Settled() {
		// Context cancellation: withdraw the read unless the handoff wins
		// the race to the lock.
		p.mu.Lock()
		if p.state == statePendingRead && p.recv == recv && !recv.Settled() {
			p.recv = nil
			p.state = stateIdle
			p.mu.Unlock()
			return nil, err
		}
		p.mu.Unlock()
	}

	// The pipe settled the read: a handoff, EOF, discard or failure.
	chunk, _, err := recv.TryGet()
	if err != nil {
		return nil, err
	}
	if chunk == nil {
		return nil, io.EOF
	}
	return chunk, nil
}

// Write hands chunk to the pipe's consumer, blocking until a read takes it.
// Empty chunks are accepted immediately without a handoff. Writing to a
// closed pipe fails with errors.ErrClosed; writing to a discarded pipe
// fails with errors.ErrDiscarded so the producer can release its resources.
//
// If ctx is canceled while the write is parked, the write is withdrawn --
// unless the chunk has already been handed to a reader, in which case the
// write reports success.
func (p *Pipe[T]) Write(ctx context.Context, chunk []T) error {
	if siocontext.IsCanceled(ctx) {
		return ctx.Err()
	}
	if len(chunk) == 0 {
		return nil
	}

	p.mu.Lock()
	switch p.state {
	case stateFailed:
		err := p.err
		p.mu.Unlock()
		return err

	case stateDiscarded:
		p.mu.Unlock()
		return sioerrors.ErrDiscarded

	case stateClosed:
		p.mu.Unlock()
		return sioerrors.ErrClosed

	case statePendingWrite:
		p.mu.Unlock()
		return sioerrors.ErrConcurrentWrite

	case statePendingRead:
		recv := p.recv
		p.recv = nil
		p.state = stateIdle
		p.countHandoff()
		p.mu.Unlock()

		recv.Complete(chunk)
		return nil
	}

	// Idle: park until a reader arrives.
	ack := latch.New[struct{}]()
	p.chunk = chunk
	p.ack = ack
	p.state = statePendingWrite
	p.countBlockedWrite()
	p.mu.Unlock()

	if _, err := ack.Wait(ctx); err != nil && !ack.Settled() {
		// Context cancellation: withdraw the write unless the handoff wins
		// the race to the lock.
		p.mu.Lock()
		if p.state == statePendingWrite && p.ack == ack && !ack.Settled() {
			p.chunk, p.ack = nil, nil
			if p.closing {
				p.closing = false
				p.state = stateClosed
				p.onClose.Complete(stream.FullyRead)
			} else {
				p.state = stateIdle
			}
			p.mu.Unlock()
			return err
		}
		p.mu.Unlock()
	}

	// The pipe settled the ack: success, discard or failure.
	_, _, err := ack.TryGet()
	return err
}

// Close signals that no more data will be written. A parked read observes
// io.EOF immediately; a pending write is allowed to drain before the pipe
// reports EOF. Close is idempotent; closing a discarded or failed pipe
// returns its sticky error.
func (p *Pipe[T]) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case stateFailed:
		return p.err

	case stateDiscarded:
		return sioerrors.ErrDiscarded

	case stateClosed:
		return nil

	case statePendingWrite:
		p.closing = true
		return nil

	case statePendingRead:
		recv := p.recv
		p.recv = nil
		p.state = stateClosed
		p.onClose.Complete(stream.FullyRead)
		recv.Complete(nil)
		return nil

	default: // stateIdle
		p.state = stateClosed
		p.onClose.Complete(stream.FullyRead)
		return nil
	}
}

// Fail aborts the pipe: the pending operation on either side, and every
// later operation, reports err. OnClose never settles on failure. Failing a
// terminal pipe is a no-op.
func (p *Pipe[T]) Fail(err error) {
	p.mu.Lock()
	switch p.state {
	case stateClosed, stateDiscarded, stateFailed:
		p.mu.Unlock()
		return
	}

	ack, recv := p.ack, p.recv
	p.chunk, p.ack, p.recv = nil, nil, nil
	p.closing = false
	p.state = stateFailed
	p.err = err

	// Settle the pending latches under the mutex: a canceled waiter that
	// loses the withdrawal race must find its latch already settled, never a
	// failed pipe with an undelivered outcome.
	if ack != nil {
		ack.Fail(err)
	}
	if recv != nil {
		recv.Fail(err)
	}
	p.mu.Unlock()
}

// Discard is the consumer's cooperative cancellation. A blocked producer's
// pending write is failed with errors.ErrDiscarded; all subsequent reads
// fail the same way. Discarding a terminal pipe is a no-op; a handoff that
// already completed is unaffected.
func (p *Pipe[T]) Discard() {
	p.mu.Lock()
	switch p.state {
	case stateClosed, stateDiscarded, stateFailed:
		p.mu.Unlock()
		return
	}

	ack, recv := p.ack, p.recv
	p.chunk, p.ack, p.recv = nil, nil, nil
	p.closing = false
	p.state = stateDiscarded
	p.onClose.Complete(stream.Discarded)

	// As in Fail, the latches settle under the mutex so the state change and
	// the waiters' outcomes are one atomic step.
	if ack != nil {
		ack.Fail(sioerrors.ErrDiscarded)
	}
	if recv != nil {
		recv.Fail(sioerrors.ErrDiscarded)
	}
	p.mu.Unlock()
}

// OnClose returns the latch settled with the pipe's termination reason:
// stream.FullyRead once the pipe is closed and drained, stream.Discarded
// once the consumer cancels. It never settles on failure.
func (p *Pipe[T]) OnClose() *latch.Latch[stream.Termination] {
	return p.onClose
}

func (p *Pipe[T]) countHandoff() {
	if p.registry != nil {
		p.registry.PipeHandoffs.WithLabelValues(p.name).Inc()
	}
}

func (p *Pipe[T]) countBlockedWrite() {
	if p.registry != nil {
		p.registry.PipeBlockedWrites.WithLabelValues(p.name).Inc()
	}
}

func (p *Pipe[T]) countBlockedRead() {
	if p.registry != nil {
		p.registry.PipeBlockedReads.WithLabelValues(p.name).Inc()
	}
}
