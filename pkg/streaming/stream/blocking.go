package stream

import (
	"context"
	"io"
	"sync"

	siocontext "github.com/vnykmshr/streamio/pkg/common/context"
	sioerrors "github.com/vnykmshr/streamio/pkg/common/errors"
	"github.com/vnykmshr/streamio/pkg/common/validation"
	"github.com/vnykmshr/streamio/pkg/streaming/latch"
)

// BlockingReader adapts a blocking byte source (a file, a socket) to the
// Reader contract. Fetches run on a dedicated goroutine so that Discard can
// fail an outstanding read immediately instead of waiting out the blocking
// call; the underlying resource is closed exactly once, whichever of EOF,
// discard, or source failure happens first.
//
// Closing the resource is also what unblocks an in-flight fetch for most
// sources, so a discarded BlockingReader releases its goroutine promptly.
type BlockingReader struct {
	src       io.ReadCloser
	chunkSize int

	mu        sync.Mutex
	state     readerState
	err       error  // sticky source failure
	drained   bool   // source reported EOF alongside its final chunk
	stash     []byte // chunk resolved after its waiter abandoned
	abandoned bool
	pending   *latch.Latch[[]byte]

	reqs     chan fetchRequest
	quit     chan struct{}
	quitOnce sync.Once

	closeOnce sync.Once
	onClose   *latch.Latch[Termination]
}

type fetchRequest struct {
	max    int
	result *latch.Latch[[]byte]
}

// NewBlocking creates a Reader over src that fetches up to chunkSize bytes
// per read. The reader owns src and closes it exactly once.
func NewBlocking(src io.ReadCloser, chunkSize int) (*BlockingReader, error) {
	if src == nil {
		return nil, validation.ValidateNotNil("stream", "src", nil)
	}
	if err := validation.ValidatePositive("stream", "chunkSize", chunkSize); err != nil {
		return nil, err
	}

	r := &BlockingReader{
		src:       src,
		chunkSize: chunkSize,
		reqs:      make(chan fetchRequest, 1),
		quit:      make(chan struct{}),
		onClose:   latch.New[Termination](),
	}
	go r.fetchLoop()
	return r, nil
}

// Read returns the next chunk of up to max bytes (capped at the reader's
// chunk size). If ctx is canceled while the fetch is in flight, the wait is
// abandoned but the fetch stays outstanding; until it resolves, further
// reads fail with errors.ErrConcurrentRead. A chunk the fetch resolves
// after the waiter gave up is retained and served to the next read, so no
// data is lost to cancellation.
func (r *BlockingReader) Read(ctx context.Context, max int) ([]byte, error) {
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
	case stateReading:
		r.mu.Unlock()
		return nil, sioerrors.ErrConcurrentRead
	}

	if r.stash != nil {
		chunk := r.stash
		r.stash = nil
		r.mu.Unlock()
		return chunk, nil
	}
	if r.drained {
		r.state = stateFullyRead
		r.onClose.Complete(FullyRead)
		r.stopLoop()
		r.mu.Unlock()
		return nil, io.EOF
	}

	if max > r.chunkSize {
		max = r.chunkSize
	}
	result := latch.New[[]byte]()
	r.pending = result
	r.state = stateReading
	r.mu.Unlock()

	// Capacity 1 and the single-outstanding-read invariant make this send
	// non-blocking.
	r.reqs <- fetchRequest{max: max, result: result}

	chunk, err := result.Wait(ctx)
	if err != nil && !result.Settled() {
		r.mu.Lock()
		if r.state == stateReading && r.pending == result {
			// Fetch still outstanding; its outcome will be stashed.
			r.abandoned = true
			r.mu.Unlock()
			return nil, err
		}
		r.mu.Unlock()
	}
	if err != nil {
		// The fetch resolved as the context fired; the real outcome stands.
		chunk, _, err = result.TryGet()
		if err != nil {
			return nil, err
		}
	}
	if chunk == nil {
		return nil, io.EOF
	}
	return chunk, nil
}

// Discard cancels the reader, fails any outstanding read with
// errors.ErrDiscarded, and closes the underlying resource. Discarding a
// terminal reader is a no-op.
func (r *BlockingReader) Discard() {
	r.mu.Lock()
	switch r.state {
	case stateFullyRead, stateDiscarded, stateFailed:
		r.mu.Unlock()
		return
	case stateReading:
		if r.pending != nil {
			r.pending.Fail(sioerrors.ErrDiscarded)
			r.pending = nil
		}
	}
	r.state = stateDiscarded
	r.onClose.Complete(Discarded)
	r.stopLoop()
	r.mu.Unlock()

	r.closeResource()
}

// OnClose returns the latch settled with the reader's termination reason.
func (r *BlockingReader) OnClose() *latch.Latch[Termination] {
	return r.onClose
}

func (r *BlockingReader) fetchLoop() {
	for {
		select {
		case req := <-r.reqs:
			r.fetch(req)
		case <-r.quit:
			return
		}
	}
}

func (r *BlockingReader) fetch(req fetchRequest) {
	buf := make([]byte, req.max)
	var n int
	var err error
	for {
		n, err = r.src.Read(buf)
		if n > 0 || err != nil {
			break
		}
		// A Read of (0, nil) reports nothing happened; try again.
	}
	r.settle(buf[:n], err, req.result)
}

// settle applies a fetch outcome to the state machine. If the reader was
// discarded while the fetch was in flight, the outcome is dropped: the
// pending latch has already been failed and the resource closed.
func (r *BlockingReader) settle(chunk []byte, err error, result *latch.Latch[[]byte]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != stateReading {
		return
	}
	r.pending = nil
	abandoned := r.abandoned
	r.abandoned = false

	switch {
	case err == nil:
		r.state = stateIdle
		if abandoned {
			r.stash = chunk
		}
		result.Complete(chunk)

	case err == io.EOF && len(chunk) > 0:
		// Final chunk delivered with EOF: release the resource now, report
		// EOF on the next read.
		r.drained = true
		r.state = stateIdle
		if abandoned {
			r.stash = chunk
		}
		r.closeResource()
		result.Complete(chunk)

	case err == io.EOF:
		r.state = stateFullyRead
		r.onClose.Complete(FullyRead)
		r.stopLoop()
		r.closeResource()
		result.Complete(nil)

	default:
		r.err = err
		r.state = stateFailed
		r.stopLoop()
		r.closeResource()
		result.Fail(err)
	}
}

func (r *BlockingReader) closeResource() {
	r.closeOnce.Do(func() {
		_ = r.src.Close()
	})
}

func (r *BlockingReader) stopLoop() {
	r.quitOnce.Do(func() {
		close(r.quit)
	})
}
