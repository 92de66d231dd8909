package testutil

import (
	"context"
	"io"
	"sync"

	"github.com/vnykmshr/streamio/pkg/streaming/stream"
)

// CountingCloser wraps an io.Reader and counts Close calls. It verifies the
// exactly-once cleanup guarantee of blocking-source readers.
type CountingCloser struct {
	io.Reader
	mu     sync.Mutex
	closes int
}

// NewCountingCloser creates a CountingCloser over r.
func NewCountingCloser(r io.Reader) *CountingCloser {
	return &CountingCloser{Reader: r}
}

// Close implements io.Closer, counting each call.
func (c *CountingCloser) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closes++
	return nil
}

// CloseCount returns the number of Close calls so far.
func (c *CountingCloser) CloseCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes
}

// FlakyReader is an io.Reader that serves from a payload and then fails
// with a configured error instead of reporting EOF.
type FlakyReader struct {
	mu      sync.Mutex
	payload []byte
	err     error
}

// NewFlakyReader creates a reader that yields payload and then fails with err.
func NewFlakyReader(payload []byte, err error) *FlakyReader {
	return &FlakyReader{payload: payload, err: err}
}

// Read implements io.Reader.
func (f *FlakyReader) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.payload) == 0 {
		return 0, f.err
	}
	n := copy(p, f.payload)
	f.payload = f.payload[n:]
	return n, nil
}

// GatedReader is an io.Reader whose reads block until released, simulating
// a slow blocking resource. Closing it unblocks any in-flight read with
// io.ErrClosedPipe, the way closing a file or socket does.
type GatedReader struct {
	payload []byte
	gate    chan struct{}
	started chan struct{}
	done    chan struct{}
	once    sync.Once
	mu      sync.Mutex
}

// NewGatedReader creates a GatedReader over payload.
func NewGatedReader(payload []byte) *GatedReader {
	return &GatedReader{
		payload: payload,
		gate:    make(chan struct{}, 16),
		started: make(chan struct{}, 16),
		done:    make(chan struct{}),
	}
}

// Release unblocks one pending or future read.
func (g *GatedReader) Release() {
	g.gate <- struct{}{}
}

// Started signals once per Read call, as the call begins blocking. Tests use
// it to know a reader has reached the source without poking at the source
// themselves.
func (g *GatedReader) Started() <-chan struct{} {
	return g.started
}

// Read blocks until Release or Close is called.
func (g *GatedReader) Read(p []byte) (int, error) {
	select {
	case g.started <- struct{}{}:
	default:
	}
	select {
	case <-g.gate:
	case <-g.done:
		return 0, io.ErrClosedPipe
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.payload) == 0 {
		return 0, io.EOF
	}
	n := copy(p, g.payload)
	g.payload = g.payload[n:]
	return n, nil
}

// Close implements io.Closer, unblocking pending reads.
func (g *GatedReader) Close() error {
	g.once.Do(func() { close(g.done) })
	return nil
}

// ChunkRecorder is a stream.Writer that records every chunk it accepts.
type ChunkRecorder[T any] struct {
	mu     sync.Mutex
	chunks [][]T
	closed bool
	failed error
}

// NewChunkRecorder creates an empty recorder.
func NewChunkRecorder[T any]() *ChunkRecorder[T] {
	return &ChunkRecorder[T]{}
}

// Write implements stream.Writer, accepting every chunk immediately.
func (r *ChunkRecorder[T]) Write(_ context.Context, chunk []T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := make([]T, len(chunk))
	copy(c, chunk)
	r.chunks = append(r.chunks, c)
	return nil
}

// Close implements stream.Writer.
func (r *ChunkRecorder[T]) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Fail implements stream.Writer.
func (r *ChunkRecorder[T]) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = err
}

// Chunks returns the recorded chunks in write order.
func (r *ChunkRecorder[T]) Chunks() [][]T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.chunks
}

// Items returns all recorded elements concatenated in write order.
func (r *ChunkRecorder[T]) Items() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []T
	for _, c := range r.chunks {
		out = append(out, c...)
	}
	return out
}

// Closed reports whether Close was called.
func (r *ChunkRecorder[T]) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Failed returns the error passed to Fail, if any.
func (r *ChunkRecorder[T]) Failed() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failed
}

// Drain reads r to EOF and returns all delivered elements in order.
func Drain[T any](ctx context.Context, r stream.Reader[T], chunkSize int) ([]T, error) {
	var out []T
	for {
		chunk, err := r.Read(ctx, chunkSize)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, chunk...)
	}
}
