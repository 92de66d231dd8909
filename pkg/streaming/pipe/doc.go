/*
Package pipe provides an unbuffered rendezvous channel implementing both the
stream.Reader and stream.Writer contracts.

A Pipe connects exactly one producer to one consumer. It holds no buffer
beyond the single chunk of an in-flight write, which bounds memory to one
chunk and enforces strict backpressure: Write returns only when a read has
taken the chunk, and Read returns only when a write has supplied one.

Concurrent misuse fails fast: a second simultaneous Read returns
errors.ErrConcurrentRead and a second simultaneous Write returns
errors.ErrConcurrentWrite, leaving the first operation unaffected.

Typical usage connects two pipeline stages:

	p := pipe.New[byte]()

	go func() {
		defer p.Close()
		_ = stream.Copy(ctx, p, upstream, 4096)
	}()

	// p is now a Reader for the next stage.

Termination is exactly-once and sticky: once a pipe is closed, discarded or
failed, every later operation reports the same outcome. Discard is the
consumer's cooperative cancellation; it fails a blocked producer's pending
write with errors.ErrDiscarded so the producer can release its resources.
*/
package pipe
