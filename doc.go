/*
Package streamio provides in-process asynchronous streaming primitives for
moving chunks of data between producers and consumers with strict
backpressure.

Streaming (pkg/streaming):
  - stream: Reader/Writer contracts, synchronous-source adapters, lazy
    concatenation, and a one-chunk-in-flight copier
  - pipe: unbuffered rendezvous channel pairing one reader and one writer
  - latch: one-shot completion signal backing close notifications and acks

Supporting packages:
  - pkg/metrics: Prometheus instrumentation for streams, pipes and copies
  - pkg/hashing: keyed hash used to assign chunks to partitions

Example usage:

	import (
		"github.com/vnykmshr/streamio/pkg/streaming/pipe"
		"github.com/vnykmshr/streamio/pkg/streaming/stream"
	)

	p := pipe.New[byte]()
	go func() {
		defer p.Close()
		_ = stream.Copy(ctx, p, stream.FromSlice(data), 1024)
	}()

	chunk, err := p.Read(ctx, 1024) // blocks until the producer hands over a chunk
*/
package streamio
