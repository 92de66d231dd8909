/*
Package stream defines the pull/push streaming contracts and the standard
ways of producing and pumping streams.

Core Concepts:

A Reader is a pull-based, lazy source of element chunks; a Writer is a
push-based sink that acknowledges each chunk. Both follow strict lifecycle
rules:

  - Terminal states are sticky: once a reader reports EOF, discard, or a
    failure, every later operation reports the same outcome.
  - One operation in flight: a second concurrent Read (or Write) on one
    instance fails fast instead of queuing.
  - Cancellation is cooperative: Discard never interrupts work in progress;
    it guarantees that all observable operations report errors.ErrDiscarded
    so each side can release resources on its own schedule.
  - OnClose settles exactly once, to FullyRead or Discarded, and never on
    failure.

Creating Readers:

	// From a slice or pull function
	r := stream.FromSlice([]int{1, 2, 3})
	r := stream.FromIterator(next)

	// From one pre-materialized chunk
	r := stream.NewBuf(chunk)

	// From a blocking resource; closed exactly once on EOF, discard or failure
	r, err := stream.NewBlocking(file, 32*1024)

	// By lazy concatenation; the continuation is forced only when the
	// current head is exhausted
	r := stream.Concat(nextReader)
	r := stream.ConcatReaders(a, b, c)

Pumping:

	// One chunk in flight end-to-end; the caller keeps ownership of both ends
	err := stream.Copy(ctx, dst, src, 4096)

Instrumentation:

	r = stream.NewMetricsReader(r, "ingest", metricsConfig)
	w = stream.NewMetricsWriter(w, "egress", metricsConfig)

Routing:

	// Stable fan-out over a fixed writer set by keyed hash
	w, err := stream.NewPartition(writers, keyFunc)

Retry, timeout and circuit breaking are not implemented at this layer;
compose them with contexts around Read, Write and Copy.
*/
package stream
