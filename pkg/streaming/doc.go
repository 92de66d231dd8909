/*
Package streaming provides pull/push streaming abstractions for moving
chunks of data between producers and consumers in-process.

This package provides three main streaming components:

  - stream: Reader and Writer contracts, adapters from synchronous sources,
    lazy concatenation, and a one-chunk-in-flight copier
  - pipe: an unbuffered rendezvous channel pairing one reader and one writer
    with strict backpressure
  - latch: the one-shot completion signal behind close notifications and
    write acknowledgements

Basic usage:

	p := pipe.New[byte]()

	// Producer: pump a source into the pipe, then close it.
	go func() {
		defer p.Close()
		_ = stream.Copy(ctx, p, src, 4096)
	}()

	// Consumer: drain chunks until EOF.
	for {
		chunk, err := p.Read(ctx, 4096)
		if err == io.EOF {
			break
		}
		// ...
	}

Every component reaches its terminal state (fully read, discarded, or
failed) exactly once and reports it identically on every later operation.
*/
package streaming
