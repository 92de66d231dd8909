package stream

import (
	"context"

	"github.com/vnykmshr/streamio/pkg/common/validation"
	"github.com/vnykmshr/streamio/pkg/hashing"
)

// PartitionWriter routes each chunk to one of a fixed set of writers,
// chosen by a stable keyed hash of the chunk's key. Chunks with equal keys
// always land on the same partition. Close and Fail broadcast to every
// partition.
//
// Backpressure is per partition: Write returns once the chosen partition's
// writer has acknowledged the chunk.
type PartitionWriter[T any] struct {
	writers []Writer[T]
	key     func(chunk []T) []byte
	hasher  *hashing.Hasher
}

// NewPartition creates a PartitionWriter over the given writers. key
// extracts the routing key from a chunk.
func NewPartition[T any](writers []Writer[T], key func(chunk []T) []byte) (*PartitionWriter[T], error) {
	return NewPartitionWithSeed(writers, key, nil)
}

// NewPartitionWithSeed is NewPartition with a hash seed, letting disjoint
// writer sets use independent distributions over the same keys.
func NewPartitionWithSeed[T any](writers []Writer[T], key func(chunk []T) []byte, seed []byte) (*PartitionWriter[T], error) {
	if err := validation.ValidatePositive("partition", "writers", len(writers)); err != nil {
		return nil, err
	}
	if key == nil {
		return nil, validation.ValidateNotNil("partition", "key", nil)
	}

	return &PartitionWriter[T]{
		writers: writers,
		key:     key,
		hasher:  hashing.NewHasher(seed),
	}, nil
}

// Write routes chunk to its partition and waits for that partition's ack.
func (p *PartitionWriter[T]) Write(ctx context.Context, chunk []T) error {
	idx := p.hasher.Partition(p.key(chunk), len(p.writers))
	return p.writers[idx].Write(ctx, chunk)
}

// Close closes every partition, returning the first error encountered.
func (p *PartitionWriter[T]) Close() error {
	var first error
	for _, w := range p.writers {
		if err := w.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Fail aborts every partition with err.
func (p *PartitionWriter[T]) Fail(err error) {
	for _, w := range p.writers {
		w.Fail(err)
	}
}
