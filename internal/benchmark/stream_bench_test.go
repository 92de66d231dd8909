package benchmark

import (
	"context"
	"testing"

	"github.com/vnykmshr/streamio/internal/testutil"
	"github.com/vnykmshr/streamio/pkg/hashing"
	"github.com/vnykmshr/streamio/pkg/streaming/stream"
)

// BenchmarkIteratorDrain measures pulling a materialized source dry.
func BenchmarkIteratorDrain(b *testing.B) {
	sizes := []int{100, 1000, 10000}

	for _, size := range sizes {
		data := make([]int, size)
		for i := range data {
			data[i] = i
		}

		b.Run(sizeLabel(size), func(b *testing.B) {
			ctx := context.Background()

			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				r := stream.FromSlice(data)
				_, _ = testutil.Drain[int](ctx, r, 64)
			}
		})
	}
}

// BenchmarkCopy measures the pump loop end to end for varying chunk sizes.
func BenchmarkCopy(b *testing.B) {
	data := make([]int, 4096)
	for i := range data {
		data[i] = i
	}

	chunkSizes := []int{16, 256, 4096}
	for _, chunkSize := range chunkSizes {
		b.Run(sizeLabel(chunkSize), func(b *testing.B) {
			ctx := context.Background()

			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				src := stream.FromSlice(data)
				dst := testutil.NewChunkRecorder[int]()
				_ = stream.Copy[int](ctx, dst, src, chunkSize)
			}
		})
	}
}

// BenchmarkConcatDrain measures lazy concatenation overhead per segment.
func BenchmarkConcatDrain(b *testing.B) {
	segment := make([]int, 64)

	segments := []int{4, 16, 64}
	for _, n := range segments {
		b.Run(sizeLabel(n), func(b *testing.B) {
			ctx := context.Background()

			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				remaining := n
				r := stream.Concat(func() (stream.Reader[int], bool) {
					if remaining == 0 {
						return nil, false
					}
					remaining--
					return stream.NewBuf(segment), true
				})
				_, _ = testutil.Drain[int](ctx, r, 64)
			}
		})
	}
}

// nullWriter accepts and drops every chunk, keeping routing benchmarks free
// of recording overhead.
type nullWriter[T any] struct{}

func (nullWriter[T]) Write(context.Context, []T) error { return nil }
func (nullWriter[T]) Close() error                     { return nil }
func (nullWriter[T]) Fail(error)                       {}

// BenchmarkPartitionRouting measures keyed routing over a writer set.
func BenchmarkPartitionRouting(b *testing.B) {
	keys := make([][]byte, 1024)
	for i := range keys {
		keys[i] = []byte{byte(i), byte(i >> 8)}
	}

	b.Run("hash", func(b *testing.B) {
		hasher := hashing.NewHasher(nil)

		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = hasher.Partition(keys[i%len(keys)], 16)
		}
	})

	b.Run("write", func(b *testing.B) {
		writers := make([]stream.Writer[byte], 8)
		for i := range writers {
			writers[i] = nullWriter[byte]{}
		}
		w, err := stream.NewPartition(writers, func(chunk []byte) []byte { return chunk[:1] })
		if err != nil {
			b.Fatal(err)
		}

		ctx := context.Background()
		chunk := []byte{1, 2, 3, 4}

		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			chunk[0] = byte(i)
			_ = w.Write(ctx, chunk)
		}
	})
}
