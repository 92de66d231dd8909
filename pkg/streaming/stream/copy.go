package stream

import (
	"context"
	"io"
	"time"

	"github.com/vnykmshr/streamio/pkg/common/validation"
	"github.com/vnykmshr/streamio/pkg/metrics"
)

// DefaultChunkSize is the per-read element budget used when a copy config
// does not specify one.
const DefaultChunkSize = 4096

// CopyConfig holds configuration options for CopyWithConfig.
type CopyConfig struct {
	// ChunkSize is the maximum number of elements requested per read.
	// Default: DefaultChunkSize.
	ChunkSize int

	// Name labels the copy in metrics.
	// Default: "copy".
	Name string

	// Metrics configures throughput instrumentation.
	// Default: disabled.
	Metrics metrics.Config
}

// DefaultCopyConfig returns a default copy configuration.
func DefaultCopyConfig() CopyConfig {
	return CopyConfig{
		ChunkSize: DefaultChunkSize,
		Name:      "copy",
		Metrics:   metrics.Config{Enabled: false},
	}
}

// Copy pumps src into dst until src is exhausted, one chunk in flight at a
// time: each write is acknowledged before the next read is issued. On EOF it
// returns nil. A failure from either side aborts the copy and is returned
// verbatim; Copy neither discards src nor closes dst, so the caller decides
// how to release both.
func Copy[T any](ctx context.Context, dst Writer[T], src Reader[T], chunkSize int) error {
	if err := validation.ValidatePositive("stream", "chunkSize", chunkSize); err != nil {
		return err
	}
	return runCopy(ctx, dst, src, chunkSize, nil, "")
}

// CopyWithConfig is Copy with an explicit configuration, optionally
// recording chunk, item and duration metrics.
func CopyWithConfig[T any](ctx context.Context, dst Writer[T], src Reader[T], config CopyConfig) error {
	if config.ChunkSize <= 0 {
		config.ChunkSize = DefaultChunkSize
	}
	if config.Name == "" {
		config.Name = "copy"
	}

	if !config.Metrics.Enabled {
		return runCopy(ctx, dst, src, config.ChunkSize, nil, "")
	}

	registry := metrics.RegistryFor(config.Metrics)

	start := time.Now()
	err := runCopy(ctx, dst, src, config.ChunkSize, registry, config.Name)
	registry.CopyDuration.WithLabelValues(config.Name).Observe(time.Since(start).Seconds())
	return err
}

func runCopy[T any](ctx context.Context, dst Writer[T], src Reader[T], chunkSize int, registry *metrics.Registry, name string) error {
	for {
		chunk, err := src.Read(ctx, chunkSize)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if err := dst.Write(ctx, chunk); err != nil {
			return err
		}

		if registry != nil {
			registry.CopyChunks.WithLabelValues(name).Inc()
			registry.CopyItems.WithLabelValues(name).Add(float64(len(chunk)))
		}
	}
}
