package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for streamio components.
type Registry struct {
	// Reader/Writer Metrics
	StreamReads      *prometheus.CounterVec
	StreamReadItems  *prometheus.CounterVec
	StreamWrites     *prometheus.CounterVec
	StreamWriteItems *prometheus.CounterVec
	StreamErrors     *prometheus.CounterVec
	StreamDiscards   *prometheus.CounterVec

	// Copy Metrics
	CopyChunks   *prometheus.CounterVec
	CopyItems    *prometheus.CounterVec
	CopyDuration *prometheus.HistogramVec

	// Pipe Metrics
	PipeHandoffs      *prometheus.CounterVec
	PipeBlockedWrites *prometheus.CounterVec
	PipeBlockedReads  *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by streamio components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// RegistryFor returns the Registry backing config: the shared DefaultRegistry
// unless config names a custom registerer. Registering the streamio families
// twice on one registerer panics, so components must route default-registry
// configs through the shared instance.
func RegistryFor(config Config) *Registry {
	if config.Registry == nil || config.Registry == prometheus.DefaultRegisterer {
		return DefaultRegistry
	}
	return NewRegistry(config.Registry)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		StreamReads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "streamio",
				Subsystem: "stream",
				Name:      "reads_total",
				Help:      "Total number of read operations",
			},
			[]string{"stream_name"},
		),

		StreamReadItems: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "streamio",
				Subsystem: "stream",
				Name:      "read_items_total",
				Help:      "Total number of items delivered by reads",
			},
			[]string{"stream_name"},
		),

		StreamWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "streamio",
				Subsystem: "stream",
				Name:      "writes_total",
				Help:      "Total number of write operations",
			},
			[]string{"stream_name"},
		),

		StreamWriteItems: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "streamio",
				Subsystem: "stream",
				Name:      "write_items_total",
				Help:      "Total number of items accepted by writes",
			},
			[]string{"stream_name"},
		),

		StreamErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "streamio",
				Subsystem: "stream",
				Name:      "errors_total",
				Help:      "Total number of stream operation errors",
			},
			[]string{"operation", "stream_name"},
		),

		StreamDiscards: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "streamio",
				Subsystem: "stream",
				Name:      "discards_total",
				Help:      "Total number of consumer-initiated discards",
			},
			[]string{"stream_name"},
		),

		CopyChunks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "streamio",
				Subsystem: "copy",
				Name:      "chunks_total",
				Help:      "Total number of chunks pumped by copiers",
			},
			[]string{"copier_name"},
		),

		CopyItems: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "streamio",
				Subsystem: "copy",
				Name:      "items_total",
				Help:      "Total number of items pumped by copiers",
			},
			[]string{"copier_name"},
		),

		CopyDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "streamio",
				Subsystem: "copy",
				Name:      "duration_seconds",
				Help:      "Time spent in complete copy operations",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"copier_name"},
		),

		PipeHandoffs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "streamio",
				Subsystem: "pipe",
				Name:      "handoffs_total",
				Help:      "Total number of chunk handoffs between producer and consumer",
			},
			[]string{"pipe_name"},
		),

		PipeBlockedWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "streamio",
				Subsystem: "pipe",
				Name:      "blocked_writes_total",
				Help:      "Total number of writes that had to wait for a reader",
			},
			[]string{"pipe_name"},
		),

		PipeBlockedReads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "streamio",
				Subsystem: "pipe",
				Name:      "blocked_reads_total",
				Help:      "Total number of reads that had to wait for a writer",
			},
			[]string{"pipe_name"},
		),
	}
}
