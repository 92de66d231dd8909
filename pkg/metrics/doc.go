/*
Package metrics provides Prometheus instrumentation for streamio components.

All metrics live in a Registry, created against a prometheus.Registerer.
Components are instrumented by decorator types (see
pkg/streaming/stream.NewMetricsReader and friends) that record into a
Registry; the streaming primitives themselves carry no metrics code.

Basic usage:

	reg := prometheus.NewRegistry()
	cfg := metrics.Config{Enabled: true, Registry: reg}

	r := stream.NewMetricsReader(src, "ingest", cfg)

	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
*/
package metrics
