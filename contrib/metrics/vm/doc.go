// Package vm provides a VictoriaMetrics-based implementation of
// types.MetricsCollector.
//
// This package uses github.com/VictoriaMetrics/metrics for lightweight,
// Prometheus-compatible metrics collection.
//
// # Basic usage
//
//	collector := vm.New()
//	fetcher := metadata.NewFetcher(factory, metadata.WithMetrics(collector))
//	http.HandleFunc("/metrics", collector.Handler)
//
// # Custom prefix
//
//	collector := vm.New(vm.WithPrefix("routerd"))
//
// # Metrics provided
//
// Unlike a fixed set of clusters, replica-set names are only known once
// the first discovery cycle completes, so metrics are created lazily with
// GetOrCreate* on first use per label combination rather than pre-created
// at construction time:
//
//   - {prefix}_fetch_total{cluster} - Counter of refresh cycles
//   - {prefix}_fetch_errors_total{cluster} - Counter of failed refresh cycles
//   - {prefix}_fetch_duration_seconds{cluster} - Histogram of cycle durations
//   - {prefix}_node_unreachable_total{replicaset,host} - Counter of per-node discovery failures
//   - {prefix}_replicaset_status{replicaset} - Gauge (0=unavailable, 1=read-only, 2=writable)
//   - {prefix}_instance_count{replicaset,mode} - Gauge of instances per resolved mode
package vm
