package vm

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/VictoriaMetrics/metrics"

	"github.com/shiyingzhe/mysql-router/types"
)

// Option configures a Collector.
type Option func(*Collector)

// WithPrefix sets the metric name prefix.
//
// Default: "router"
func WithPrefix(prefix string) Option {
	return func(c *Collector) {
		c.prefix = prefix
	}
}

// WithMetricsSet sets the metrics set to use.
//
// If provided, the collector registers metrics with this set instead of
// creating a new one. The caller is responsible for exposing this set.
func WithMetricsSet(set *metrics.Set) Option {
	return func(c *Collector) {
		c.set = set
	}
}

// Collector implements types.MetricsCollector using VictoriaMetrics.
//
// Metric series are created lazily on first use, since the set of
// replica-set names is only known once the metadata fetcher's first
// discovery cycle completes. Thread-safe for concurrent use.
type Collector struct {
	set    *metrics.Set
	prefix string

	// gaugeValues backs every lazily-registered gauge: VictoriaMetrics
	// gauges are read via a callback rather than set directly, so each
	// gauge's callback closes over its entry in this map.
	gaugeValues sync.Map // name string -> *atomic.Uint64 (float64 bits)
}

func (c *Collector) gauge(name string) *metrics.Gauge {
	v, _ := c.gaugeValues.LoadOrStore(name, new(atomic.Uint64))
	bits := v.(*atomic.Uint64)
	return c.set.GetOrCreateGauge(name, func() float64 {
		return math.Float64frombits(bits.Load())
	})
}

func (c *Collector) setGauge(name string, value float64) {
	c.gauge(name) // ensure registered before storing, order doesn't matter for correctness
	v, _ := c.gaugeValues.Load(name)
	v.(*atomic.Uint64).Store(math.Float64bits(value))
}

// New creates a new VictoriaMetrics-based metrics collector.
func New(opts ...Option) *Collector {
	c := &Collector{prefix: "router"}

	for _, opt := range opts {
		opt(c)
	}

	if c.set == nil {
		c.set = metrics.NewSet()
		metrics.RegisterSet(c.set)
	}

	return c
}

// Set returns the underlying VictoriaMetrics set.
func (c *Collector) Set() *metrics.Set {
	return c.set
}

// Handler returns an HTTP handler that exposes metrics in Prometheus
// format.
//
//	http.HandleFunc("/metrics", collector.Handler)
func (c *Collector) Handler(w http.ResponseWriter, _ *http.Request) {
	c.set.WritePrometheus(w)
}

// WritePrometheus writes all metrics in Prometheus format to w.
func (c *Collector) WritePrometheus(w io.Writer) {
	c.set.WritePrometheus(w)
}

// IncFetchTotal increments the total refresh-cycle counter for a cluster.
func (c *Collector) IncFetchTotal(cluster string) {
	c.set.GetOrCreateCounter(fmt.Sprintf(`%s_fetch_total{cluster=%q}`, c.prefix, cluster)).Inc()
}

// IncFetchError increments the failed refresh-cycle counter.
func (c *Collector) IncFetchError(cluster string) {
	c.set.GetOrCreateCounter(fmt.Sprintf(`%s_fetch_errors_total{cluster=%q}`, c.prefix, cluster)).Inc()
}

// ObserveFetchDuration records a refresh cycle's duration in seconds.
func (c *Collector) ObserveFetchDuration(cluster string, seconds float64) {
	c.set.GetOrCreateHistogram(fmt.Sprintf(`%s_fetch_duration_seconds{cluster=%q}`, c.prefix, cluster)).Update(seconds)
}

// IncNodeUnreachable increments the per-node discovery failure counter.
func (c *Collector) IncNodeUnreachable(replicaSet, host string) {
	c.set.GetOrCreateCounter(
		fmt.Sprintf(`%s_node_unreachable_total{replicaset=%q,host=%q}`, c.prefix, replicaSet, host),
	).Inc()
}

// SetReplicaSetStatus sets the status gauge for a replica set.
func (c *Collector) SetReplicaSetStatus(replicaSet string, status types.ReplicaSetStatus) {
	name := fmt.Sprintf(`%s_replicaset_status{replicaset=%q}`, c.prefix, replicaSet)
	var value float64 // 0=unavailable, 1=read-only, 2=writable
	switch status {
	case types.StatusAvailableReadOnly:
		value = 1
	case types.StatusAvailableWritable:
		value = 2
	}
	c.setGauge(name, value)
}

// SetInstanceCount sets the instance-count gauge for a replica set/mode pair.
func (c *Collector) SetInstanceCount(replicaSet string, mode types.ServerMode, count int) {
	name := fmt.Sprintf(`%s_instance_count{replicaset=%q,mode=%q}`, c.prefix, replicaSet, mode.String())
	c.setGauge(name, float64(count))
}
