// Package metrics provides internal metrics utilities for the router.
package metrics

import "github.com/shiyingzhe/mysql-router/types"

// NopMetrics is a no-op metrics collector that discards all metrics.
//
// This is used as the default metrics collector when no collector is
// configured, avoiding nil checks throughout the codebase.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements types.MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNopMetrics creates a new no-op metrics collector.
func NewNopMetrics() *NopMetrics {
	return &NopMetrics{}
}

// IncFetchTotal discards the metric.
func (m *NopMetrics) IncFetchTotal(_ string) {}

// IncFetchError discards the metric.
func (m *NopMetrics) IncFetchError(_ string) {}

// ObserveFetchDuration discards the metric.
func (m *NopMetrics) ObserveFetchDuration(_ string, _ float64) {}

// IncNodeUnreachable discards the metric.
func (m *NopMetrics) IncNodeUnreachable(_, _ string) {}

// SetReplicaSetStatus discards the metric.
func (m *NopMetrics) SetReplicaSetStatus(_ string, _ types.ReplicaSetStatus) {}

// SetInstanceCount discards the metric.
func (m *NopMetrics) SetInstanceCount(_ string, _ types.ServerMode, _ int) {}
