package types

// MetricsCollector defines the operational metrics emitted by the metadata
// fetcher's refresh loop. Implementations must be safe for concurrent use;
// in practice only the refresh goroutine calls these, but a collector may
// also be read concurrently by an HTTP exporter.
//
// Example usage with VictoriaMetrics (via contrib/metrics/vm):
//
//	collector := vm.New(vm.WithPrefix("routerd"))
//	fetcher := metadata.NewFetcher(factory, metadata.WithMetrics(collector))
//	http.HandleFunc("/metrics", collector.Handler)
type MetricsCollector interface {
	// IncFetchTotal increments the total refresh-cycle counter for a
	// cluster.
	IncFetchTotal(cluster string)

	// IncFetchError increments the failed refresh-cycle counter. Called
	// when a cycle ends in a MetadataError and the previous snapshot is
	// retained.
	IncFetchError(cluster string)

	// ObserveFetchDuration records how long one refresh cycle took, in
	// seconds.
	ObserveFetchDuration(cluster string, seconds float64)

	// IncNodeUnreachable increments the counter tracking a single
	// candidate node's connect or query failure during discovery.
	IncNodeUnreachable(replicaSet, host string)

	// SetReplicaSetStatus sets the current status gauge for a replica
	// set. Value: 0=unavailable, 1=available-read-only, 2=available-writable.
	SetReplicaSetStatus(replicaSet string, status ReplicaSetStatus)

	// SetInstanceCount sets the gauge tracking how many instances of each
	// mode are currently published for a replica set.
	SetInstanceCount(replicaSet string, mode ServerMode, count int)
}
