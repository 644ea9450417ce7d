// Package metadata implements the cluster metadata cache: a periodic
// discovery loop that connects to one of a list of seed servers, reads
// topology from the cluster's own catalog, cross-checks that view
// against the live group-replication state seen from individual nodes,
// and publishes a classified instance list to the router's dispatch
// logic.
//
// The Fetcher owns every database session exclusively from its refresh
// goroutine and publishes each generation of the view via an atomic
// pointer swap, so readers on other goroutines never observe a torn
// value and never take a lock on the hot path.
package metadata
