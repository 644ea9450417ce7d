// Package catalog defines the thin adapter the metadata fetcher uses to
// talk to a single database node: connect, run a plain-text query, and
// visit the returned rows.
//
// This package intentionally knows nothing about replica sets, group
// replication, or the specific queries the metadata fetcher issues — it
// only specifies the query/row interface consumed from the underlying
// wire-level database client, mirroring how the original router treats
// the MySQL client library as an external collaborator.
package catalog
