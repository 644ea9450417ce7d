// Package types provides shared value types and error definitions for the
// router library.
//
// This is a leaf package with zero imports from other packages in this
// module, so it can be imported anywhere without causing import cycles.
//
// # Topology types
//
// ManagedInstance describes a single database node as returned by the
// cluster's own catalog tables, with its ServerMode resolved from
// replication-group state:
//
//	type ManagedInstance struct {
//	    ReplicaSetName string
//	    ServerUUID     string
//	    Role           string
//	    Mode           ServerMode
//	    Weight         float64
//	    VersionToken   uint32
//	    Location       string
//	    Host           string
//	    Port           uint16
//	    XPort          uint16
//	}
//
// ReplicaSetView keys ordered instance lists by replica-set name, and is
// swapped atomically on every successful refresh cycle.
//
// # Errors
//
// Four error kinds cover the whole surface: ConfigError, ConnectError,
// QueryError and MetadataError. Only ConfigError is fatal; the others are
// recovered locally by the metadata fetcher's fallback loop.
package types
