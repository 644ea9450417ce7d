package types

import (
	"fmt"
	"strings"
)

// ServerMode is the router's per-instance verdict, derived from the
// instance's role and its observed liveness. It is never read from the
// catalog; it is computed fresh on every refresh cycle.
type ServerMode int

const (
	// Unavailable means the instance cannot presently serve any traffic.
	Unavailable ServerMode = iota
	// ReadWrite means the instance is the current primary.
	ReadWrite
	// ReadOnly means the instance is a live secondary.
	ReadOnly
)

// String returns a human-readable name for the mode, used in log messages
// and in the "mode" plugin config option.
func (m ServerMode) String() string {
	switch m {
	case ReadWrite:
		return "read-write"
	case ReadOnly:
		return "read-only"
	default:
		return "unavailable"
	}
}

// ParseServerMode parses the case-insensitive access-mode names accepted by
// the "mode" plugin config option.
func ParseServerMode(s string) (ServerMode, bool) {
	switch strings.ToLower(s) {
	case "read-write", "readwrite", "rw":
		return ReadWrite, true
	case "read-only", "readonly", "ro":
		return ReadOnly, true
	default:
		return Unavailable, false
	}
}

// ManagedInstance is a single node belonging to a replica set, as described
// by the cluster's catalog tables and (once resolved) the live
// group-replication state.
type ManagedInstance struct {
	// ReplicaSetName is the replica set this instance belongs to.
	ReplicaSetName string

	// ServerUUID is the opaque identifier the cluster uses for this node.
	ServerUUID string

	// Role is a free-form catalog tag, e.g. "HA". Not used for routing
	// decisions; Mode is.
	Role string

	// Mode is the router's resolved access-mode verdict. Zero value is
	// Unavailable until a live-state query has run.
	Mode ServerMode

	// Weight is a non-negative routing weight; defaults to 0 when the
	// catalog row provides no value.
	Weight float64

	// VersionToken is a non-negative monotonic counter maintained by the
	// cluster; defaults to 0.
	VersionToken uint32

	// Location is a free-form catalog tag describing physical placement.
	Location string

	// Host is empty only when the catalog row explicitly supplied a null
	// address; in that case Port and XPort still take their defaults.
	Host string

	// Port is the classic MySQL protocol port. Defaults to 3306.
	Port uint16

	// XPort is the X Protocol port. Defaults to 10 * Port.
	XPort uint16
}

// Addr renders the instance's classic-protocol address as host:port.
func (m ManagedInstance) Addr() string {
	return fmt.Sprintf("%s:%d", m.Host, m.Port)
}

// ReplicaSetView is a keyed collection of replica sets, each an ordered
// list of ManagedInstance in the catalog's native order. It is treated as
// an immutable value: once published, none of its instances are mutated.
type ReplicaSetView map[string][]ManagedInstance

// Clone returns a deep copy of the view, safe to mutate independently of
// the original.
func (v ReplicaSetView) Clone() ReplicaSetView {
	out := make(ReplicaSetView, len(v))
	for name, instances := range v {
		cp := make([]ManagedInstance, len(instances))
		copy(cp, instances)
		out[name] = cp
	}
	return out
}

// MemberState is the state a node reports for itself and its peers via
// performance_schema.replication_group_members.
type MemberState int

const (
	// StateOther covers any state string not otherwise enumerated.
	StateOther MemberState = iota
	StateOnline
	StateOffline
	StateRecovering
	StateUnreachable
)

// ParseMemberState maps the catalog's state strings to MemberState.
func ParseMemberState(s string) MemberState {
	switch s {
	case "ONLINE":
		return StateOnline
	case "OFFLINE":
		return StateOffline
	case "RECOVERING":
		return StateRecovering
	case "UNREACHABLE":
		return StateUnreachable
	default:
		return StateOther
	}
}

// MemberRole distinguishes the single writable member of a replica set
// from its read-only peers, as observed by Query #2/#3.
type MemberRole int

const (
	RoleSecondary MemberRole = iota
	RolePrimary
)

// GroupReplicationMember is a live view of a node as reported by itself
// (Query #3), combined with whether it is considered primary (Query #2).
type GroupReplicationMember struct {
	MemberID string
	Host     string
	Port     uint16
	State    MemberState
	Role     MemberRole
}

// ReplicaSetStatus is the aggregated availability verdict for a replica
// set, derived from the resolved modes of its instances. Never stored.
type ReplicaSetStatus int

const (
	// StatusUnavailable means no quorum of usable instances exists.
	StatusUnavailable ReplicaSetStatus = iota
	// StatusAvailableWritable means quorum holds and a primary exists.
	StatusAvailableWritable
	// StatusAvailableReadOnly means quorum holds but no primary is visible.
	StatusAvailableReadOnly
)

func (s ReplicaSetStatus) String() string {
	switch s {
	case StatusAvailableWritable:
		return "available-writable"
	case StatusAvailableReadOnly:
		return "available-read-only"
	default:
		return "unavailable"
	}
}

// Address is a resolved (host, port) pair, port defaulting to 3306 when
// not explicitly specified in configuration. PortExplicit records
// whether the port was actually spelled out in the source text, so a
// parser's textual re-rendering can reproduce a bare-host input
// byte-for-byte instead of always appending the defaulted port.
type Address struct {
	Host         string
	Port         uint16
	PortExplicit bool
}

func (a Address) String() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// DestinationKind distinguishes the two shapes a DestinationSpec can take.
type DestinationKind int

const (
	// DestinationMetadataCache means routing decisions come from the
	// metadata cache for a named cluster command.
	DestinationMetadataCache DestinationKind = iota
	// DestinationAddressList means routing decisions come from a fixed,
	// user-supplied address list.
	DestinationAddressList
)

// DestinationSpec is the parsed form of the "destinations" plugin config
// option: either a reference to the metadata cache, or a literal ordered
// address list.
type DestinationSpec struct {
	Kind DestinationKind

	// Scheme is "mysql" or "fabric+cache". Only set when Kind is
	// DestinationMetadataCache.
	Scheme string

	// Command is "replicaset" (mysql scheme) or "group" (fabric+cache
	// scheme), lower-cased. Only set when Kind is DestinationMetadataCache.
	Command string

	// Target is the remainder of the URI naming the cluster/replica set
	// to route to. Only set when Kind is DestinationMetadataCache.
	Target string

	// Addresses is the ordered address list. Only set when Kind is
	// DestinationAddressList.
	Addresses []Address
}
