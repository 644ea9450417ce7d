package metadata

import (
	"strconv"
	"strings"

	"github.com/shiyingzhe/mysql-router/catalog"
	"github.com/shiyingzhe/mysql-router/internal/logging"
	"github.com/shiyingzhe/mysql-router/types"
)

const defaultPort uint16 = 3306

// parseTopologyRow decodes a single topologyQuery (Query #1) row into a
// ManagedInstance, applying the null-coalescing and address-parsing
// rules: a null classic address yields an empty host and default ports;
// a null x-protocol address yields 10x the classic port; numeric
// columns null to 0.
func parseTopologyRow(row catalog.Row) types.ManagedInstance {
	inst := types.ManagedInstance{}

	if v, ok := row.NullString(0); ok {
		inst.ReplicaSetName = v
	}
	if v, ok := row.NullString(1); ok {
		inst.ServerUUID = v
	}
	if v, ok := row.NullString(2); ok {
		inst.Role = v
	}
	inst.Weight = row.Float64(3)
	inst.VersionToken = row.Uint32(4)
	if v, ok := row.NullString(5); ok {
		inst.Location = v
	}

	classicAddr, hasClassic := row.NullString(6)
	if hasClassic {
		inst.Host, inst.Port = parseHostPort(classicAddr, defaultPort)
	} else {
		inst.Port = defaultPort
	}

	if xAddr, ok := row.NullString(7); ok {
		_, inst.XPort = parseHostPort(xAddr, defaultPort*10)
	} else {
		inst.XPort = inst.Port * 10
	}

	return inst
}

// parseHostPort splits "host:port" into its parts, defaulting port when
// absent or malformed. A bare host with no colon yields (host, def).
func parseHostPort(s string, def uint16) (string, uint16) {
	host, portStr, found := strings.Cut(s, ":")
	if !found || portStr == "" {
		return host, def
	}
	n, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return host, def
	}
	return host, uint16(n)
}

// computeStatus resolves each expected instance's Mode against the live
// group-replication member map and derives the replica set's aggregated
// status. It mutates and returns a copy of expected; the caller's slice
// is left untouched.
func computeStatus(expected []types.ManagedInstance, live map[string]types.GroupReplicationMember, logger types.Logger) ([]types.ManagedInstance, types.ReplicaSetStatus) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	resolved := make([]types.ManagedInstance, len(expected))
	copy(resolved, expected)

	usable := 0
	anyWritable := false

	for i := range resolved {
		member, found := live[resolved[i].ServerUUID]
		switch {
		case !found:
			resolved[i].Mode = types.Unavailable
			logger.Warn("instance missing from live group replication view",
				"replicaset", resolved[i].ReplicaSetName,
				"server_uuid", resolved[i].ServerUUID)
			continue
		case member.State == types.StateOnline && member.Role == types.RolePrimary:
			resolved[i].Mode = types.ReadWrite
		case member.State == types.StateOnline && member.Role == types.RoleSecondary:
			resolved[i].Mode = types.ReadOnly
		default:
			resolved[i].Mode = types.Unavailable
			continue
		}
		usable++
		if resolved[i].Mode == types.ReadWrite {
			anyWritable = true
		}
	}

	if len(expected) == 0 || usable*2 <= len(expected) {
		return resolved, types.StatusUnavailable
	}
	if anyWritable {
		return resolved, types.StatusAvailableWritable
	}
	return resolved, types.StatusAvailableReadOnly
}

