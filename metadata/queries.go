package metadata

import "strings"

// The three query strings below are issued as plain text against a
// catalog.Session; result rows are consumed positionally. Each begins
// with a fixed, distinctive prefix so a test double can pattern-match
// on the prefix instead of parsing SQL. No prepared-statement machinery
// is used, so topologyQuery below builds the literal statement text
// rather than binding a placeholder.

// queryTopologyPrefix is the fixed prefix every topologyQuery(...)
// result begins with.
const queryTopologyPrefix = `SELECT R.replicaset_name, I.mysql_server_uuid, I.role, I.weight, I.version_token, I.addresses->>'$.location', I.addresses->>'$.mysqlClassic', I.addresses->>'$.mysqlX'
FROM mysql_innodb_cluster_metadata.v2_instances I
JOIN mysql_innodb_cluster_metadata.v2_gr_clusters R ON I.cluster_id = R.cluster_id
WHERE R.cluster_name = `

// topologyQuery (Query #1) builds the literal query selecting the
// catalog's view of clusterName's instances: replicaset_name,
// server_uuid, role, weight, version_token, location, classic address,
// x-protocol address.
func topologyQuery(clusterName string) string {
	return queryTopologyPrefix + "'" + strings.ReplaceAll(clusterName, "'", "''") + "'"
}

// QueryPrimaryMember (Query #2) returns the server_uuid a node
// currently considers primary, as a single (name, value) status row.
const QueryPrimaryMember = `SHOW STATUS LIKE 'group_replication_primary_member'`

// QueryGroupMembers (Query #3) returns the group-replication members a
// node currently observes: member_id, member_host, member_port, state,
// and whether the group is running in single-primary mode.
const QueryGroupMembers = `SELECT member_id, member_host, member_port, member_state, @@group_replication_single_primary_mode
FROM performance_schema.replication_group_members`
