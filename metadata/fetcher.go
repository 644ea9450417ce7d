package metadata

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/shiyingzhe/mysql-router/catalog"
	"github.com/shiyingzhe/mysql-router/types"
)

// Snapshot is one published generation of the metadata cache: the view
// as of the generation's Query #1, together with each replica set's
// derived status.
type Snapshot struct {
	View     types.ReplicaSetView
	Statuses map[string]types.ReplicaSetStatus
}

// Fetcher owns a pool of database sessions, one per candidate node, and
// implements the three-query discovery protocol to produce a
// per-replica-set instance list with resolved server modes.
//
// A Fetcher must not be used from more than one goroutine at a time for
// its write path (Run, FetchInstances); the published Snapshot may be
// read from any number of goroutines via Latest.
type Fetcher struct {
	factory catalog.SessionFactory
	cfg     fetcherConfig

	metadataSession    catalog.Session
	metadataAddr       types.Address
	metadataServerUUID string

	// nodeSessions caches live sessions opened during discovery, keyed by
	// server_uuid, so a node reused across replica sets or refresh cycles
	// doesn't pay a fresh connect cost.
	nodeSessions map[string]catalog.Session

	current   atomic.Pointer[Snapshot]
	createCnt int
}

// NewFetcher builds a Fetcher that creates sessions via factory.
func NewFetcher(factory catalog.SessionFactory, opts ...Option) *Fetcher {
	cfg := defaultFetcherConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	empty := &Snapshot{View: types.ReplicaSetView{}, Statuses: map[string]types.ReplicaSetStatus{}}
	f := &Fetcher{
		factory:      factory,
		cfg:          cfg,
		nodeSessions: make(map[string]catalog.Session),
	}
	f.current.Store(empty)
	return f
}

// Latest returns the most recently published Snapshot. Safe to call
// concurrently with Run.
func (f *Fetcher) Latest() *Snapshot {
	return f.current.Load()
}

func (f *Fetcher) publish(snap *Snapshot) {
	f.current.Store(snap)
}

// Connect attempts, in order, to connect one session to each seed,
// returning true on the first success. A single session is created via
// the factory however many seeds are tried. On success that session is
// marked as the metadata-server session and that node's address recorded.
func (f *Fetcher) Connect(ctx context.Context, seeds []types.Address) bool {
	if len(seeds) == 0 {
		return false
	}
	session := f.factory.Create()
	f.createCnt++
	for _, seed := range seeds {
		if err := session.Connect(ctx, seed.Host, seed.Port, f.cfg.user, f.cfg.password, f.cfg.connectTimeout); err != nil {
			f.cfg.logger.Warn("seed connect failed", "host", seed.Host, "port", seed.Port, "error", err)
			continue
		}
		f.metadataSession = session
		f.metadataAddr = seed
		return true
	}
	return false
}

// FetchInstancesFromMetadataServer executes Query #1 against the
// metadata-server session and assembles the catalog's view of
// clusterName's topology.
func (f *Fetcher) FetchInstancesFromMetadataServer(ctx context.Context, clusterName string) (types.ReplicaSetView, error) {
	if f.metadataSession == nil {
		return nil, &types.MetadataError{Cause: fmt.Errorf("no metadata server session: call Connect first")}
	}

	view := make(types.ReplicaSetView)
	queryCtx, cancel := context.WithTimeout(ctx, f.cfg.queryTimeout)
	defer cancel()

	err := f.metadataSession.Query(queryCtx, topologyQuery(clusterName), func(row catalog.Row) (bool, error) {
		inst := parseTopologyRow(row)
		view[inst.ReplicaSetName] = append(view[inst.ReplicaSetName], inst)
		return true, nil
	})
	if err != nil {
		return nil, &types.MetadataError{Cause: err}
	}
	return view, nil
}

// UpdateReplicaSetStatus runs the discovery protocol for one replica
// set: it iterates instances in catalog order, opening or reusing a
// session per candidate, until one yields a successful (Query #2,
// Query #3) pair. It mutates instances' Mode fields in place and
// returns the derived status.
func (f *Fetcher) UpdateReplicaSetStatus(ctx context.Context, replicaSetName string, instances []types.ManagedInstance) (types.ReplicaSetStatus, error) {
	for i := range instances {
		candidate := instances[i]
		if candidate.Host == "" {
			continue
		}

		session, err := f.sessionFor(ctx, candidate)
		if err != nil {
			f.cfg.metrics.IncNodeUnreachable(replicaSetName, candidate.Addr())
			f.cfg.logger.Warn("connect failed during discovery",
				"replicaset", replicaSetName, "server_uuid", candidate.ServerUUID,
				"host", candidate.Host, "port", candidate.Port, "error", err)
			continue
		}

		primaryUUID, err := f.queryPrimaryMember(ctx, session)
		if err != nil {
			f.cfg.metrics.IncNodeUnreachable(replicaSetName, candidate.Addr())
			f.cfg.logger.Warn("query #2 failed during discovery",
				"replicaset", replicaSetName, "server_uuid", candidate.ServerUUID,
				"host", candidate.Host, "port", candidate.Port, "error", err)
			f.discardSession(candidate.ServerUUID)
			continue
		}

		live, err := f.queryGroupMembers(ctx, session, primaryUUID)
		if err != nil {
			f.cfg.metrics.IncNodeUnreachable(replicaSetName, candidate.Addr())
			f.cfg.logger.Warn("query #3 failed during discovery",
				"replicaset", replicaSetName, "server_uuid", candidate.ServerUUID,
				"host", candidate.Host, "port", candidate.Port, "error", err)
			f.discardSession(candidate.ServerUUID)
			continue
		}

		resolved, status := computeStatus(instances, live, f.cfg.logger)
		copy(instances, resolved)
		return status, nil
	}

	return types.StatusUnavailable, &types.MetadataError{
		ReplicaSet: replicaSetName,
		Cause:      fmt.Errorf("%w in replicaset '%s'", types.ErrEmptyReplicaSet, replicaSetName),
	}
}

// sessionFor returns a live session to inst, opening one via the
// factory and caching it if no cached session exists yet. When inst is
// the current metadata server, the existing metadata session is reused
// instead of a fresh connection.
func (f *Fetcher) sessionFor(ctx context.Context, inst types.ManagedInstance) (catalog.Session, error) {
	if f.metadataSession != nil && inst.Host == f.metadataAddr.Host && inst.Port == f.metadataAddr.Port {
		f.metadataServerUUID = inst.ServerUUID
		return f.metadataSession, nil
	}
	if s, ok := f.nodeSessions[inst.ServerUUID]; ok {
		return s, nil
	}

	session := f.factory.Create()
	f.createCnt++
	if err := session.Connect(ctx, inst.Host, inst.Port, f.cfg.user, f.cfg.password, f.cfg.connectTimeout); err != nil {
		return nil, &types.ConnectError{Host: inst.Host, Port: inst.Port, Cause: err}
	}
	f.nodeSessions[inst.ServerUUID] = session
	return session, nil
}

// discardSession closes and forgets the session for serverUUID, so the
// next candidate or refresh cycle starts clean. serverUUID may name
// either a cached discovery-node session or the current metadata-server
// session (when the metadata server is itself the failing candidate,
// per sessionFor's reuse branch); either is torn down and cleared so
// the next Run tick reconnects instead of retrying a session already
// known to be broken.
func (f *Fetcher) discardSession(serverUUID string) {
	if serverUUID != "" && serverUUID == f.metadataServerUUID {
		if f.metadataSession != nil {
			f.metadataSession.Close()
		}
		f.metadataSession = nil
		f.metadataAddr = types.Address{}
		f.metadataServerUUID = ""
		return
	}
	if s, ok := f.nodeSessions[serverUUID]; ok {
		s.Close()
		delete(f.nodeSessions, serverUUID)
	}
}

// queryPrimaryMember runs Query #2 and returns the server_uuid the node
// currently considers primary, or "" if none is visible.
func (f *Fetcher) queryPrimaryMember(ctx context.Context, session catalog.Session) (string, error) {
	queryCtx, cancel := context.WithTimeout(ctx, f.cfg.queryTimeout)
	defer cancel()

	var value string
	err := session.Query(queryCtx, QueryPrimaryMember, func(row catalog.Row) (bool, error) {
		if v, ok := row.NullString(1); ok {
			value = v
		}
		return false, nil
	})
	return value, err
}

// queryGroupMembers runs Query #3 and combines it with the primary
// member's uuid into a live-member map keyed by member_id.
func (f *Fetcher) queryGroupMembers(ctx context.Context, session catalog.Session, primaryUUID string) (map[string]types.GroupReplicationMember, error) {
	queryCtx, cancel := context.WithTimeout(ctx, f.cfg.queryTimeout)
	defer cancel()

	live := make(map[string]types.GroupReplicationMember)
	err := session.Query(queryCtx, QueryGroupMembers, func(row catalog.Row) (bool, error) {
		memberID, _ := row.NullString(0)
		host, _ := row.NullString(1)
		port := uint16(row.Uint32(2))
		stateStr, _ := row.NullString(3)

		role := types.RoleSecondary
		if primaryUUID != "" && memberID == primaryUUID {
			role = types.RolePrimary
		}

		live[memberID] = types.GroupReplicationMember{
			MemberID: memberID,
			Host:     host,
			Port:     port,
			State:    types.ParseMemberState(stateStr),
			Role:     role,
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return live, nil
}

// FetchInstances orchestrates a full refresh for one replica set: first
// Query #1 across the whole cluster, then the discovery protocol for
// the named replica set.
func (f *Fetcher) FetchInstances(ctx context.Context, clusterName, replicaSetName string) (types.ReplicaSetView, types.ReplicaSetStatus, error) {
	view, err := f.FetchInstancesFromMetadataServer(ctx, clusterName)
	if err != nil {
		return nil, types.StatusUnavailable, err
	}

	instances, ok := view[replicaSetName]
	if !ok {
		return nil, types.StatusUnavailable, &types.MetadataError{
			ReplicaSet: replicaSetName,
			Cause:      fmt.Errorf("no such replicaset in cluster '%s'", clusterName),
		}
	}

	status, err := f.UpdateReplicaSetStatus(ctx, replicaSetName, instances)
	if err != nil {
		return nil, types.StatusUnavailable, err
	}
	view[replicaSetName] = instances
	return view, status, nil
}

// Run drives the periodic refresh loop until ctx is cancelled. Each
// tick fetches every replica set found in clusterName's topology and
// atomically publishes the resulting Snapshot; a failed cycle discards
// its partial results, keeps the previous Snapshot in effect, and
// leaves the next tick to retry.
func (f *Fetcher) Run(ctx context.Context, seeds []types.Address, clusterName string) {
	ticker := time.NewTicker(f.cfg.tickInterval)
	defer ticker.Stop()

	f.runOnce(ctx, seeds, clusterName)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.runOnce(ctx, seeds, clusterName)
		}
	}
}

func (f *Fetcher) runOnce(ctx context.Context, seeds []types.Address, clusterName string) {
	// cid tags every log line runOnce itself emits so a warn/error burst
	// from a single failed refresh can be grepped out of a shared log
	// stream. The per-node warnings logged inside UpdateReplicaSetStatus
	// and computeStatus do not carry it.
	cid := uuid.NewString()
	start := time.Now()
	f.cfg.metrics.IncFetchTotal(clusterName)
	defer func() {
		f.cfg.metrics.ObserveFetchDuration(clusterName, time.Since(start).Seconds())
	}()

	if f.metadataSession == nil {
		if !f.Connect(ctx, seeds) {
			f.cfg.metrics.IncFetchError(clusterName)
			f.cfg.logger.Error("no seed server was reachable", "cluster", clusterName, "correlation_id", cid)
			return
		}
	}

	view, err := f.FetchInstancesFromMetadataServer(ctx, clusterName)
	if err != nil {
		f.cfg.metrics.IncFetchError(clusterName)
		f.cfg.logger.Error("metadata fetch failed", "cluster", clusterName, "correlation_id", cid, "error", err)
		f.metadataSession.Close()
		f.metadataSession = nil
		f.metadataAddr = types.Address{}
		f.metadataServerUUID = ""
		return
	}

	statuses := make(map[string]types.ReplicaSetStatus, len(view))
	for name, instances := range view {
		status, err := f.UpdateReplicaSetStatus(ctx, name, instances)
		if err != nil {
			f.cfg.metrics.IncFetchError(clusterName)
			f.cfg.logger.Warn("replicaset status update failed", "replicaset", name, "correlation_id", cid, "error", err)
			return
		}
		view[name] = instances
		statuses[name] = status
		f.cfg.metrics.SetReplicaSetStatus(name, status)

		counts := map[types.ServerMode]int{}
		for _, inst := range instances {
			counts[inst.Mode]++
		}
		for _, mode := range []types.ServerMode{types.ReadWrite, types.ReadOnly, types.Unavailable} {
			f.cfg.metrics.SetInstanceCount(name, mode, counts[mode])
		}
	}

	f.cfg.logger.Info("fetch cycle complete", "cluster", clusterName, "correlation_id", cid, "replicasets", len(statuses))
	f.publish(&Snapshot{View: view, Statuses: statuses})
}

// CreateCount returns how many sessions the Fetcher has created via its
// factory over its lifetime, for tests asserting session-reuse
// behavior.
func (f *Fetcher) CreateCount() int {
	return f.createCnt
}
