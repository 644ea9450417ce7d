package router

import (
	"fmt"

	"github.com/shiyingzhe/mysql-router/metadata"
	"github.com/shiyingzhe/mysql-router/types"
)

// Backend is a single candidate connection endpoint handed to the
// dispatcher.
type Backend struct {
	Host string
	Port uint16
}

func (b Backend) String() string {
	return fmt.Sprintf("%s:%d", b.Host, b.Port)
}

// Resolver is the contract the dispatcher consumes: given a replica-set
// name and a desired access mode, return an ordered list of candidate
// backends. An empty result is valid and means "no servable backend
// right now".
type Resolver interface {
	Lookup(replicaSet string, mode types.ServerMode) []Backend
}

// Cache resolves backends from a live metadata.Fetcher's most recently
// published snapshot.
type Cache struct {
	fetcher *metadata.Fetcher
}

var _ Resolver = (*Cache)(nil)

// NewCache wraps fetcher as a Resolver.
func NewCache(fetcher *metadata.Fetcher) *Cache {
	return &Cache{fetcher: fetcher}
}

// Lookup returns, in catalog order, every instance of replicaSet whose
// resolved mode matches mode.
func (c *Cache) Lookup(replicaSet string, mode types.ServerMode) []Backend {
	snap := c.fetcher.Latest()
	if snap == nil {
		return nil
	}

	instances := snap.View[replicaSet]
	out := make([]Backend, 0, len(instances))
	for _, inst := range instances {
		if inst.Mode == mode {
			out = append(out, Backend{Host: inst.Host, Port: inst.Port})
		}
	}
	return out
}

// StaticList resolves backends from a fixed, user-supplied address
// list. It has no notion of replica sets or access modes: every Lookup
// call returns the same list, in the order it was configured.
type StaticList struct {
	backends []Backend
}

var _ Resolver = (*StaticList)(nil)

// NewStaticList builds a StaticList from a resolved address list.
func NewStaticList(addrs []types.Address) *StaticList {
	backends := make([]Backend, len(addrs))
	for i, addr := range addrs {
		backends[i] = Backend{Host: addr.Host, Port: addr.Port}
	}
	return &StaticList{backends: backends}
}

// Lookup ignores replicaSet and mode and returns the full configured
// address list.
func (s *StaticList) Lookup(_ string, _ types.ServerMode) []Backend {
	return s.backends
}

// NewResolver builds the Resolver appropriate for spec: a Cache when
// spec references the metadata cache, a StaticList when it's a literal
// address list.
func NewResolver(spec types.DestinationSpec, fetcher *metadata.Fetcher) (Resolver, error) {
	switch spec.Kind {
	case types.DestinationMetadataCache:
		if fetcher == nil {
			return nil, fmt.Errorf("router: metadata cache destination requires a fetcher")
		}
		return NewCache(fetcher), nil
	case types.DestinationAddressList:
		return NewStaticList(spec.Addresses), nil
	default:
		return nil, fmt.Errorf("router: unknown destination kind %d", spec.Kind)
	}
}
