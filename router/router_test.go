package router_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiyingzhe/mysql-router/catalog"
	"github.com/shiyingzhe/mysql-router/catalog/catalogtest"
	"github.com/shiyingzhe/mysql-router/metadata"
	"github.com/shiyingzhe/mysql-router/router"
	"github.com/shiyingzhe/mysql-router/types"
)

func TestStaticListIgnoresReplicaSetAndMode(t *testing.T) {
	rl := router.NewStaticList([]types.Address{
		{Host: "h1", Port: 3306},
		{Host: "h2", Port: 3307},
	})

	got := rl.Lookup("anything", types.ReadWrite)
	assert.Equal(t, []router.Backend{{Host: "h1", Port: 3306}, {Host: "h2", Port: 3307}}, got)

	got = rl.Lookup("other", types.Unavailable)
	assert.Equal(t, []router.Backend{{Host: "h1", Port: 3306}, {Host: "h2", Port: 3307}}, got)
}

func TestCacheLookupReturnsEmptyBeforeFirstFetch(t *testing.T) {
	f := metadata.NewFetcher(&catalogtest.FakeSessionFactory{})
	c := router.NewCache(f)
	assert.Empty(t, c.Lookup("rs-1", types.ReadWrite))
}

func TestCacheLookupFiltersByModeAfterFetch(t *testing.T) {
	metadataSession := &catalogtest.FakeSession{
		Queries: map[string]catalogtest.Result{
			"__topology__": {
				Rows: []catalog.Row{
					catalogtest.NewRow("rs-1", "i-1", "HA", nil, nil, nil, "127.0.0.1:3310", nil),
					catalogtest.NewRow("rs-1", "i-2", "HA", nil, nil, nil, "127.0.0.1:3320", nil),
				},
			},
			metadata.QueryPrimaryMember: {
				Rows: []catalog.Row{catalogtest.NewRow("group_replication_primary_member", "i-1")},
			},
			metadata.QueryGroupMembers: {
				Rows: []catalog.Row{
					catalogtest.NewRow("i-1", "127.0.0.1", uint32(3310), "ONLINE", 1),
					catalogtest.NewRow("i-2", "127.0.0.1", uint32(3320), "ONLINE", 1),
				},
			},
		},
	}
	// The fetcher builds Query #1's text from the cluster name, so
	// register it as the DefaultResult instead of trying to spell out
	// the exact literal here.
	metadataSession.DefaultResult = metadataSession.Queries["__topology__"]
	delete(metadataSession.Queries, "__topology__")

	factory := &catalogtest.FakeSessionFactory{
		ByAddr: map[string]*catalogtest.FakeSession{"127.0.0.1:3310": metadataSession},
	}
	f := metadata.NewFetcher(factory, metadata.WithTickInterval(10*time.Millisecond))
	c := router.NewCache(f)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Millisecond)
	defer cancel()
	f.Run(ctx, []types.Address{{Host: "127.0.0.1", Port: 3310}}, "mycluster")

	rw := c.Lookup("rs-1", types.ReadWrite)
	require.Len(t, rw, 1)
	assert.Equal(t, router.Backend{Host: "127.0.0.1", Port: 3310}, rw[0])

	ro := c.Lookup("rs-1", types.ReadOnly)
	require.Len(t, ro, 1)
	assert.Equal(t, router.Backend{Host: "127.0.0.1", Port: 3320}, ro[0])
}

func TestNewResolverPicksImplementationByDestinationKind(t *testing.T) {
	f := metadata.NewFetcher(&catalogtest.FakeSessionFactory{})

	r, err := router.NewResolver(types.DestinationSpec{Kind: types.DestinationAddressList, Addresses: []types.Address{{Host: "h", Port: 1}}}, nil)
	require.NoError(t, err)
	_, ok := r.(*router.StaticList)
	assert.True(t, ok)

	r, err = router.NewResolver(types.DestinationSpec{Kind: types.DestinationMetadataCache}, f)
	require.NoError(t, err)
	_, ok = r.(*router.Cache)
	assert.True(t, ok)

	_, err = router.NewResolver(types.DestinationSpec{Kind: types.DestinationMetadataCache}, nil)
	require.Error(t, err)
}
