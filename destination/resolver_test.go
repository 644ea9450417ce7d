package destination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiyingzhe/mysql-router/destination"
	"github.com/shiyingzhe/mysql-router/types"
)

func TestParseAddressList(t *testing.T) {
	spec, err := destination.Parse("localhost,127.0.0.1:3307, host3:3308")
	require.NoError(t, err)
	require.Equal(t, types.DestinationAddressList, spec.Kind)
	require.Equal(t, []types.Address{
		{Host: "localhost", Port: 3306, PortExplicit: false},
		{Host: "127.0.0.1", Port: 3307, PortExplicit: true},
		{Host: "host3", Port: 3308, PortExplicit: true},
	}, spec.Addresses)
}

func TestParseMysqlMetadataCacheURI(t *testing.T) {
	spec, err := destination.Parse("mysql://server/replicaset/rs-1")
	require.NoError(t, err)
	assert.Equal(t, types.DestinationMetadataCache, spec.Kind)
	assert.Equal(t, "mysql", spec.Scheme)
	assert.Equal(t, "replicaset", spec.Command)
	assert.Equal(t, "rs-1", spec.Target)
}

func TestParseLeadingCommaIsError(t *testing.T) {
	_, err := destination.Parse(",localhost")
	require.Error(t, err)

	var cfgErr *types.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "destinations", cfgErr.Option)
	assert.ErrorIs(t, err, types.ErrInvalidDestination)
	assert.Contains(t, cfgErr.Error(), "empty address in destination list")
}

func TestParseTrailingCommaIsError(t *testing.T) {
	_, err := destination.Parse("localhost,")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidDestination)
}

func TestParseInvalidFabricCommand(t *testing.T) {
	_, err := destination.Parse("fabric+cache://x/notgroup")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid Fabric command")
}

func TestParseValidFabricGroup(t *testing.T) {
	spec, err := destination.Parse("fabric+cache://x/group")
	require.NoError(t, err)
	assert.Equal(t, "fabric+cache", spec.Scheme)
	assert.Equal(t, "group", spec.Command)
}

func TestParseUnsupportedScheme(t *testing.T) {
	_, err := destination.Parse("http://x/replicaset/rs-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported destination scheme")
}

func TestParseAddressListRoundTrip(t *testing.T) {
	inputs := []string{
		"127.0.0.1:3307,host3:3308",
		"localhost:3306",
		"localhost",
		"localhost,127.0.0.1:3307",
	}
	for _, in := range inputs {
		spec, err := destination.Parse(in)
		require.NoError(t, err)
		assert.Equal(t, in, destination.Render(spec))
	}
}

func TestParseInvalidPortRejected(t *testing.T) {
	_, err := destination.Parse("host:70000")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidDestination)
}
