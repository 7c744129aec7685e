package evm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sigweihq/coffeepay/pkg/chains"
	"github.com/sigweihq/coffeepay/pkg/constants"
	"github.com/sigweihq/coffeepay/pkg/encoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEVMAdapter(t *testing.T) {
	adapter, err := NewEVMAdapter(constants.NetworkLocalhost, AdapterConfig{
		ContractAddress: testContract,
		Logger:          testLogger(),
	})
	require.NoError(t, err)

	assert.Equal(t, constants.NetworkLocalhost, adapter.Network())
	assert.Equal(t, int64(31337), adapter.ChainID())
	assert.Equal(t, constants.OfficialRPCEndpoints[constants.NetworkLocalhost], adapter.RPC().Endpoints())
	assert.Equal(t, encoding.FormatABIString, adapter.Encoder().Name())

	binding, err := adapter.Bindings().Resolve(constants.ContractName)
	require.NoError(t, err)
	assert.Equal(t, testContract, binding.Address)

	assert.NotNil(t, adapter.Oracle())
	assert.NotNil(t, adapter.Submitter())
	assert.False(t, adapter.Wallet().Session().Connected)
}

func TestNewEVMAdapter_Errors(t *testing.T) {
	_, err := NewEVMAdapter("dogechain", AdapterConfig{})
	var unsupported *UnsupportedNetworkError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "dogechain", unsupported.Network)

	_, err = NewEVMAdapter(constants.NetworkLocalhost, AdapterConfig{ContractAddress: "nope"})
	assert.Error(t, err)

	_, err = NewEVMAdapter(constants.NetworkLocalhost, AdapterConfig{DeploymentsFile: "/nonexistent/deployments.json"})
	assert.Error(t, err)
}

func TestNewEVMAdapter_WithoutContract(t *testing.T) {
	adapter, err := NewEVMAdapter(constants.NetworkSepolia, AdapterConfig{Endpoints: []string{"http://127.0.0.1:1"}})
	require.NoError(t, err)

	_, err = adapter.Bindings().Resolve(constants.ContractName)
	assert.ErrorIs(t, err, chains.ErrBindingUnresolved)
}

func TestInitEVMChains(t *testing.T) {
	chains.ResetGlobalRegistry()
	defer chains.ResetGlobalRegistry()

	registry := InitEVMChains(context.Background(), testLogger(), map[string]AdapterConfig{
		constants.NetworkLocalhost: {ContractAddress: testContract},
		constants.NetworkSepolia:   {},
		"dogechain":                {},
	}, false)

	assert.Same(t, chains.GetGlobalRegistry(), registry)
	assert.Equal(t, []string{constants.NetworkLocalhost, constants.NetworkSepolia}, registry.GetSupportedNetworks())
}

func TestEndpointProvider(t *testing.T) {
	chainlist := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[
			{"chainId": 31337, "rpc": [
				{"url": "https://rpc.example.org"},
				{"url": "wss://ws.example.org"},
				{"url": "https://rpc.example.org/${API_KEY}"}
			]},
			{"chainId": 1, "rpc": [{"url": "https://eth.example.org"}]}
		]`)
	}))
	defer chainlist.Close()

	provider := NewEndpointProvider(testLogger())
	provider.url = chainlist.URL
	provider.healthy = func(endpoint string) bool {
		return endpoint == "https://rpc.example.org"
	}

	require.NoError(t, provider.Discover(context.Background()))

	endpoints := provider.Endpoints(constants.NetworkLocalhost, []string{"http://10.0.0.1:8545", "http://127.0.0.1:8545"})
	assert.Equal(t, []string{
		"https://rpc.example.org", // healthy first
		"http://10.0.0.1:8545",
		"http://127.0.0.1:8545", // configured and official, deduplicated
	}, endpoints)
}

func TestEndpointProvider_DiscoverFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	provider := NewEndpointProvider(testLogger())
	provider.url = srv.URL
	provider.healthy = func(string) bool { return false }

	assert.Error(t, provider.Discover(context.Background()))
	assert.Equal(t, constants.OfficialRPCEndpoints[constants.NetworkBase], provider.Endpoints(constants.NetworkBase, nil))
}
