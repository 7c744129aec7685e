package evm

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/sigweihq/coffeepay/pkg/chains"
	"github.com/sigweihq/coffeepay/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDeployments = `{
	"31337": {
		"Coffee": {
			"address": "0x5fbdb2315678afecb367f032d93f642f64180aa3",
			"abi": [
				{"type": "function", "name": "get_coffee_price", "stateMutability": "view", "inputs": [], "outputs": [{"name": "", "type": "uint256"}]}
			]
		}
	},
	"11155111": {
		"Coffee": {
			"address": "0x0000000000000000000000000000000000000001",
			"abi": []
		}
	}
}`

func TestDeploymentsProvider_Load(t *testing.T) {
	provider := NewDeploymentsProvider(constants.NetworkLocalhost, 31337)
	require.NoError(t, provider.Load(strings.NewReader(testDeployments)))

	binding, err := provider.Resolve(constants.ContractName)
	require.NoError(t, err)

	assert.Equal(t, constants.ContractName, binding.Name)
	assert.Equal(t, constants.NetworkLocalhost, binding.Network)
	// Addresses are normalized to checksum form
	assert.Equal(t, testContract, binding.Address)

	parsed, ok := binding.ABI.(abi.ABI)
	require.True(t, ok)
	assert.Contains(t, parsed.Methods, constants.FuncCoffeePrice)
	assert.NotContains(t, parsed.Methods, constants.FuncBuyCoffee)
}

func TestDeploymentsProvider_OtherChainIgnored(t *testing.T) {
	provider := NewDeploymentsProvider(constants.NetworkBase, 8453)
	require.NoError(t, provider.Load(strings.NewReader(testDeployments)))

	_, err := provider.Resolve(constants.ContractName)
	assert.ErrorIs(t, err, chains.ErrBindingUnresolved)
}

func TestDeploymentsProvider_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deployments.json")
	require.NoError(t, os.WriteFile(path, []byte(testDeployments), 0o600))

	provider := NewDeploymentsProvider(constants.NetworkSepolia, 11155111)
	require.NoError(t, provider.LoadFile(path))

	binding, err := provider.Resolve(constants.ContractName)
	require.NoError(t, err)
	// An empty ABI array is a real (if useless) ABI; only a missing one falls back
	parsed := binding.ABI.(abi.ABI)
	assert.Empty(t, parsed.Methods)

	err = provider.LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestDeploymentsProvider_Register(t *testing.T) {
	provider := NewDeploymentsProvider(constants.NetworkLocalhost, 31337)

	tests := []struct {
		name    string
		address string
		abiJSON string
		wantErr error
	}{
		{"built-in ABI", testContract, "", nil},
		{"invalid address", "0x1234", "", nil},
		{"invalid ABI", testContract, "{not json", ErrInvalidABI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := provider.Register(constants.ContractName, tt.address, tt.abiJSON)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.address != testContract:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				binding, err := provider.Resolve(constants.ContractName)
				require.NoError(t, err)
				parsed := binding.ABI.(abi.ABI)
				for _, fn := range []string{constants.FuncBuyCoffee, constants.FuncTotalCoffees, constants.FuncCoffeePrice, constants.FuncCreator} {
					assert.Contains(t, parsed.Methods, fn)
				}
			}
		})
	}
}

func TestDeploymentsProvider_ResolveReturnsCopy(t *testing.T) {
	provider := NewDeploymentsProvider(constants.NetworkLocalhost, 31337)
	require.NoError(t, provider.Register(constants.ContractName, testContract, ""))

	first, err := provider.Resolve(constants.ContractName)
	require.NoError(t, err)
	first.Address = "tampered"

	second, err := provider.Resolve(constants.ContractName)
	require.NoError(t, err)
	assert.Equal(t, testContract, second.Address)
}
