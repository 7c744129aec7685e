package chains

import (
	"testing"

	"github.com/sigweihq/coffeepay/pkg/encoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockChainAdapter is a simple test adapter
type mockChainAdapter struct {
	network string
}

func (m *mockChainAdapter) Network() string {
	return m.network
}

func (m *mockChainAdapter) Wallet() WalletSession {
	return nil // Not needed for registry tests
}

func (m *mockChainAdapter) Bindings() BindingProvider {
	return nil // Not needed for registry tests
}

func (m *mockChainAdapter) Oracle() ReadOracle {
	return nil // Not needed for registry tests
}

func (m *mockChainAdapter) Submitter() TransactionSubmitter {
	return nil // Not needed for registry tests
}

func (m *mockChainAdapter) Encoder() encoding.Encoder {
	return encoding.ABIStringEncoder{}
}

func TestRegistryIdempotent(t *testing.T) {
	registry := NewRegistry()

	adapter1 := &mockChainAdapter{network: "test-network"}
	adapter2 := &mockChainAdapter{network: "test-network"}

	err := registry.Register(adapter1)
	assert.NoError(t, err, "First registration should succeed")

	err = registry.Register(adapter2)
	assert.NoError(t, err, "Second registration should succeed (idempotent)")

	retrieved, err := registry.Get("test-network")
	assert.NoError(t, err)
	assert.Same(t, adapter2, retrieved, "Second adapter should have replaced the first")
}

func TestRegistryRejectsNil(t *testing.T) {
	registry := NewRegistry()
	assert.Error(t, registry.Register(nil))
}

func TestRegistryConcurrentRegistration(t *testing.T) {
	registry := NewRegistry()

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func() {
			adapter := &mockChainAdapter{network: "test-network"}
			err := registry.Register(adapter)
			assert.NoError(t, err, "Concurrent registration should not fail")
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	assert.True(t, registry.IsSupported("test-network"))
}

func TestRegistryMultipleNetworks(t *testing.T) {
	registry := NewRegistry()

	networks := []string{"base", "sepolia", "solana-devnet", "localhost"}
	for _, network := range networks {
		err := registry.Register(&mockChainAdapter{network: network})
		assert.NoError(t, err)
	}

	supported := registry.GetSupportedNetworks()
	assert.Equal(t, []string{"base", "localhost", "sepolia", "solana-devnet"}, supported)

	for _, network := range networks {
		assert.True(t, registry.IsSupported(network))
	}
}

func TestRegistryUnregister(t *testing.T) {
	registry := NewRegistry()

	err := registry.Register(&mockChainAdapter{network: "test-network"})
	require.NoError(t, err)
	assert.True(t, registry.IsSupported("test-network"))

	registry.Unregister("test-network")
	assert.False(t, registry.IsSupported("test-network"))

	_, err = registry.Get("test-network")
	assert.Error(t, err)
}

func TestGlobalRegistry(t *testing.T) {
	ResetGlobalRegistry()
	defer ResetGlobalRegistry()

	assert.Nil(t, GetGlobalRegistry())
	r1 := InitGlobalRegistry()
	r2 := InitGlobalRegistry()
	assert.Same(t, r1, r2)
	assert.Same(t, r1, GetGlobalRegistry())
}
