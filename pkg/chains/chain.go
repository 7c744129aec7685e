package chains

import (
	"context"
	"errors"

	"github.com/sigweihq/coffeepay/pkg/encoding"
	"github.com/sigweihq/coffeepay/pkg/types"
)

// Design inspired by renproject/multichain: one adapter per network bundles
// every chain-specific collaborator the page controller needs.

var (
	// ErrUnresolved is returned by a ReadOracle when a value is not available yet
	ErrUnresolved = errors.New("chains: value unresolved")

	// ErrBindingUnresolved is returned when a contract name has no deployment
	ErrBindingUnresolved = errors.New("chains: contract binding unresolved")

	// ErrNotConnected is returned by submitters when no wallet session is active
	ErrNotConnected = errors.New("chains: wallet not connected")

	// ErrUnknownConnector is returned when connecting with an unregistered connector
	ErrUnknownConnector = errors.New("chains: unknown connector")
)

// ChainAdapter provides the chain-specific collaborators for one network
type ChainAdapter interface {
	// Network returns the network name (e.g., "base", "solana-devnet")
	Network() string

	// Wallet returns the wallet session adapter
	Wallet() WalletSession

	// Bindings returns the contract binding provider
	Bindings() BindingProvider

	// Oracle returns the read oracle
	Oracle() ReadOracle

	// Submitter returns the transaction submitter
	Submitter() TransactionSubmitter

	// Encoder returns the contract's declared string-payload encoding
	Encoder() encoding.Encoder
}

// WalletSession is the wallet session adapter.
// Connect is fire-and-forget: outcome is observed through Session, and the
// adapter owns retry and error surfacing for connection failures.
type WalletSession interface {
	Connectors() []types.ConnectorInfo
	Connect(connectorID string)
	Disconnect()
	Session() types.Session
}

// BindingProvider resolves a logical contract name to its deployment
type BindingProvider interface {
	Resolve(contractName string) (*types.ContractBinding, error)
}

// ReadOracle returns the current on-chain value of a read-only function
type ReadOracle interface {
	Read(ctx context.Context, binding *types.ContractBinding, functionName string, args ...any) (any, error)
}

// TransactionSubmitter drives a populated call through signing, broadcast and confirmation
type TransactionSubmitter interface {
	Submit(ctx context.Context, binding *types.ContractBinding, call types.CallDescription) (*types.SubmitResult, error)
}
