package evm

import (
	"fmt"
	"log/slog"

	"github.com/sigweihq/coffeepay/pkg/chains"
	"github.com/sigweihq/coffeepay/pkg/constants"
	"github.com/sigweihq/coffeepay/pkg/encoding"
)

// AdapterConfig configures the collaborators of one EVM network
type AdapterConfig struct {
	Endpoints       []string // empty uses constants.OfficialRPCEndpoints
	DeploymentsFile string   // optional deployments JSON
	ContractAddress string   // optional Coffee address, uses the built-in ABI
	Wallet          WalletConfig
	Logger          *slog.Logger
}

// EVMAdapter bundles the go-ethereum backed collaborators for one network
type EVMAdapter struct {
	network     string
	chainID     int64
	rpc         *RPCClient
	deployments *DeploymentsProvider
	oracle      *Oracle
	wallet      *Wallet
	submitter   *Submitter
	encoder     encoding.ABIStringEncoder
}

var _ chains.ChainAdapter = (*EVMAdapter)(nil)

// NewEVMAdapter creates an EVM chain adapter for any EVM-compatible network
// Network must be registered in constants.NetworkToChainID
func NewEVMAdapter(network string, cfg AdapterConfig) (*EVMAdapter, error) {
	chainID, ok := constants.NetworkToChainID[network]
	if !ok {
		return nil, &UnsupportedNetworkError{Network: network}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("network", network)

	endpoints := cfg.Endpoints
	if len(endpoints) == 0 {
		endpoints = constants.OfficialRPCEndpoints[network]
	}

	deployments := NewDeploymentsProvider(network, chainID)
	if cfg.DeploymentsFile != "" {
		if err := deployments.LoadFile(cfg.DeploymentsFile); err != nil {
			return nil, err
		}
	}
	if cfg.ContractAddress != "" {
		if err := deployments.Register(constants.ContractName, cfg.ContractAddress, ""); err != nil {
			return nil, fmt.Errorf("contract %s: %w", constants.ContractName, err)
		}
	}

	rpc := NewRPCClient(network, chainID, endpoints, logger)
	wallet := NewWallet(cfg.Wallet, logger)

	return &EVMAdapter{
		network:     network,
		chainID:     chainID,
		rpc:         rpc,
		deployments: deployments,
		oracle:      NewOracle(rpc, logger),
		wallet:      wallet,
		submitter:   NewSubmitter(rpc, wallet, logger),
	}, nil
}

// Network implements chains.ChainAdapter
func (a *EVMAdapter) Network() string {
	return a.network
}

// ChainID returns the numeric chain ID
func (a *EVMAdapter) ChainID() int64 {
	return a.chainID
}

// RPC returns the failover RPC client
func (a *EVMAdapter) RPC() *RPCClient {
	return a.rpc
}

// Wallet implements chains.ChainAdapter
func (a *EVMAdapter) Wallet() chains.WalletSession {
	return a.wallet
}

// Bindings implements chains.ChainAdapter
func (a *EVMAdapter) Bindings() chains.BindingProvider {
	return a.deployments
}

// Oracle implements chains.ChainAdapter
func (a *EVMAdapter) Oracle() chains.ReadOracle {
	return a.oracle
}

// Submitter implements chains.ChainAdapter
func (a *EVMAdapter) Submitter() chains.TransactionSubmitter {
	return a.submitter
}

// Encoder implements chains.ChainAdapter
func (a *EVMAdapter) Encoder() encoding.Encoder {
	return a.encoder
}
