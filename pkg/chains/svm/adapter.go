package svm

import (
	"log/slog"

	"github.com/sigweihq/coffeepay/pkg/chains"
	"github.com/sigweihq/coffeepay/pkg/constants"
	"github.com/sigweihq/coffeepay/pkg/encoding"
)

// AdapterConfig configures the collaborators of one SVM cluster
type AdapterConfig struct {
	Endpoints    []string // empty uses constants.OfficialRPCEndpoints
	ProgramID    string
	StateAccount string
	Wallet       WalletConfig
	Logger       *slog.Logger
}

// SVMAdapter bundles the solana-go backed collaborators for one cluster
type SVMAdapter struct {
	network   string
	rpc       *RPCClient
	bindings  *ProgramBindings
	oracle    *Oracle
	wallet    *Wallet
	submitter *Submitter
	encoder   encoding.BorshStringEncoder
}

var _ chains.ChainAdapter = (*SVMAdapter)(nil)

// NewSVMAdapter creates a new SVM chain adapter
func NewSVMAdapter(network string, cfg AdapterConfig) (*SVMAdapter, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("network", network)

	endpoints := cfg.Endpoints
	if len(endpoints) == 0 {
		endpoints = constants.OfficialRPCEndpoints[network]
	}

	bindings, err := NewProgramBindings(network, cfg.ProgramID, cfg.StateAccount)
	if err != nil {
		return nil, err
	}

	rpc := NewRPCClient(network, endpoints, logger)
	wallet := NewWallet(cfg.Wallet, logger)

	return &SVMAdapter{
		network:   network,
		rpc:       rpc,
		bindings:  bindings,
		oracle:    NewOracle(rpc, logger),
		wallet:    wallet,
		submitter: NewSubmitter(rpc, wallet, logger),
	}, nil
}

// Network implements chains.ChainAdapter
func (a *SVMAdapter) Network() string {
	return a.network
}

// RPC returns the failover RPC client
func (a *SVMAdapter) RPC() *RPCClient {
	return a.rpc
}

// Wallet implements chains.ChainAdapter
func (a *SVMAdapter) Wallet() chains.WalletSession {
	return a.wallet
}

// Bindings implements chains.ChainAdapter
func (a *SVMAdapter) Bindings() chains.BindingProvider {
	return a.bindings
}

// Oracle implements chains.ChainAdapter
func (a *SVMAdapter) Oracle() chains.ReadOracle {
	return a.oracle
}

// Submitter implements chains.ChainAdapter
func (a *SVMAdapter) Submitter() chains.TransactionSubmitter {
	return a.submitter
}

// Encoder implements chains.ChainAdapter
func (a *SVMAdapter) Encoder() encoding.Encoder {
	return a.encoder
}
