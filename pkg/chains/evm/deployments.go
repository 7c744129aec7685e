package evm

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sigweihq/coffeepay/pkg/chains"
	"github.com/sigweihq/coffeepay/pkg/types"
)

// deployment is one entry of a deployments file
type deployment struct {
	Address string          `json:"address"`
	ABI     json.RawMessage `json:"abi"`
}

// DeploymentsProvider implements chains.BindingProvider from a deployments
// file keyed by chain ID and contract name:
//
//	{"31337": {"Coffee": {"address": "0x...", "abi": [...]}}}
type DeploymentsProvider struct {
	network string
	chainID int64

	mu        sync.RWMutex
	contracts map[string]*types.ContractBinding
}

var _ chains.BindingProvider = (*DeploymentsProvider)(nil)

// NewDeploymentsProvider creates an empty provider for one chain
func NewDeploymentsProvider(network string, chainID int64) *DeploymentsProvider {
	return &DeploymentsProvider{
		network:   network,
		chainID:   chainID,
		contracts: make(map[string]*types.ContractBinding),
	}
}

// LoadFile reads a deployments file from disk
func (p *DeploymentsProvider) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open deployments file: %w", err)
	}
	defer f.Close()
	return p.Load(f)
}

// Load registers every contract deployed on this provider's chain.
// Entries for other chains are ignored.
func (p *DeploymentsProvider) Load(r io.Reader) error {
	var all map[string]map[string]deployment
	if err := json.NewDecoder(r).Decode(&all); err != nil {
		return fmt.Errorf("failed to decode deployments: %w", err)
	}

	contracts, ok := all[strconv.FormatInt(p.chainID, 10)]
	if !ok {
		return nil
	}

	for name, d := range contracts {
		if err := p.Register(name, d.Address, string(d.ABI)); err != nil {
			return fmt.Errorf("contract %s: %w", name, err)
		}
	}
	return nil
}

// Register adds a single deployment. An empty abiJSON uses the built-in Coffee ABI.
func (p *DeploymentsProvider) Register(name, address, abiJSON string) error {
	if !common.IsHexAddress(address) {
		return fmt.Errorf("invalid contract address %q", address)
	}
	if strings.TrimSpace(abiJSON) == "" || abiJSON == "null" {
		abiJSON = CoffeeABI
	}

	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidABI, err)
	}

	binding := &types.ContractBinding{
		Name:    name,
		Network: p.network,
		Address: common.HexToAddress(address).Hex(),
		ABI:     parsed,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.contracts[name] = binding
	return nil
}

// Resolve implements chains.BindingProvider
func (p *DeploymentsProvider) Resolve(contractName string) (*types.ContractBinding, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	binding, ok := p.contracts[contractName]
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", chains.ErrBindingUnresolved, contractName, p.network)
	}
	out := *binding
	return &out, nil
}

// bindingTarget extracts the ABI and address an EVM collaborator needs
func bindingTarget(binding *types.ContractBinding) (abi.ABI, common.Address, error) {
	if binding == nil {
		return abi.ABI{}, common.Address{}, chains.ErrBindingUnresolved
	}
	var parsed abi.ABI
	switch a := binding.ABI.(type) {
	case abi.ABI:
		parsed = a
	case *abi.ABI:
		if a == nil {
			return abi.ABI{}, common.Address{}, ErrWrongABIType
		}
		parsed = *a
	default:
		return abi.ABI{}, common.Address{}, fmt.Errorf("%w: %T", ErrWrongABIType, binding.ABI)
	}
	if !common.IsHexAddress(binding.Address) {
		return abi.ABI{}, common.Address{}, fmt.Errorf("invalid contract address %q", binding.Address)
	}
	return parsed, common.HexToAddress(binding.Address), nil
}
