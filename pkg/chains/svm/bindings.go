package svm

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/sigweihq/coffeepay/pkg/chains"
	"github.com/sigweihq/coffeepay/pkg/constants"
	"github.com/sigweihq/coffeepay/pkg/types"
)

// ProgramBindings implements chains.BindingProvider for a single deployed program
type ProgramBindings struct {
	network string
	layout  *ProgramLayout
}

var _ chains.BindingProvider = (*ProgramBindings)(nil)

// NewProgramBindings parses the base58 program and state addresses. Empty
// addresses produce a provider that never resolves.
func NewProgramBindings(network, programID, stateAccount string) (*ProgramBindings, error) {
	p := &ProgramBindings{network: network}
	if programID == "" && stateAccount == "" {
		return p, nil
	}

	program, err := solana.PublicKeyFromBase58(programID)
	if err != nil {
		return nil, fmt.Errorf("invalid program ID: %w", err)
	}
	state, err := solana.PublicKeyFromBase58(stateAccount)
	if err != nil {
		return nil, fmt.Errorf("invalid state account: %w", err)
	}
	p.layout = &ProgramLayout{ProgramID: program, StateAccount: state}
	return p, nil
}

// Resolve implements chains.BindingProvider
func (p *ProgramBindings) Resolve(contractName string) (*types.ContractBinding, error) {
	if p.layout == nil || contractName != constants.ContractName {
		return nil, fmt.Errorf("%w: %s on %s", chains.ErrBindingUnresolved, contractName, p.network)
	}
	return &types.ContractBinding{
		Name:    contractName,
		Network: p.network,
		Address: p.layout.ProgramID.String(),
		ABI:     *p.layout,
	}, nil
}
