package svm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gagliardetto/solana-go"
	"github.com/sigweihq/coffeepay/pkg/chains"
	"github.com/sigweihq/coffeepay/pkg/constants"
	"github.com/sigweihq/coffeepay/pkg/types"
)

// AccountReader fetches raw account data; *RPCClient satisfies it
type AccountReader interface {
	GetAccountData(ctx context.Context, account solana.PublicKey) ([]byte, error)
}

// Oracle implements chains.ReadOracle by decoding the program's state account.
// Each read maps to one field of CoffeeState.
type Oracle struct {
	reader AccountReader
	logger *slog.Logger
}

var _ chains.ReadOracle = (*Oracle)(nil)

// NewOracle creates a read oracle over reader
func NewOracle(reader AccountReader, logger *slog.Logger) *Oracle {
	if logger == nil {
		logger = slog.Default()
	}
	return &Oracle{reader: reader, logger: logger}
}

// State fetches and decodes the full state account
func (o *Oracle) State(ctx context.Context, binding *types.ContractBinding) (*CoffeeState, error) {
	layout, err := bindingLayout(binding)
	if err != nil {
		return nil, err
	}

	data, err := o.reader.GetAccountData(ctx, layout.StateAccount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", chains.ErrUnresolved, err)
	}
	return DecodeCoffeeState(data)
}

// Read implements chains.ReadOracle
func (o *Oracle) Read(ctx context.Context, binding *types.ContractBinding, functionName string, args ...any) (any, error) {
	if len(args) > 0 {
		return nil, fmt.Errorf("%w: %s takes no arguments", ErrUnsupportedCall, functionName)
	}

	state, err := o.State(ctx, binding)
	if err != nil {
		return nil, err
	}

	o.logger.Debug("state read", "program", binding.Address, "function", functionName)

	switch functionName {
	case constants.FuncTotalCoffees:
		return state.TotalCoffees, nil
	case constants.FuncCoffeePrice:
		return state.CoffeePrice, nil
	case constants.FuncCreator:
		return state.Creator.String(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCall, functionName)
	}
}
