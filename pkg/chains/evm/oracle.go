package evm

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sigweihq/coffeepay/pkg/chains"
	"github.com/sigweihq/coffeepay/pkg/types"
)

// ContractCaller executes read-only contract calls; *ethclient.Client and
// *RPCClient both satisfy it
type ContractCaller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Oracle implements chains.ReadOracle with eth_call
type Oracle struct {
	caller ContractCaller
	logger *slog.Logger
}

var _ chains.ReadOracle = (*Oracle)(nil)

// NewOracle creates a read oracle on top of caller
func NewOracle(caller ContractCaller, logger *slog.Logger) *Oracle {
	if logger == nil {
		logger = slog.Default()
	}
	return &Oracle{caller: caller, logger: logger}
}

// Read packs the call, executes it against the latest block and unpacks the
// outputs. A single output is returned as-is (addresses as hex strings);
// multiple outputs are returned as []any.
func (o *Oracle) Read(ctx context.Context, binding *types.ContractBinding, functionName string, args ...any) (any, error) {
	parsed, to, err := bindingTarget(binding)
	if err != nil {
		return nil, err
	}

	data, err := parsed.Pack(functionName, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", functionName, err)
	}

	result, err := o.caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", chains.ErrUnresolved, functionName, err)
	}
	if len(result) == 0 {
		// No code at the address, or the node has not caught up with the deployment
		return nil, fmt.Errorf("%w: %s returned no data", chains.ErrUnresolved, functionName)
	}

	values, err := parsed.Unpack(functionName, result)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s result: %w", functionName, err)
	}

	o.logger.Debug("contract read", "contract", binding.Name, "function", functionName)

	switch len(values) {
	case 0:
		return nil, fmt.Errorf("%w: %s has no outputs", chains.ErrUnresolved, functionName)
	case 1:
		if addr, ok := values[0].(common.Address); ok {
			return addr.Hex(), nil
		}
		return values[0], nil
	default:
		return values, nil
	}
}
