package evm

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/sigweihq/coffeepay/pkg/chains"
	"github.com/sigweihq/coffeepay/pkg/constants"
	"github.com/sigweihq/coffeepay/pkg/types"
)

// Backend is what a bound contract needs to send a transaction and wait for it
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Signer produces signing options for the connected account
type Signer interface {
	TransactOpts(chainID *big.Int) (*bind.TransactOpts, error)
}

// Submitter implements chains.TransactionSubmitter: it signs the call with the
// connected wallet, broadcasts it and blocks until it is mined
type Submitter struct {
	dial    func(ctx context.Context) (Backend, func(), error)
	signer  Signer
	chainID *big.Int
	logger  *slog.Logger
}

var _ chains.TransactionSubmitter = (*Submitter)(nil)

// NewSubmitter creates a submitter that dials a healthy endpoint per submission
func NewSubmitter(rpc *RPCClient, signer Signer, logger *slog.Logger) *Submitter {
	s := newSubmitter(rpc.ChainID(), signer, logger)
	s.dial = func(ctx context.Context) (Backend, func(), error) {
		client, err := rpc.Dial(ctx)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	}
	return s
}

// NewSubmitterWithBackend creates a submitter bound to a single backend
func NewSubmitterWithBackend(backend Backend, chainID *big.Int, signer Signer, logger *slog.Logger) *Submitter {
	s := newSubmitter(chainID, signer, logger)
	s.dial = func(context.Context) (Backend, func(), error) {
		return backend, func() {}, nil
	}
	return s
}

func newSubmitter(chainID *big.Int, signer Signer, logger *slog.Logger) *Submitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Submitter{
		signer:  signer,
		chainID: chainID,
		logger:  logger,
	}
}

// Submit implements chains.TransactionSubmitter
func (s *Submitter) Submit(ctx context.Context, binding *types.ContractBinding, call types.CallDescription) (*types.SubmitResult, error) {
	parsed, to, err := bindingTarget(binding)
	if err != nil {
		return nil, err
	}

	opts, err := s.signer.TransactOpts(s.chainID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.SubmitTimeout)
	defer cancel()
	opts.Context = ctx

	backend, closeBackend, err := s.dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reach network: %w", err)
	}
	defer closeBackend()

	contract := bind.NewBoundContract(to, parsed, backend, backend, backend)
	tx, err := contract.Transact(opts, call.FunctionName, call.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", call.FunctionName, err)
	}

	txHash := tx.Hash().Hex()
	s.logger.Info("transaction sent", "function", call.FunctionName, "from", opts.From.Hex(), "txHash", txHash)

	receipt, err := bind.WaitMined(ctx, backend, tx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for %s: %w", txHash, err)
	}
	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: %s", ErrTransactionReverted, txHash)
	}

	s.logger.Info("transaction confirmed", "txHash", txHash, "block", receipt.BlockNumber, "gasUsed", receipt.GasUsed)

	return &types.SubmitResult{TxHash: txHash}, nil
}
