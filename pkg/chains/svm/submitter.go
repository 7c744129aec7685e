package svm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/sigweihq/coffeepay/pkg/chains"
	"github.com/sigweihq/coffeepay/pkg/constants"
	"github.com/sigweihq/coffeepay/pkg/encoding"
	"github.com/sigweihq/coffeepay/pkg/types"
)

// Cluster is the subset of cluster RPC the submitter needs; *RPCClient satisfies it
type Cluster interface {
	AccountReader
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	SignatureStatus(ctx context.Context, sig solana.Signature) (*rpc.SignatureStatusesResult, error)
}

// KeySource provides the connected account's key
type KeySource interface {
	PrivateKey() (solana.PrivateKey, error)
}

// Submitter implements chains.TransactionSubmitter for the coffee program
type Submitter struct {
	cluster      Cluster
	keys         KeySource
	logger       *slog.Logger
	pollInterval time.Duration
	maxAttempts  int
}

var _ chains.TransactionSubmitter = (*Submitter)(nil)

// NewSubmitter creates a submitter signing with keys
func NewSubmitter(cluster Cluster, keys KeySource, logger *slog.Logger) *Submitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Submitter{
		cluster:      cluster,
		keys:         keys,
		logger:       logger,
		pollInterval: constants.ConfirmPollInterval,
		maxAttempts:  constants.MaxConfirmAttempts,
	}
}

// Submit implements chains.TransactionSubmitter
func (s *Submitter) Submit(ctx context.Context, binding *types.ContractBinding, call types.CallDescription) (*types.SubmitResult, error) {
	layout, err := bindingLayout(binding)
	if err != nil {
		return nil, err
	}
	if call.FunctionName != constants.FuncBuyCoffee {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCall, call.FunctionName)
	}
	payload, err := messagePayload(call.Args)
	if err != nil {
		return nil, err
	}

	key, err := s.keys.PrivateKey()
	if err != nil {
		return nil, err
	}
	buyer := key.PublicKey()

	ctx, cancel := context.WithTimeout(ctx, constants.SubmitTimeout)
	defer cancel()

	data, err := s.cluster.GetAccountData(ctx, layout.StateAccount)
	if err != nil {
		return nil, fmt.Errorf("failed to read program state: %w", err)
	}
	state, err := DecodeCoffeeState(data)
	if err != nil {
		return nil, err
	}

	blockhash, err := s.cluster.LatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{NewBuyCoffeeInstruction(layout, buyer, state.Creator, payload)},
		blockhash,
		solana.TransactionPayer(buyer),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}

	_, err = tx.Sign(func(pub solana.PublicKey) *solana.PrivateKey {
		if pub.Equals(buyer) {
			return &key
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	sig, err := s.cluster.SendTransaction(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}
	s.logger.Info("transaction sent", "function", call.FunctionName, "from", buyer.String(), "signature", sig.String())

	if err := s.waitConfirmed(ctx, sig); err != nil {
		return nil, err
	}

	s.logger.Info("transaction confirmed", "signature", sig.String())
	return &types.SubmitResult{TxHash: sig.String()}, nil
}

func (s *Submitter) waitConfirmed(ctx context.Context, sig solana.Signature) error {
	for i := 0; i < s.maxAttempts; i++ {
		status, err := s.cluster.SignatureStatus(ctx, sig)
		if err != nil {
			s.logger.Debug("signature status unavailable", "signature", sig.String(), "error", err)
		} else if status != nil {
			if status.Err != nil {
				return fmt.Errorf("%w: %s: %v", ErrTransactionFailed, sig, status.Err)
			}
			switch status.ConfirmationStatus {
			case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %s: %w", ErrNotConfirmed, sig, ctx.Err())
		case <-time.After(s.pollInterval):
		}
	}
	return fmt.Errorf("%w: %s after %d checks", ErrNotConfirmed, sig, s.maxAttempts)
}

// messagePayload accepts a pre-encoded Borsh payload or a plain string
func messagePayload(args []any) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: buy_coffee takes one argument, got %d", ErrUnsupportedCall, len(args))
	}
	switch v := args[0].(type) {
	case []byte:
		return v, nil
	case string:
		encoded, err := encoding.BorshStringEncoder{}.Encode(v)
		if err != nil {
			return nil, err
		}
		return encoded.([]byte), nil
	default:
		return nil, fmt.Errorf("%w: unexpected message type %T", ErrUnsupportedCall, args[0])
	}
}
