package svm

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/sigweihq/coffeepay/pkg/constants"
)

// RPCClient talks to an SVM cluster through a list of endpoints, failing over
// between them on error
type RPCClient struct {
	network   string
	endpoints []string
	clients   []*rpc.Client
	logger    *slog.Logger
}

// NewRPCClient creates a new SVM RPC client
func NewRPCClient(network string, endpoints []string, logger *slog.Logger) *RPCClient {
	if logger == nil {
		logger = slog.Default()
	}
	clients := make([]*rpc.Client, len(endpoints))
	for i, endpoint := range endpoints {
		clients[i] = rpc.New(endpoint)
	}
	return &RPCClient{
		network:   network,
		endpoints: endpoints,
		clients:   clients,
		logger:    logger,
	}
}

// Endpoints returns the configured endpoints in priority order
func (r *RPCClient) Endpoints() []string {
	return append([]string(nil), r.endpoints...)
}

// GetAccountData returns the raw data of an account
func (r *RPCClient) GetAccountData(ctx context.Context, account solana.PublicKey) ([]byte, error) {
	var data []byte
	err := r.withFailover(ctx, func(ctx context.Context, client *rpc.Client) error {
		ctx, cancel := context.WithTimeout(ctx, constants.CallContractTimeout)
		defer cancel()

		info, err := client.GetAccountInfo(ctx, account)
		if err == rpc.ErrNotFound {
			return fmt.Errorf("%w: %s", ErrAccountNotFound, account)
		}
		if err != nil {
			return err
		}
		if info == nil || info.Value == nil || info.Value.Data == nil {
			return fmt.Errorf("%w: %s", ErrAccountNotFound, account)
		}
		data = info.Value.Data.GetBinary()
		return nil
	})
	return data, err
}

// LatestBlockhash returns a recent blockhash for transaction construction
func (r *RPCClient) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	var hash solana.Hash
	err := r.withFailover(ctx, func(ctx context.Context, client *rpc.Client) error {
		res, err := client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
		if err != nil {
			return err
		}
		hash = res.Value.Blockhash
		return nil
	})
	return hash, err
}

// SendTransaction broadcasts a signed transaction with preflight checks
func (r *RPCClient) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	var sig solana.Signature
	err := r.withFailover(ctx, func(ctx context.Context, client *rpc.Client) error {
		s, err := client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
			SkipPreflight:       false,
			PreflightCommitment: rpc.CommitmentConfirmed,
		})
		if err != nil {
			return err
		}
		sig = s
		return nil
	})
	return sig, err
}

// SignatureStatus returns the status of a signature, or nil if the cluster has
// not seen it yet
func (r *RPCClient) SignatureStatus(ctx context.Context, sig solana.Signature) (*rpc.SignatureStatusesResult, error) {
	var status *rpc.SignatureStatusesResult
	err := r.withFailover(ctx, func(ctx context.Context, client *rpc.Client) error {
		res, err := client.GetSignatureStatuses(ctx, true, sig)
		if err != nil {
			return err
		}
		if res != nil && len(res.Value) > 0 {
			status = res.Value[0]
		}
		return nil
	})
	return status, err
}

// IsHealthy reports whether the endpoint answers getHealth with "ok"
func (r *RPCClient) IsHealthy(endpoint string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), constants.HealthCheckTimeout)
	defer cancel()

	health, err := rpc.New(endpoint).GetHealth(ctx)
	return err == nil && health == rpc.HealthOk
}

// withFailover runs fn against each endpoint in turn, starting at a random
// position, with a progressively longer pause between attempts
func (r *RPCClient) withFailover(ctx context.Context, fn func(context.Context, *rpc.Client) error) error {
	if len(r.clients) == 0 {
		return fmt.Errorf("%w for network %s", ErrNoEndpoints, r.network)
	}

	startIdx := rand.Intn(len(r.clients))
	var lastErr error

	for i := 0; i < len(r.clients); i++ {
		if i > 0 {
			delay := time.Duration(i*constants.DelayBetweenRPCCalls) * time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		// Wrap around using modulo for round-robin
		idx := (startIdx + i) % len(r.clients)
		err := fn(ctx, r.clients[idx])
		if err == nil {
			return nil
		}
		lastErr = err
		r.logger.Debug("rpc call failed", "network", r.network, "endpoint", r.endpoints[idx], "error", err)
	}

	return fmt.Errorf("all RPC endpoints failed for network %s: %w", r.network, lastErr)
}
