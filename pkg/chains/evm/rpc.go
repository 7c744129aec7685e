package evm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"math/rand"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sigweihq/coffeepay/pkg/constants"
)

// RPCClient talks to an EVM network through a list of JSON-RPC endpoints,
// failing over between them on error
type RPCClient struct {
	network   string
	chainID   int64
	endpoints []string
	logger    *slog.Logger
}

// NewRPCClient creates a new EVM RPC client
func NewRPCClient(network string, chainID int64, endpoints []string, logger *slog.Logger) *RPCClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &RPCClient{
		network:   network,
		chainID:   chainID,
		endpoints: endpoints,
		logger:    logger,
	}
}

// Verify RPCClient satisfies the oracle's caller contract
var _ ContractCaller = (*RPCClient)(nil)

// ChainID returns the numeric chain ID used for signing
func (r *RPCClient) ChainID() *big.Int {
	return big.NewInt(r.chainID)
}

// Endpoints returns the configured endpoints in priority order
func (r *RPCClient) Endpoints() []string {
	return append([]string(nil), r.endpoints...)
}

// CallContract executes an eth_call against the first endpoint that answers.
// Uses random start position for load balancing across RPC endpoints.
func (r *RPCClient) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	var result []byte
	err := r.withFailover(ctx, func(ctx context.Context, client *ethclient.Client) error {
		callCtx, cancel := context.WithTimeout(ctx, constants.CallContractTimeout)
		defer cancel()

		out, err := client.CallContract(callCtx, call, blockNumber)
		if err != nil {
			return err
		}
		result = out
		return nil
	})
	return result, err
}

// Dial returns a client for the first healthy endpoint. The caller owns the
// returned client and must Close it.
func (r *RPCClient) Dial(ctx context.Context) (*ethclient.Client, error) {
	var healthy *ethclient.Client
	err := r.withFailover(ctx, func(ctx context.Context, client *ethclient.Client) error {
		checkCtx, cancel := context.WithTimeout(ctx, constants.HealthCheckTimeout)
		defer cancel()

		if _, err := client.BlockNumber(checkCtx); err != nil {
			return err
		}
		healthy = client
		return errKeepClient
	})
	if err != errKeepClient {
		return nil, err
	}
	return healthy, nil
}

// IsHealthy reports whether the endpoint answers eth_blockNumber
func (r *RPCClient) IsHealthy(endpoint string) bool {
	client, err := ethclient.Dial(endpoint)
	if err != nil {
		return false
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), constants.HealthCheckTimeout)
	defer cancel()

	_, err = client.BlockNumber(ctx)
	return err == nil
}

// errKeepClient tells withFailover to stop without closing the client
var errKeepClient = errors.New("evm: keep client")

// withFailover runs fn against each endpoint in turn, starting at a random
// position, with a progressively longer pause between attempts
func (r *RPCClient) withFailover(ctx context.Context, fn func(context.Context, *ethclient.Client) error) error {
	if len(r.endpoints) == 0 {
		return fmt.Errorf("%w for network %s", ErrNoEndpoints, r.network)
	}

	startIdx := rand.Intn(len(r.endpoints))
	var lastErr error

	for i := 0; i < len(r.endpoints); i++ {
		if i > 0 {
			delay := time.Duration(i*constants.DelayBetweenRPCCalls) * time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		// Wrap around using modulo for round-robin
		endpoint := r.endpoints[(startIdx+i)%len(r.endpoints)]

		client, err := ethclient.DialContext(ctx, endpoint)
		if err != nil {
			lastErr = &RPCError{Endpoint: endpoint, Err: err}
			r.logger.Debug("rpc dial failed", "network", r.network, "endpoint", endpoint, "error", err)
			continue
		}

		err = fn(ctx, client)
		if err == errKeepClient {
			return err
		}
		client.Close()
		if err == nil {
			return nil
		}

		lastErr = &RPCError{Endpoint: endpoint, Err: err}
		r.logger.Debug("rpc call failed", "network", r.network, "endpoint", endpoint, "error", err)
	}

	return fmt.Errorf("all RPC endpoints failed for network %s: %w", r.network, lastErr)
}
