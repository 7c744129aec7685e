package evm

import (
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sigweihq/coffeepay/pkg/chains"
	"github.com/sigweihq/coffeepay/pkg/types"
)

// Connector IDs offered by the EVM wallet
const (
	ConnectorPrivateKey = "privatekey"
	ConnectorKeystore   = "keystore"
)

// WalletConfig holds the key material the connectors can use
type WalletConfig struct {
	PrivateKey       string // hex, with or without 0x
	KeystorePath     string
	KeystorePassword string
}

// Wallet implements chains.WalletSession with local key material.
// Connect decrypts in the background; the outcome is visible through Session.
type Wallet struct {
	cfg    WalletConfig
	logger *slog.Logger

	mu      sync.RWMutex
	status  types.ConnectionStatus
	key     *ecdsa.PrivateKey
	address common.Address
	attempt uint64 // bumped on every Connect/Disconnect so stale attempts are dropped
	done    chan struct{}
}

var _ chains.WalletSession = (*Wallet)(nil)

// NewWallet creates a disconnected wallet
func NewWallet(cfg WalletConfig, logger *slog.Logger) *Wallet {
	if logger == nil {
		logger = slog.Default()
	}
	return &Wallet{
		cfg:    cfg,
		logger: logger,
		status: types.StatusIdle,
	}
}

// Connectors implements chains.WalletSession
func (w *Wallet) Connectors() []types.ConnectorInfo {
	return []types.ConnectorInfo{
		{ID: ConnectorPrivateKey, Name: "Private key"},
		{ID: ConnectorKeystore, Name: "Keystore file"},
	}
}

// Connect implements chains.WalletSession
func (w *Wallet) Connect(connectorID string) {
	w.mu.Lock()
	if w.status == types.StatusConnecting {
		w.mu.Unlock()
		return
	}
	w.attempt++
	attempt := w.attempt
	w.status = types.StatusConnecting
	done := make(chan struct{})
	w.done = done
	w.mu.Unlock()

	go func() {
		defer close(done)

		key, err := w.loadKey(connectorID)

		w.mu.Lock()
		defer w.mu.Unlock()

		if attempt != w.attempt {
			return
		}
		if err != nil {
			w.status = types.StatusIdle
			w.logger.Warn("wallet connect failed", "connector", connectorID, "error", err)
			return
		}

		w.key = key
		w.address = crypto.PubkeyToAddress(key.PublicKey)
		w.status = types.StatusConnected
		w.logger.Info("wallet connected", "connector", connectorID, "address", w.address.Hex())
	}()
}

// Disconnect implements chains.WalletSession
func (w *Wallet) Disconnect() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.attempt++
	w.key = nil
	w.address = common.Address{}
	w.status = types.StatusIdle
}

// Session implements chains.WalletSession
func (w *Wallet) Session() types.Session {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s := types.Session{Status: w.status}
	if w.status == types.StatusConnected {
		s.Connected = true
		s.Address = w.address.Hex()
	}
	return s
}

// Wait blocks until the latest Connect attempt has finished
func (w *Wallet) Wait() {
	w.mu.RLock()
	done := w.done
	w.mu.RUnlock()
	if done != nil {
		<-done
	}
}

// TransactOpts returns signing options for the connected account
func (w *Wallet) TransactOpts(chainID *big.Int) (*bind.TransactOpts, error) {
	w.mu.RLock()
	key := w.key
	w.mu.RUnlock()

	if key == nil {
		return nil, chains.ErrNotConnected
	}
	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	return opts, nil
}

func (w *Wallet) loadKey(connectorID string) (*ecdsa.PrivateKey, error) {
	switch connectorID {
	case ConnectorPrivateKey:
		if w.cfg.PrivateKey == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingCredential, connectorID)
		}
		key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(w.cfg.PrivateKey), "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid private key: %w", err)
		}
		return key, nil

	case ConnectorKeystore:
		if w.cfg.KeystorePath == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingCredential, connectorID)
		}
		keyJSON, err := os.ReadFile(w.cfg.KeystorePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read keystore: %w", err)
		}
		k, err := keystore.DecryptKey(keyJSON, w.cfg.KeystorePassword)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt keystore: %w", err)
		}
		return k.PrivateKey, nil

	default:
		return nil, fmt.Errorf("%w: %s", chains.ErrUnknownConnector, connectorID)
	}
}
