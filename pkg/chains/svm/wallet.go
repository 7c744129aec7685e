package svm

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/sigweihq/coffeepay/pkg/chains"
	"github.com/sigweihq/coffeepay/pkg/types"
)

// Connector IDs offered by the SVM wallet
const (
	ConnectorKeygen     = "keygen"
	ConnectorPrivateKey = "privatekey"
)

// WalletConfig holds the key material the connectors can use
type WalletConfig struct {
	KeypairPath string // solana-keygen JSON file
	PrivateKey  string // hex, 32-byte seed or 64-byte key
}

// Wallet implements chains.WalletSession with a local ed25519 keypair
type Wallet struct {
	cfg    WalletConfig
	logger *slog.Logger

	mu      sync.RWMutex
	status  types.ConnectionStatus
	key     solana.PrivateKey
	attempt uint64
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
		{ID: ConnectorKeygen, Name: "Keypair file"},
		{ID: ConnectorPrivateKey, Name: "Private key"},
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
		w.status = types.StatusConnected
		w.logger.Info("wallet connected", "connector", connectorID, "address", key.PublicKey().String())
	}()
}

// Disconnect implements chains.WalletSession
func (w *Wallet) Disconnect() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.attempt++
	w.key = nil
	w.status = types.StatusIdle
}

// Session implements chains.WalletSession
func (w *Wallet) Session() types.Session {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s := types.Session{Status: w.status}
	if w.status == types.StatusConnected {
		s.Connected = true
		s.Address = w.key.PublicKey().String()
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

// PrivateKey returns the connected account's key
func (w *Wallet) PrivateKey() (solana.PrivateKey, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.key == nil {
		return nil, chains.ErrNotConnected
	}
	return w.key, nil
}

func (w *Wallet) loadKey(connectorID string) (solana.PrivateKey, error) {
	switch connectorID {
	case ConnectorKeygen:
		if w.cfg.KeypairPath == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingCredential, connectorID)
		}
		key, err := solana.PrivateKeyFromSolanaKeygenFile(w.cfg.KeypairPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read keypair file: %w", err)
		}
		return key, nil

	case ConnectorPrivateKey:
		if w.cfg.PrivateKey == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingCredential, connectorID)
		}
		return ParsePrivateKeyHex(w.cfg.PrivateKey)

	default:
		return nil, fmt.Errorf("%w: %s", chains.ErrUnknownConnector, connectorID)
	}
}

// ParsePrivateKeyHex accepts a 32-byte seed or a full 64-byte ed25519 key
func ParsePrivateKeyHex(privateKeyHex string) (solana.PrivateKey, error) {
	privateKeyBytes, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key hex: %w", err)
	}

	switch len(privateKeyBytes) {
	case ed25519.SeedSize:
		return solana.PrivateKey(ed25519.NewKeyFromSeed(privateKeyBytes)), nil
	case ed25519.PrivateKeySize:
		return solana.PrivateKey(privateKeyBytes), nil
	default:
		return nil, fmt.Errorf("invalid private key length: %d (expected 32 or 64 bytes)", len(privateKeyBytes))
	}
}
