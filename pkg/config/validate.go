package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
	"github.com/sigweihq/coffeepay/pkg/constants"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"auto": true,
	"text": true,
	"json": true,
}

var evmConnectors = map[string]bool{"privatekey": true, "keystore": true}
var svmConnectors = map[string]bool{"privatekey": true, "keygen": true}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	_, official := constants.OfficialRPCEndpoints[cfg.Network]
	if !cfg.IsEVM() && !official {
		return fmt.Errorf("%w: %q", ErrInvalidNetwork, cfg.Network)
	}

	for _, endpoint := range cfg.Endpoints {
		if err := validateEndpoint(endpoint); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidEndpoint, err)
		}
	}

	if cfg.IsEVM() {
		if cfg.ContractAddress != "" && !common.IsHexAddress(cfg.ContractAddress) {
			return fmt.Errorf("%w: %q", ErrInvalidContractAddress, cfg.ContractAddress)
		}
	} else {
		for _, addr := range []string{cfg.ProgramID, cfg.StateAccount} {
			if addr == "" {
				continue
			}
			if _, err := solana.PublicKeyFromBase58(addr); err != nil {
				return fmt.Errorf("%w: %q", ErrInvalidContractAddress, addr)
			}
		}
	}

	if cfg.PollInterval <= 0 {
		return ErrInvalidPollInterval
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	if !validLogFormats[strings.ToLower(cfg.LogFormat)] {
		return ErrInvalidLogFormat
	}

	if c := cfg.Wallet.Connector; c != "" {
		known := svmConnectors
		if cfg.IsEVM() {
			known = evmConnectors
		}
		if !known[c] {
			return fmt.Errorf("%w: %q on %s", ErrInvalidConnector, c, cfg.Network)
		}
	}

	return nil
}

// validateEndpoint checks that endpoint is an absolute http(s) or ws(s) URL.
func validateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return err
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return fmt.Errorf("unsupported scheme in %q", endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", endpoint)
	}
	return nil
}
