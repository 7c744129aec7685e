// Package config loads and validates the coffeepay client configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sigweihq/coffeepay/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Environment variables holding secrets. Secrets are never read from or
// written to the configuration file.
const (
	EnvPrivateKey       = "COFFEE_PRIVATE_KEY"
	EnvKeystorePassword = "COFFEE_KEYSTORE_PASSWORD"
)

// Config holds the client configuration.
type Config struct {
	Network           string        `yaml:"network"`
	Endpoints         []string      `yaml:"endpoints,omitempty"`
	DiscoverEndpoints bool          `yaml:"discover_endpoints,omitempty"`
	DeploymentsFile   string        `yaml:"deployments_file,omitempty"`
	ContractAddress   string        `yaml:"contract_address,omitempty"`
	ProgramID         string        `yaml:"program_id,omitempty"`
	StateAccount      string        `yaml:"state_account,omitempty"`
	PollInterval      time.Duration `yaml:"poll_interval"`
	LogLevel          string        `yaml:"log_level"`
	LogFormat         string        `yaml:"log_format"`
	Wallet            WalletConfig  `yaml:"wallet"`
}

// WalletConfig holds key locations; secrets come from the environment.
type WalletConfig struct {
	Connector        string `yaml:"connector,omitempty"` // connect on startup
	KeystorePath     string `yaml:"keystore_path,omitempty"`
	KeypairPath      string `yaml:"keypair_path,omitempty"`
	PrivateKey       string `yaml:"-"`
	KeystorePassword string `yaml:"-"`
}

// DefaultConfig returns a Config pointing at a local development node.
func DefaultConfig() Config {
	return Config{
		Network:      constants.NetworkLocalhost,
		PollInterval: constants.DefaultPollInterval,
		LogLevel:     "info",
		LogFormat:    "auto",
	}
}

// DefaultConfigPath returns ~/.coffeepay/config.yaml, or a relative path when
// the home directory is unknown.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".coffeepay", "config.yaml")
	}
	return filepath.Join(home, ".coffeepay", "config.yaml")
}

// LoadConfig reads a YAML file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg as YAML, creating parent directories as needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// ApplyEnv fills secrets from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvPrivateKey); v != "" {
		c.Wallet.PrivateKey = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv(EnvKeystorePassword); ok {
		c.Wallet.KeystorePassword = v
	}
}

// IsEVM reports whether the configured network is an EVM chain.
func (c Config) IsEVM() bool {
	return constants.IsEVMNetwork(c.Network)
}

// SlogLevel maps LogLevel onto slog levels, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
