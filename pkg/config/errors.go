package config

import "errors"

var (
	// ErrInvalidNetwork indicates the network name is not recognized.
	ErrInvalidNetwork = errors.New("config: invalid network")

	// ErrInvalidEndpoint indicates an RPC endpoint is not an http(s) or ws(s) URL.
	ErrInvalidEndpoint = errors.New("config: invalid RPC endpoint")

	// ErrInvalidContractAddress indicates the contract or program address is malformed.
	ErrInvalidContractAddress = errors.New("config: invalid contract address")

	// ErrInvalidPollInterval indicates the oracle poll interval is not positive.
	ErrInvalidPollInterval = errors.New("config: poll interval must be positive")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrInvalidLogFormat indicates the log format is not recognized.
	ErrInvalidLogFormat = errors.New("config: invalid log format (must be \"auto\", \"text\", or \"json\")")

	// ErrInvalidConnector indicates the auto-connect connector is not recognized.
	ErrInvalidConnector = errors.New("config: invalid wallet connector")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")
)
