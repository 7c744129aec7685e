package evm

import (
	"errors"
	"fmt"
)

var (
	// ErrNoEndpoints is returned when a network has no RPC endpoints configured
	ErrNoEndpoints = errors.New("evm: no RPC endpoints available")

	// ErrInvalidABI is returned when a deployment carries an unparsable ABI
	ErrInvalidABI = errors.New("evm: invalid contract ABI")

	// ErrWrongABIType is returned when a binding's ABI is not an abi.ABI
	ErrWrongABIType = errors.New("evm: binding does not carry an EVM ABI")

	// ErrTransactionReverted is returned when a mined transaction has a failed status
	ErrTransactionReverted = errors.New("evm: transaction reverted")

	// ErrMissingCredential is returned when a connector has no key material configured
	ErrMissingCredential = errors.New("evm: connector has no key material configured")
)

// UnsupportedNetworkError is returned when a network is not supported
type UnsupportedNetworkError struct {
	Network string
}

func (e *UnsupportedNetworkError) Error() string {
	return fmt.Sprintf("unsupported network: %s", e.Network)
}

// RPCError represents an RPC-related error
type RPCError struct {
	Endpoint string
	Err      error
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error on %s: %v", e.Endpoint, e.Err)
}

func (e *RPCError) Unwrap() error {
	return e.Err
}
