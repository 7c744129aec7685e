package svm

import "errors"

var (
	// ErrNoEndpoints is returned when a network has no RPC endpoints configured
	ErrNoEndpoints = errors.New("svm: no RPC endpoints available")

	// ErrAccountNotFound is returned when the program state account does not exist
	ErrAccountNotFound = errors.New("svm: state account not found")

	// ErrInvalidStateAccount is returned when account data is not a CoffeeState
	ErrInvalidStateAccount = errors.New("svm: account data is not a coffee state")

	// ErrWrongLayout is returned when a binding does not carry a ProgramLayout
	ErrWrongLayout = errors.New("svm: binding does not carry a program layout")

	// ErrUnsupportedCall is returned for calls the program does not expose
	ErrUnsupportedCall = errors.New("svm: unsupported program call")

	// ErrTransactionFailed is returned when a confirmed transaction carries an error
	ErrTransactionFailed = errors.New("svm: transaction failed")

	// ErrNotConfirmed is returned when a transaction is not confirmed in time
	ErrNotConfirmed = errors.New("svm: transaction not confirmed")

	// ErrMissingCredential is returned when a connector has no key material configured
	ErrMissingCredential = errors.New("svm: connector has no key material configured")
)
