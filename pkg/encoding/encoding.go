// Package encoding converts purchase messages into the string-payload
// encodings declared by the supported contracts.
package encoding

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrInvalidUTF8 is returned when a message is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("encoding: message is not valid UTF-8")

	// ErrUnknownFormat is returned by ForName for an unregistered encoding.
	ErrUnknownFormat = errors.New("encoding: unknown payload format")
)

// Format names accepted by ForName.
const (
	FormatByteArray = "bytearray"
	FormatABIString = "abi"
	FormatBorsh     = "borsh"
)

// Encoder turns a message into the value placed in a call's argument list.
// Calldata returns the same payload as hex words for display and debugging.
type Encoder interface {
	Name() string
	Encode(message string) (any, error)
	Calldata(message string) ([]string, error)
}

// ForName returns the encoder registered under name.
func ForName(name string) (Encoder, error) {
	switch name {
	case FormatByteArray:
		return ByteArrayEncoder{}, nil
	case FormatABIString:
		return ABIStringEncoder{}, nil
	case FormatBorsh:
		return BorshStringEncoder{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
}

func checkUTF8(message string) error {
	if !utf8.ValidString(message) {
		return ErrInvalidUTF8
	}
	return nil
}
