package encoding

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var stringArguments = func() abi.Arguments {
	t, err := abi.NewType("string", "", nil)
	if err != nil {
		panic(err)
	}
	return abi.Arguments{{Name: "message", Type: t}}
}()

// ABIStringEncoder targets Solidity `string` parameters. The argument value is
// the validated Go string; the bound contract applies the length-prefixed ABI
// packing when the transaction is built.
type ABIStringEncoder struct{}

func (ABIStringEncoder) Name() string { return FormatABIString }

func (ABIStringEncoder) Encode(message string) (any, error) {
	if err := checkUTF8(message); err != nil {
		return nil, err
	}
	return message, nil
}

// Pack returns the ABI encoding of message as a lone string argument:
// offset word, length word, right-padded bytes.
func (ABIStringEncoder) Pack(message string) ([]byte, error) {
	if err := checkUTF8(message); err != nil {
		return nil, err
	}
	packed, err := stringArguments.Pack(message)
	if err != nil {
		return nil, fmt.Errorf("encoding: abi pack failed: %w", err)
	}
	return packed, nil
}

// UnpackABIString reverses Pack.
func UnpackABIString(data []byte) (string, error) {
	values, err := stringArguments.Unpack(data)
	if err != nil {
		return "", fmt.Errorf("encoding: abi unpack failed: %w", err)
	}
	s, ok := values[0].(string)
	if !ok {
		return "", fmt.Errorf("encoding: unexpected abi value %T", values[0])
	}
	return s, nil
}

func (e ABIStringEncoder) Calldata(message string) ([]string, error) {
	packed, err := e.Pack(message)
	if err != nil {
		return nil, err
	}
	words := make([]string, 0, len(packed)/32)
	for i := 0; i+32 <= len(packed); i += 32 {
		words = append(words, hexutil.Encode(packed[i:i+32]))
	}
	return words, nil
}
