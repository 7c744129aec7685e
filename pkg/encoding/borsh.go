package encoding

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	bin "github.com/gagliardetto/binary"
)

// BorshStringEncoder targets Anchor programs: a u32 little-endian length
// followed by the raw bytes. Encode returns the serialized bytes so they can be
// appended to an instruction discriminator as-is.
type BorshStringEncoder struct{}

func (BorshStringEncoder) Name() string { return FormatBorsh }

func (BorshStringEncoder) Encode(message string) (any, error) {
	if err := checkUTF8(message); err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	if err := bin.NewBorshEncoder(buf).Encode(message); err != nil {
		return nil, fmt.Errorf("encoding: borsh encode failed: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeBorshString reverses Encode.
func DecodeBorshString(data []byte) (string, error) {
	var s string
	if err := bin.NewBorshDecoder(data).Decode(&s); err != nil {
		return "", fmt.Errorf("encoding: borsh decode failed: %w", err)
	}
	return s, nil
}

func (e BorshStringEncoder) Calldata(message string) ([]string, error) {
	v, err := e.Encode(message)
	if err != nil {
		return nil, err
	}
	return []string{hexutil.Encode(v.([]byte))}, nil
}
