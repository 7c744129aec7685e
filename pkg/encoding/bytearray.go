package encoding

import (
	"errors"
	"fmt"
	"math/big"
)

// BytesPerWord is the number of bytes packed into one field element.
const BytesPerWord = 31

// ErrMalformedByteArray is returned when decoding inconsistent ByteArray data.
var ErrMalformedByteArray = errors.New("encoding: malformed byte array")

// ByteArray is the chunked string layout used by Cairo contracts: full 31-byte
// words, followed by a pending word holding the remaining bytes.
type ByteArray struct {
	Data           []*big.Int
	PendingWord    *big.Int
	PendingWordLen uint8
}

// NewByteArray splits s into 31-byte big-endian words.
func NewByteArray(s string) ByteArray {
	raw := []byte(s)
	full := len(raw) / BytesPerWord

	ba := ByteArray{Data: make([]*big.Int, 0, full)}
	for i := 0; i < full; i++ {
		chunk := raw[i*BytesPerWord : (i+1)*BytesPerWord]
		ba.Data = append(ba.Data, new(big.Int).SetBytes(chunk))
	}

	rest := raw[full*BytesPerWord:]
	ba.PendingWord = new(big.Int).SetBytes(rest)
	ba.PendingWordLen = uint8(len(rest))
	return ba
}

// Felts serializes the byte array as calldata:
// [len(data), data..., pending_word, pending_word_len].
func (b ByteArray) Felts() []*big.Int {
	out := make([]*big.Int, 0, len(b.Data)+3)
	out = append(out, big.NewInt(int64(len(b.Data))))
	for _, w := range b.Data {
		out = append(out, new(big.Int).Set(w))
	}
	pending := b.PendingWord
	if pending == nil {
		pending = new(big.Int)
	}
	out = append(out, new(big.Int).Set(pending), big.NewInt(int64(b.PendingWordLen)))
	return out
}

// String reassembles the original text.
func (b ByteArray) String() string {
	s, err := b.Decode()
	if err != nil {
		return ""
	}
	return s
}

// Decode reassembles the original text, validating word sizes.
func (b ByteArray) Decode() (string, error) {
	if b.PendingWordLen >= BytesPerWord {
		return "", fmt.Errorf("%w: pending word length %d", ErrMalformedByteArray, b.PendingWordLen)
	}

	buf := make([]byte, 0, len(b.Data)*BytesPerWord+int(b.PendingWordLen))
	for i, w := range b.Data {
		if w == nil || w.Sign() < 0 || w.BitLen() > BytesPerWord*8 {
			return "", fmt.Errorf("%w: word %d out of range", ErrMalformedByteArray, i)
		}
		buf = append(buf, w.FillBytes(make([]byte, BytesPerWord))...)
	}

	if b.PendingWordLen > 0 {
		if b.PendingWord == nil || b.PendingWord.BitLen() > int(b.PendingWordLen)*8 {
			return "", fmt.Errorf("%w: pending word exceeds %d bytes", ErrMalformedByteArray, b.PendingWordLen)
		}
		buf = append(buf, b.PendingWord.FillBytes(make([]byte, b.PendingWordLen))...)
	}
	return string(buf), nil
}

// ByteArrayFromFelts parses calldata produced by Felts.
func ByteArrayFromFelts(felts []*big.Int) (ByteArray, error) {
	if len(felts) < 3 || !felts[0].IsInt64() {
		return ByteArray{}, fmt.Errorf("%w: %d felts", ErrMalformedByteArray, len(felts))
	}
	n := int(felts[0].Int64())
	if n < 0 || len(felts) != n+3 {
		return ByteArray{}, fmt.Errorf("%w: expected %d felts, got %d", ErrMalformedByteArray, n+3, len(felts))
	}
	pendingLen := felts[n+2]
	if !pendingLen.IsInt64() || pendingLen.Int64() < 0 || pendingLen.Int64() >= BytesPerWord {
		return ByteArray{}, fmt.Errorf("%w: pending word length %s", ErrMalformedByteArray, pendingLen)
	}
	return ByteArray{
		Data:           felts[1 : n+1],
		PendingWord:    felts[n+1],
		PendingWordLen: uint8(pendingLen.Int64()),
	}, nil
}

// ByteArrayEncoder produces ByteArray payloads.
type ByteArrayEncoder struct{}

func (ByteArrayEncoder) Name() string { return FormatByteArray }

func (ByteArrayEncoder) Encode(message string) (any, error) {
	if err := checkUTF8(message); err != nil {
		return nil, err
	}
	return NewByteArray(message), nil
}

func (ByteArrayEncoder) Calldata(message string) ([]string, error) {
	if err := checkUTF8(message); err != nil {
		return nil, err
	}
	felts := NewByteArray(message).Felts()
	out := make([]string, len(felts))
	for i, f := range felts {
		out[i] = "0x" + f.Text(16)
	}
	return out, nil
}
