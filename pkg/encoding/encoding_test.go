package encoding

import (
	"encoding/binary"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteArray(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		expectedWords  int
		expectedPendLn uint8
	}{
		{name: "empty", input: "", expectedWords: 0, expectedPendLn: 0},
		{name: "short message", input: "Thanks!", expectedWords: 0, expectedPendLn: 7},
		{name: "exactly one word", input: strings.Repeat("a", 31), expectedWords: 1, expectedPendLn: 0},
		{name: "one word plus one byte", input: strings.Repeat("b", 32), expectedWords: 1, expectedPendLn: 1},
		{name: "max message length", input: strings.Repeat("c", 100), expectedWords: 3, expectedPendLn: 7},
		{name: "multibyte runes", input: "☕ thank you ☕", expectedWords: 0, expectedPendLn: uint8(len("☕ thank you ☕"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ba := NewByteArray(tt.input)
			assert.Len(t, ba.Data, tt.expectedWords)
			assert.Equal(t, tt.expectedPendLn, ba.PendingWordLen)

			decoded, err := ba.Decode()
			require.NoError(t, err)
			assert.Equal(t, tt.input, decoded)
		})
	}
}

func TestByteArray_ShortStringWord(t *testing.T) {
	// "hello" as a big-endian short string
	ba := NewByteArray("hello")
	assert.Equal(t, "68656c6c6f", ba.PendingWord.Text(16))

	felts := ba.Felts()
	require.Len(t, felts, 3)
	assert.Equal(t, int64(0), felts[0].Int64())
	assert.Equal(t, int64(5), felts[2].Int64())
}

func TestByteArrayFromFelts(t *testing.T) {
	msg := strings.Repeat("x", 40)
	parsed, err := ByteArrayFromFelts(NewByteArray(msg).Felts())
	require.NoError(t, err)
	assert.Equal(t, msg, parsed.String())

	tests := []struct {
		name  string
		felts []*big.Int
	}{
		{name: "too short", felts: []*big.Int{big.NewInt(0)}},
		{name: "count mismatch", felts: []*big.Int{big.NewInt(2), big.NewInt(1), big.NewInt(0), big.NewInt(0)}},
		{name: "pending length too large", felts: []*big.Int{big.NewInt(0), big.NewInt(0), big.NewInt(31)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ByteArrayFromFelts(tt.felts)
			assert.ErrorIs(t, err, ErrMalformedByteArray)
		})
	}
}

func TestByteArray_DecodeRejectsOversizedPendingWord(t *testing.T) {
	ba := ByteArray{PendingWord: big.NewInt(0x010203), PendingWordLen: 2}
	_, err := ba.Decode()
	assert.ErrorIs(t, err, ErrMalformedByteArray)
	assert.Equal(t, "", ba.String())
}

func TestABIStringEncoder(t *testing.T) {
	enc := ABIStringEncoder{}

	v, err := enc.Encode("Thanks!")
	require.NoError(t, err)
	assert.Equal(t, "Thanks!", v)

	packed, err := enc.Pack("Thanks!")
	require.NoError(t, err)
	require.Len(t, packed, 96)
	assert.Equal(t, int64(32), new(big.Int).SetBytes(packed[:32]).Int64())
	assert.Equal(t, int64(7), new(big.Int).SetBytes(packed[32:64]).Int64())

	unpacked, err := UnpackABIString(packed)
	require.NoError(t, err)
	assert.Equal(t, "Thanks!", unpacked)

	words, err := enc.Calldata("Thanks!")
	require.NoError(t, err)
	assert.Len(t, words, 3)
	assert.True(t, strings.HasPrefix(words[0], "0x"))
}

func TestBorshStringEncoder(t *testing.T) {
	enc := BorshStringEncoder{}

	v, err := enc.Encode("Thanks!")
	require.NoError(t, err)
	raw, ok := v.([]byte)
	require.True(t, ok)
	require.Len(t, raw, 4+7)
	assert.Equal(t, uint32(7), binary.LittleEndian.Uint32(raw[:4]))
	assert.Equal(t, "Thanks!", string(raw[4:]))

	decoded, err := DecodeBorshString(raw)
	require.NoError(t, err)
	assert.Equal(t, "Thanks!", decoded)

	words, err := enc.Calldata("Thanks!")
	require.NoError(t, err)
	assert.Equal(t, []string{"0x070000005468616e6b7321"}, words)
}

func TestEncodersRejectInvalidUTF8(t *testing.T) {
	bad := string([]byte{0xff, 0xfe})
	for _, name := range []string{FormatByteArray, FormatABIString, FormatBorsh} {
		t.Run(name, func(t *testing.T) {
			enc, err := ForName(name)
			require.NoError(t, err)
			assert.Equal(t, name, enc.Name())

			_, err = enc.Encode(bad)
			assert.ErrorIs(t, err, ErrInvalidUTF8)
			_, err = enc.Calldata(bad)
			assert.ErrorIs(t, err, ErrInvalidUTF8)
		})
	}
}

func TestForName_Unknown(t *testing.T) {
	_, err := ForName("rlp")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
