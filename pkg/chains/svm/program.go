package svm

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/sigweihq/coffeepay/pkg/chains"
	"github.com/sigweihq/coffeepay/pkg/types"
)

// CoffeeStateSize is the byte size of the on-chain state account:
// 8 (discriminator) + 32 (creator) + 8 (price) + 8 (total)
const CoffeeStateSize = 8 + 32 + 8 + 8

// ProgramLayout is the ABI of an SVM binding: the program and the account
// holding its state
type ProgramLayout struct {
	ProgramID    solana.PublicKey
	StateAccount solana.PublicKey
}

// CoffeeState mirrors the program's state account after the discriminator
type CoffeeState struct {
	Creator      solana.PublicKey
	CoffeePrice  uint64 // lamports
	TotalCoffees uint64
}

// anchorDiscriminator returns sha256("<namespace>:<name>")[:8]
func anchorDiscriminator(namespace, name string) [8]byte {
	h := sha256.Sum256([]byte(namespace + ":" + name))
	var d [8]byte
	copy(d[:], h[:8])
	return d
}

var coffeeStateDiscriminator = anchorDiscriminator("account", "CoffeeState")

// DecodeCoffeeState parses raw account data
func DecodeCoffeeState(data []byte) (*CoffeeState, error) {
	if len(data) < CoffeeStateSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidStateAccount, len(data))
	}
	if !bytes.Equal(data[:8], coffeeStateDiscriminator[:]) {
		return nil, fmt.Errorf("%w: discriminator mismatch", ErrInvalidStateAccount)
	}

	var state CoffeeState
	if err := bin.NewBorshDecoder(data[8:]).Decode(&state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStateAccount, err)
	}
	return &state, nil
}

// EncodeCoffeeState serializes state with its account discriminator
func EncodeCoffeeState(state CoffeeState) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(coffeeStateDiscriminator[:])
	if err := bin.NewBorshEncoder(buf).Encode(state); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NewBuyCoffeeInstruction builds buy_coffee with a Borsh-encoded message payload.
// The program moves the price from buyer to creator, so both are writable.
func NewBuyCoffeeInstruction(layout ProgramLayout, buyer, creator solana.PublicKey, payload []byte) solana.Instruction {
	discriminator := anchorDiscriminator("global", "buy_coffee")
	data := make([]byte, 0, len(discriminator)+len(payload))
	data = append(data, discriminator[:]...)
	data = append(data, payload...)

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(buyer, true, true),
		solana.NewAccountMeta(layout.StateAccount, true, false),
		solana.NewAccountMeta(creator, true, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}
	return solana.NewInstruction(layout.ProgramID, accounts, data)
}

// bindingLayout extracts the program layout a binding carries
func bindingLayout(binding *types.ContractBinding) (ProgramLayout, error) {
	if binding == nil {
		return ProgramLayout{}, chains.ErrBindingUnresolved
	}
	switch l := binding.ABI.(type) {
	case ProgramLayout:
		return l, nil
	case *ProgramLayout:
		if l != nil {
			return *l, nil
		}
	}
	return ProgramLayout{}, fmt.Errorf("%w: %T", ErrWrongLayout, binding.ABI)
}
