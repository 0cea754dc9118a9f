package types

import (
	"bytes"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	"github.com/tendermint/tendermint/crypto/tmhash"
)

const (
	// AddressLen is the width of every program and account identifier.
	AddressLen = 32

	// Bech32PrefixAddress is the human readable part used when printing identifiers.
	Bech32PrefixAddress = "ttp"
)

// Address identifies a program or an account on the ledger.
type Address [AddressLen]byte

// DeriveAddress returns a deterministic address for the given seed.
func DeriveAddress(seed string) Address {
	var addr Address
	copy(addr[:], tmhash.Sum([]byte(seed)))
	return addr
}

// AddressFromBytes copies bz into an Address. bz must be exactly AddressLen bytes.
func AddressFromBytes(bz []byte) (Address, error) {
	var addr Address
	if len(bz) != AddressLen {
		return addr, errorsmod.Wrapf(ErrInvalidAddress, "expected %d bytes, got %d", AddressLen, len(bz))
	}
	copy(addr[:], bz)
	return addr, nil
}

// ParseAddress decodes a bech32 address string.
func ParseAddress(s string) (Address, error) {
	hrp, bz, err := bech32.DecodeAndConvert(s)
	if err != nil {
		return Address{}, errorsmod.Wrapf(ErrInvalidAddress, "%s: %s", s, err)
	}
	if hrp != Bech32PrefixAddress {
		return Address{}, errorsmod.Wrapf(ErrInvalidAddress, "invalid prefix %q, expected %q", hrp, Bech32PrefixAddress)
	}
	return AddressFromBytes(bz)
}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) Equals(other Address) bool {
	return bytes.Equal(a[:], other[:])
}

// String returns the bech32 form of the address.
func (a Address) String() string {
	s, err := bech32.ConvertAndEncode(Bech32PrefixAddress, a[:])
	if err != nil {
		return fmt.Sprintf("%X", a[:])
	}
	return s
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	addr, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
