package types

import (
	"bytes"
	"math/big"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
)

// PutFixed copies src into the fixed window dst and zero-fills the rest.
// It fails if src does not fit.
func PutFixed(dst []byte, src []byte) error {
	if len(src) > len(dst) {
		return errorsmod.Wrapf(ErrFieldTooLong, "%d bytes do not fit into %d", len(src), len(dst))
	}
	n := copy(dst, src)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
	return nil
}

// TrimFixed strips the trailing zero padding of a fixed window.
func TrimFixed(b []byte) []byte {
	return bytes.TrimRight(b, "\x00")
}

// EncodeUint128 writes v as 16 little-endian bytes.
func EncodeUint128(v sdkmath.Uint) ([16]byte, error) {
	var out [16]byte
	if err := putUintLE(out[:], v.BigInt()); err != nil {
		return out, err
	}
	return out, nil
}

// DecodeUint128 reads 16 little-endian bytes.
func DecodeUint128(b [16]byte) sdkmath.Uint {
	return sdkmath.NewUintFromBigInt(uintFromLE(b[:]))
}

// EncodeUint256 writes v as 32 little-endian bytes.
func EncodeUint256(v sdkmath.Uint) ([32]byte, error) {
	var out [32]byte
	if err := putUintLE(out[:], v.BigInt()); err != nil {
		return out, err
	}
	return out, nil
}

// DecodeUint256 reads 32 little-endian bytes.
func DecodeUint256(b [32]byte) sdkmath.Uint {
	return sdkmath.NewUintFromBigInt(uintFromLE(b[:]))
}

func putUintLE(dst []byte, v *big.Int) error {
	if v.Sign() < 0 {
		return errorsmod.Wrapf(ErrValueOverflow, "negative value %s", v)
	}
	if v.BitLen() > len(dst)*8 {
		return errorsmod.Wrapf(ErrValueOverflow, "%s needs %d bits, window is %d", v, v.BitLen(), len(dst)*8)
	}
	be := v.FillBytes(make([]byte, len(dst)))
	for i := range be {
		dst[i] = be[len(be)-1-i]
	}
	return nil
}

func uintFromLE(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i := range b {
		be[len(b)-1-i] = b[i]
	}
	return new(big.Int).SetBytes(be)
}

func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
