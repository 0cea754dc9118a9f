package types

import (
	"math/big"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
)

func TestPutFixed(t *testing.T) {
	dst := []byte{9, 9, 9, 9}
	require.NoError(t, PutFixed(dst, []byte("ab")))
	require.Equal(t, []byte{'a', 'b', 0, 0}, dst)
	require.Equal(t, []byte("ab"), TrimFixed(dst))

	err := PutFixed(dst, []byte("abcde"))
	require.ErrorIs(t, err, ErrFieldTooLong)
	require.Equal(t, []byte{'a', 'b', 0, 0}, dst)
}

func TestUint128LittleEndian(t *testing.T) {
	bz, err := EncodeUint128(sdkmath.NewUint(15439))
	require.NoError(t, err)

	expected := [16]byte{0x4F, 0x3C}
	require.Equal(t, expected, bz)
	require.Equal(t, sdkmath.NewUint(15439), DecodeUint128(bz))
}

func TestUint128Overflow(t *testing.T) {
	tooBig := new(big.Int).Lsh(big.NewInt(1), 128)
	_, err := EncodeUint128(sdkmath.NewUintFromBigInt(tooBig))
	require.ErrorIs(t, err, ErrValueOverflow)

	max := new(big.Int).Sub(tooBig, big.NewInt(1))
	bz, err := EncodeUint128(sdkmath.NewUintFromBigInt(max))
	require.NoError(t, err)
	for _, b := range bz {
		require.Equal(t, byte(0xFF), b)
	}
	require.Equal(t, 0, max.Cmp(DecodeUint128(bz).BigInt()))
}

func TestUint256RoundTrip(t *testing.T) {
	v, ok := new(big.Int).SetString("115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)
	require.True(t, ok)

	bz, err := EncodeUint256(sdkmath.NewUintFromBigInt(v))
	require.NoError(t, err)
	require.Equal(t, 0, v.Cmp(DecodeUint256(bz).BigInt()))

	bz, err = EncodeUint256(sdkmath.NewUint(1))
	require.NoError(t, err)
	require.Equal(t, byte(1), bz[0])
	require.Equal(t, byte(0), bz[31])
}
