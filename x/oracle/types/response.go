package types

import (
	"encoding/binary"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	ttptypes "github.com/GPTx-global/ttp-oracle/types"
)

// Response carries a pipeline result back to the slot that requested it.
// Data holds the result as little-endian unsigned bytes.
type Response struct {
	Data [ResponseDataLen]byte
	Slot uint8
}

// NewResponseFromUint builds a Response, failing if v does not fit the 128-bit window.
func NewResponseFromUint(slot uint8, v sdkmath.Uint) (Response, error) {
	data, err := EncodeUint128(v)
	if err != nil {
		return Response{}, err
	}
	return Response{Data: data, Slot: slot}, nil
}

// NewResponseFromUint32 builds a Response holding a 32-bit result.
func NewResponseFromUint32(slot uint8, v uint32) Response {
	r := Response{Slot: slot}
	binary.LittleEndian.PutUint32(r.Data[:4], v)
	return r
}

// Uint returns the full 128-bit result.
func (r Response) Uint() sdkmath.Uint {
	return DecodeUint128(r.Data)
}

// Uint32 returns the low 32 bits of the result.
func (r Response) Uint32() uint32 {
	return binary.LittleEndian.Uint32(r.Data[:4])
}

// Encode returns the 17-byte payload form of r, without the callback determinant.
func (r Response) Encode() [ResponseLen]byte {
	var out [ResponseLen]byte
	copy(out[:ResponseDataLen], r.Data[:])
	out[ResponseDataLen] = r.Slot
	return out
}

// EncodeCallback returns r prefixed with the callback determinant. This is both the
// HandleResponse instruction and the payload delivered to the requesting program.
func (r Response) EncodeCallback() []byte {
	payload := r.Encode()
	out := make([]byte, 0, CallbackLen)
	out = append(out, CallbackDeterminant)
	return append(out, payload[:]...)
}

// DecodeResponse reads the 17-byte payload form from the start of bz.
func DecodeResponse(bz []byte) (Response, error) {
	if len(bz) < ResponseLen {
		return Response{}, errorsmod.Wrapf(ErrTruncated, "response needs %d bytes, got %d", ResponseLen, len(bz))
	}
	var r Response
	copy(r.Data[:], bz[:ResponseDataLen])
	r.Slot = bz[ResponseDataLen]
	return r, nil
}

// DecodeCallback reads a determinant-prefixed Response.
func DecodeCallback(bz []byte) (Response, error) {
	if len(bz) == 0 || bz[0] != CallbackDeterminant {
		return Response{}, errorsmod.Wrap(ErrInvalidInstructionData, "missing callback determinant")
	}
	r, err := DecodeResponse(bz[1:])
	if err != nil {
		return Response{}, ttptypes.WrapCause(ErrInvalidInstructionData, err)
	}
	return r, nil
}
