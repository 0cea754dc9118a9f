package types

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	ttptypes "github.com/GPTx-global/ttp-oracle/types"
)

func TestInstructionRoundTrip(t *testing.T) {
	req := newTestRequest(t)
	resp := NewResponseFromUint32(4, 1234)

	tests := []struct {
		name   string
		msg    OracleInstruction
		length int
	}{
		{"create request", NewMsgCreateRequest(req), 143},
		{"handle response", NewMsgHandleResponse(resp), 18},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bz := tc.msg.Encode()
			require.Len(t, bz, tc.length)

			decoded, err := DecodeInstruction(bz)
			require.NoError(t, err)
			require.Equal(t, tc.msg, decoded)
			require.Equal(t, tc.msg.Type(), decoded.Type())
		})
	}
}

func TestCreateRequestWireLayout(t *testing.T) {
	req := newTestRequest(t)
	bz := NewMsgCreateRequest(req).Encode()

	require.Equal(t, []byte{0x00, 0x00}, bz[:2])
	encoded := req.Encode()
	require.Equal(t, encoded[:], bz[2:])
}

func TestHandleResponseMatchesCallback(t *testing.T) {
	resp := NewResponseFromUint32(2, 99)
	require.Equal(t, resp.EncodeCallback(), NewMsgHandleResponse(resp).Encode())
}

func TestDecodeInstructionErrors(t *testing.T) {
	unknownTask := make([]byte, CreateRequestDataLen)
	unknownTask[InstructionTagLen] = 9

	tests := []struct {
		name  string
		data  []byte
		cause error
	}{
		{"empty", nil, nil},
		{"single byte", []byte{0}, nil},
		{"unknown tag", []byte{1, 0}, nil},
		{"unknown high tag", []byte{0, 1}, nil},
		{"truncated request", []byte{0, 0, 0}, ErrTruncated},
		{"truncated response", []byte{255, 0}, ErrTruncated},
		{"unknown task tag", unknownTask, ErrUnknownVariant},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeInstruction(tc.data)
			require.ErrorIs(t, err, ErrInvalidInstructionData)
			if tc.cause != nil {
				require.ErrorIs(t, err, tc.cause)
			}
		})
	}
}

func TestNormalTagsNeverCollideWithCallback(t *testing.T) {
	for _, tag := range NormalInstructionTags {
		var bz [2]byte
		binary.LittleEndian.PutUint16(bz[:], tag)
		require.NotEqual(t, CallbackDeterminant, bz[0], "tag %d", tag)
	}

	// the determinant wins over a tag whose low byte is 255
	bz := make([]byte, CallbackLen)
	bz[0], bz[1] = 0xFF, 0x00
	msg, err := DecodeInstruction(bz)
	require.NoError(t, err)
	require.IsType(t, &MsgHandleResponse{}, msg)
}

func TestInstructionBuilders(t *testing.T) {
	program := ttptypes.DeriveAddress("test/oracle")
	account := ttptypes.DeriveAddress("test/oracle-account")
	req := newTestRequest(t)

	ix := NewCreateRequestInstruction(program, account, req)
	require.Equal(t, program, ix.ProgramID)
	require.Equal(t, []ttptypes.AccountMeta{{Address: account, IsWritable: true}}, ix.Accounts)
	require.Equal(t, NewMsgCreateRequest(req).Encode(), ix.Data)

	resp := NewResponseFromUint32(0, 5)
	ix = NewHandleResponseInstruction(program, account, resp)
	require.Equal(t, resp.EncodeCallback(), ix.Data)
}
