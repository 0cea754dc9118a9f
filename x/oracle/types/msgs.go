package types

import (
	"encoding/binary"
	"fmt"

	errorsmod "cosmossdk.io/errors"

	ttptypes "github.com/GPTx-global/ttp-oracle/types"
)

const (
	TypeMsgCreateRequest  = "create_request"
	TypeMsgHandleResponse = "handle_response"
)

// OracleInstruction is a decoded instruction addressed to the oracle program.
type OracleInstruction interface {
	Type() string
	Encode() []byte
}

var (
	_ OracleInstruction = &MsgCreateRequest{}
	_ OracleInstruction = &MsgHandleResponse{}
)

// MsgCreateRequest queues a request in the oracle account.
type MsgCreateRequest struct {
	Request Request
}

// NewMsgCreateRequest creates a new MsgCreateRequest instance
func NewMsgCreateRequest(req Request) *MsgCreateRequest {
	return &MsgCreateRequest{Request: req}
}

func (msg MsgCreateRequest) Type() string { return TypeMsgCreateRequest }

// Encode returns [0x00 0x00] followed by the request.
func (msg MsgCreateRequest) Encode() []byte {
	out := make([]byte, CreateRequestDataLen)
	binary.LittleEndian.PutUint16(out[:InstructionTagLen], InstructionCreateRequest)
	msg.Request.EncodeTo(out[InstructionTagLen:])
	return out
}

// MsgHandleResponse delivers a pipeline result for a queued slot.
type MsgHandleResponse struct {
	Response Response
}

// NewMsgHandleResponse creates a new MsgHandleResponse instance
func NewMsgHandleResponse(resp Response) *MsgHandleResponse {
	return &MsgHandleResponse{Response: resp}
}

func (msg MsgHandleResponse) Type() string { return TypeMsgHandleResponse }

// Encode returns the callback form of the response; the two are byte-identical.
func (msg MsgHandleResponse) Encode() []byte {
	return msg.Response.EncodeCallback()
}

// DecodeInstruction reads an OracleInstruction. The callback determinant is checked before
// the 2-byte tag of normal instructions. Trailing bytes are ignored.
func DecodeInstruction(bz []byte) (OracleInstruction, error) {
	if len(bz) == 0 {
		return nil, errorsmod.Wrap(ErrInvalidInstructionData, "empty instruction")
	}

	if bz[0] == CallbackDeterminant {
		resp, err := DecodeCallback(bz)
		if err != nil {
			return nil, err
		}
		return NewMsgHandleResponse(resp), nil
	}

	if len(bz) < InstructionTagLen {
		return nil, errorsmod.Wrapf(ErrInvalidInstructionData, "instruction tag needs %d bytes, got %d", InstructionTagLen, len(bz))
	}
	switch tag := binary.LittleEndian.Uint16(bz[:InstructionTagLen]); tag {
	case InstructionCreateRequest:
		req, err := DecodeRequest(bz[InstructionTagLen:])
		if err != nil {
			return nil, ttptypes.WrapCause(ErrInvalidInstructionData, err)
		}
		return NewMsgCreateRequest(req), nil
	default:
		return nil, errorsmod.Wrapf(ErrInvalidInstructionData, "unknown instruction tag %d", tag)
	}
}

// NewCreateRequestInstruction builds the instruction a client sends to queue req.
func NewCreateRequestInstruction(oracleProgram, oracleAccount ttptypes.Address, req Request) ttptypes.Instruction {
	return ttptypes.Instruction{
		ProgramID: oracleProgram,
		Accounts:  []ttptypes.AccountMeta{ttptypes.NewAccountMeta(oracleAccount)},
		Data:      NewMsgCreateRequest(req).Encode(),
	}
}

// NewHandleResponseInstruction builds the instruction the worker sends to deliver resp.
func NewHandleResponseInstruction(oracleProgram, oracleAccount ttptypes.Address, resp Response) ttptypes.Instruction {
	return ttptypes.Instruction{
		ProgramID: oracleProgram,
		Accounts:  []ttptypes.AccountMeta{ttptypes.NewAccountMeta(oracleAccount)},
		Data:      NewMsgHandleResponse(resp).Encode(),
	}
}

func (msg MsgCreateRequest) String() string {
	return fmt.Sprintf("%s{callback=%s tasks=[%s %s %s]}", msg.Type(), msg.Request.Callback,
		msg.Request.Tasks[0], msg.Request.Tasks[1], msg.Request.Tasks[2])
}

func (msg MsgHandleResponse) String() string {
	return fmt.Sprintf("%s{slot=%d value=%s}", msg.Type(), msg.Response.Slot, msg.Response.Uint())
}
