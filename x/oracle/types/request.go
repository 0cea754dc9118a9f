package types

import (
	errorsmod "cosmossdk.io/errors"

	ttptypes "github.com/GPTx-global/ttp-oracle/types"
)

// Request is a queued pipeline plus the program to call back with its result.
type Request struct {
	Tasks    [TasksPerRequest]Task
	Callback ttptypes.Address
	Slot     uint8
}

// NewRequest builds the canonical fetch -> parse -> coerce pipeline.
func NewRequest(url, path string, coerce TaskKind, callback ttptypes.Address) (Request, error) {
	fetch, err := NewHttpGetTask(url)
	if err != nil {
		return Request{}, err
	}
	parse, err := NewJsonParseTask(path)
	if err != nil {
		return Request{}, err
	}
	cast, err := NewCoerceTask(coerce)
	if err != nil {
		return Request{}, err
	}
	return Request{
		Tasks:    [TasksPerRequest]Task{fetch, parse, cast},
		Callback: callback,
	}, nil
}

// ValidateBasic checks the pipeline shape and the slot range.
func (r Request) ValidateBasic() error {
	if r.Tasks[0].Kind != TaskHttpGet {
		return errorsmod.Wrapf(ErrInvalidRequest, "step 0 must be %s, got %s", TaskHttpGet, r.Tasks[0].Kind)
	}
	if r.Tasks[0].URL() == "" {
		return errorsmod.Wrap(ErrInvalidRequest, "empty url")
	}
	if r.Tasks[1].Kind != TaskJsonParse {
		return errorsmod.Wrapf(ErrInvalidRequest, "step 1 must be %s, got %s", TaskJsonParse, r.Tasks[1].Kind)
	}
	if !r.Tasks[2].Kind.IsCoerce() {
		return errorsmod.Wrapf(ErrInvalidRequest, "step 2 must be a coercion, got %s", r.Tasks[2].Kind)
	}
	if r.Callback.IsZero() {
		return errorsmod.Wrap(ErrInvalidRequest, "empty callback program")
	}
	if r.Slot >= MaxRequests {
		return errorsmod.Wrapf(ErrSlotOutOfRange, "slot %d", r.Slot)
	}
	return nil
}

// Encode returns the 141-byte wire form of r.
func (r Request) Encode() [RequestLen]byte {
	var out [RequestLen]byte
	r.EncodeTo(out[:])
	return out
}

// EncodeTo writes the wire form of r into dst[:RequestLen].
func (r Request) EncodeTo(dst []byte) {
	_ = dst[RequestLen-1]
	for i, t := range r.Tasks {
		t.EncodeTo(dst[i*TaskLen:])
	}
	off := TasksPerRequest * TaskLen
	copy(dst[off:off+ProgramIDLen], r.Callback[:])
	dst[off+ProgramIDLen] = r.Slot
}

// DecodeRequest reads a Request from the first RequestLen bytes of bz.
// Any malformed task fails the whole request.
func DecodeRequest(bz []byte) (Request, error) {
	if len(bz) < RequestLen {
		return Request{}, errorsmod.Wrapf(ErrTruncated, "request needs %d bytes, got %d", RequestLen, len(bz))
	}

	var r Request
	for i := range r.Tasks {
		t, err := DecodeTask(bz[i*TaskLen:])
		if err != nil {
			return Request{}, errorsmod.Wrapf(err, "task %d", i)
		}
		r.Tasks[i] = t
	}
	off := TasksPerRequest * TaskLen
	copy(r.Callback[:], bz[off:off+ProgramIDLen])
	r.Slot = bz[off+ProgramIDLen]
	return r, nil
}
