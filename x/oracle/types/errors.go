package types

import (
	errorsmod "cosmossdk.io/errors"
)

// errors
var (
	ErrTruncated              = errorsmod.Register(ModuleName, 2, "buffer truncated")
	ErrUnknownVariant         = errorsmod.Register(ModuleName, 3, "unknown variant")
	ErrQueueFull              = errorsmod.Register(ModuleName, 4, "request queue is full")
	ErrInvalidAccountData     = errorsmod.Register(ModuleName, 5, "invalid account data")
	ErrAccountDataCorrupt     = errorsmod.Register(ModuleName, 6, "account data corrupt")
	ErrInvalidInstructionData = errorsmod.Register(ModuleName, 7, "invalid instruction data")
	ErrSlotOutOfRange         = errorsmod.Register(ModuleName, 8, "slot index out of range")
	ErrSlotEmpty              = errorsmod.Register(ModuleName, 9, "slot is empty")
	ErrAmbiguousRequest       = errorsmod.Register(ModuleName, 10, "request encoding collides with the empty slot marker")
	ErrFieldTooLong           = errorsmod.Register(ModuleName, 11, "field exceeds its fixed width")
	ErrValueOverflow          = errorsmod.Register(ModuleName, 12, "value exceeds its fixed width")
	ErrInvalidRequest         = errorsmod.Register(ModuleName, 13, "invalid request")
	ErrNotEnoughAccountKeys   = errorsmod.Register(ModuleName, 14, "not enough account keys")
	ErrIncorrectProgramID     = errorsmod.Register(ModuleName, 15, "incorrect program id")
)
