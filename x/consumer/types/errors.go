package types

import (
	errorsmod "cosmossdk.io/errors"
)

// errors
var (
	ErrInvalidInstructionData = errorsmod.Register(ModuleName, 2, "invalid instruction data")
	ErrNotEnoughAccountKeys   = errorsmod.Register(ModuleName, 3, "not enough account keys")
)
