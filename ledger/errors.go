package ledger

import (
	errorsmod "cosmossdk.io/errors"
)

// ModuleName is the codespace of ledger errors
const ModuleName = "ledger"

// errors
var (
	ErrUnknownProgram              = errorsmod.Register(ModuleName, 2, "unknown program")
	ErrAccountNotFound             = errorsmod.Register(ModuleName, 3, "account not found")
	ErrAccountExists               = errorsmod.Register(ModuleName, 4, "account already exists")
	ErrCallDepth                   = errorsmod.Register(ModuleName, 5, "call depth exceeded")
	ErrExternalAccountDataModified = errorsmod.Register(ModuleName, 6, "account data modified by a program that does not own it")
	ErrInvalidAccountRecord        = errorsmod.Register(ModuleName, 7, "invalid account record")
	ErrPrivilegeEscalation         = errorsmod.Register(ModuleName, 8, "nested call requests more access than its caller holds")
)
