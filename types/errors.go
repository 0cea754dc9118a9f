package types

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
)

// RootCodespace is the codespace for errors shared by every program.
const RootCodespace = "ttp"

var (
	ErrInvalidAddress = errorsmod.Register(RootCodespace, 2, "invalid address")
)

// WrapCause reports cause under a registered error kind. errors.Is matches both.
func WrapCause(kind, cause error) error {
	return fmt.Errorf("%w: %w", kind, cause)
}
