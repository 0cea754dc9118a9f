package types

import (
	"context"
)

// AccountInfo is the view of an account handed to a program for the duration of one invocation.
// Data may be mutated in place when IsWritable is set; its length never changes.
type AccountInfo struct {
	Address    Address
	Owner      Address
	IsWritable bool
	Data       []byte
}

// AccountMeta names an account an instruction wants access to.
type AccountMeta struct {
	Address    Address
	IsWritable bool
}

// NewAccountMeta returns a writable account reference.
func NewAccountMeta(addr Address) AccountMeta {
	return AccountMeta{Address: addr, IsWritable: true}
}

// NewReadonlyAccountMeta returns a read-only account reference.
func NewReadonlyAccountMeta(addr Address) AccountMeta {
	return AccountMeta{Address: addr, IsWritable: false}
}

// Instruction is a single call into a program.
type Instruction struct {
	ProgramID Address
	Accounts  []AccountMeta
	Data      []byte
}

// Invoker performs a synchronous nested call into another program. Control returns only after
// the callee has finished, and the callee's failure is returned as-is.
type Invoker interface {
	Invoke(ctx context.Context, ix Instruction) error
}

// Entrypoint is the single entry surface of a program.
type Entrypoint func(ctx context.Context, invoker Invoker, programID Address, accounts []*AccountInfo, data []byte) error

// InvokerFunc adapts a function to the Invoker interface.
type InvokerFunc func(ctx context.Context, ix Instruction) error

func (f InvokerFunc) Invoke(ctx context.Context, ix Instruction) error {
	return f(ctx, ix)
}
