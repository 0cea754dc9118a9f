package ledger

import (
	"bytes"
	"context"

	errorsmod "cosmossdk.io/errors"

	ttptypes "github.com/GPTx-global/ttp-oracle/types"
)

// txn holds the accounts touched by one top-level instruction. Nested invocations see the same
// account buffers, so a callee's writes are visible to its caller as soon as it returns.
type txn struct {
	ledger   *Ledger
	loaded   map[ttptypes.Address]*ttptypes.AccountInfo
	original map[ttptypes.Address][]byte
	order    []ttptypes.Address

	// writable accounts of each active call, innermost last
	frames []map[ttptypes.Address]bool
}

var _ ttptypes.Invoker = &txn{}

func newTxn(l *Ledger) *txn {
	return &txn{
		ledger:   l,
		loaded:   make(map[ttptypes.Address]*ttptypes.AccountInfo),
		original: make(map[ttptypes.Address][]byte),
	}
}

func (t *txn) load(addr ttptypes.Address) (*ttptypes.AccountInfo, error) {
	if info, ok := t.loaded[addr]; ok {
		return info, nil
	}

	info, err := getAccount(t.ledger.db, addr)
	switch {
	case errorsmod.IsOf(err, ErrAccountNotFound) && t.ledger.IsProgram(addr):
		// programs are addressable without a stored account
		info = &ttptypes.AccountInfo{Address: addr}
	case err != nil:
		return nil, err
	}

	t.loaded[addr] = info
	t.original[addr] = append([]byte(nil), info.Data...)
	t.order = append(t.order, addr)
	return info, nil
}

// Invoke runs ix synchronously inside the transaction.
func (t *txn) Invoke(ctx context.Context, ix ttptypes.Instruction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(t.frames) >= MaxCallDepth {
		return errorsmod.Wrapf(ErrCallDepth, "max depth %d", MaxCallDepth)
	}
	ep, ok := t.ledger.program(ix.ProgramID)
	if !ok {
		return errorsmod.Wrapf(ErrUnknownProgram, "%s", ix.ProgramID)
	}

	// a nested call may only write accounts its caller holds writable
	var caller map[ttptypes.Address]bool
	if n := len(t.frames); n > 0 {
		caller = t.frames[n-1]
	}

	writable := make(map[ttptypes.Address]bool, len(ix.Accounts))
	accounts := make([]*ttptypes.AccountInfo, len(ix.Accounts))
	for i, meta := range ix.Accounts {
		if meta.IsWritable && caller != nil && !caller[meta.Address] {
			return errorsmod.Wrapf(ErrPrivilegeEscalation, "%s is not writable by the caller of %s", meta.Address, ix.ProgramID)
		}
		info, err := t.load(meta.Address)
		if err != nil {
			return err
		}
		view := &ttptypes.AccountInfo{
			Address:    info.Address,
			Owner:      info.Owner,
			IsWritable: meta.IsWritable,
			Data:       info.Data,
		}
		if meta.IsWritable {
			writable[meta.Address] = true
		} else {
			view.Data = append([]byte(nil), info.Data...)
		}
		accounts[i] = view
	}

	t.frames = append(t.frames, writable)
	defer func() { t.frames = t.frames[:len(t.frames)-1] }()
	return ep(ctx, t, ix.ProgramID, accounts, ix.Data)
}

func (t *txn) commit() error {
	batch := t.ledger.db.NewBatch()
	defer batch.Close()

	dirty := 0
	for _, addr := range t.order {
		info := t.loaded[addr]
		if bytes.Equal(info.Data, t.original[addr]) {
			continue
		}
		if !t.ledger.IsProgram(info.Owner) {
			return errorsmod.Wrapf(ErrExternalAccountDataModified, "account %s owned by %s", addr, info.Owner)
		}
		if err := batch.Set(accountKey(addr), encodeAccount(info.Owner, info.Data)); err != nil {
			return err
		}
		dirty++
	}
	if dirty == 0 {
		return nil
	}
	return batch.WriteSync()
}
