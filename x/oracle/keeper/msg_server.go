package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"github.com/cosmos/cosmos-sdk/telemetry"

	ttptypes "github.com/GPTx-global/ttp-oracle/types"
	"github.com/GPTx-global/ttp-oracle/x/oracle/types"
)

// CreateRequest queues msg.Request in the first free slot of the oracle account and returns
// the slot index.
func (k Keeper) CreateRequest(_ context.Context, accounts []*ttptypes.AccountInfo, msg *types.MsgCreateRequest) (slot uint8, err error) {
	defer func() {
		k.countResult(types.EventTypeCreateRequest, err)
	}()

	account, queue, err := k.oracleQueue(accounts)
	if err != nil {
		return 0, err
	}
	if _, err := queue.DecodeAll(); err != nil {
		return 0, ttptypes.WrapCause(types.ErrInvalidAccountData, err)
	}

	req := msg.Request
	req.Slot = 0
	if err := req.ValidateBasic(); err != nil {
		return 0, err
	}

	slot, err = queue.Insert(req)
	if err != nil {
		return 0, err
	}

	k.Logger().Info("request queued",
		types.AttributeKeyAccount, account.Address.String(),
		types.AttributeKeySlot, slot,
		types.AttributeKeyCallback, req.Callback.String(),
	)
	return slot, nil
}

// HandleResponse frees the slot named by the response and delivers the response to the program
// that queued the request. If delivery fails the slot is restored and the callee's error returned.
func (k Keeper) HandleResponse(ctx context.Context, invoker ttptypes.Invoker, accounts []*ttptypes.AccountInfo, msg *types.MsgHandleResponse) (err error) {
	defer func() {
		k.countResult(types.EventTypeHandleResponse, err)
	}()

	_, queue, err := k.oracleQueue(accounts)
	if err != nil {
		return err
	}

	resp := msg.Response
	if resp.Slot >= types.MaxRequests {
		return errorsmod.Wrapf(types.ErrSlotOutOfRange, "slot %d", resp.Slot)
	}
	req, ok, err := queue.Get(resp.Slot)
	if err != nil {
		return err
	}
	if !ok {
		return errorsmod.Wrapf(types.ErrSlotEmpty, "slot %d", resp.Slot)
	}

	saved := queue.Snapshot(resp.Slot)
	if err := queue.Remove(resp.Slot); err != nil {
		return err
	}

	callback := ttptypes.Instruction{
		ProgramID: req.Callback,
		Data:      resp.EncodeCallback(),
	}
	if err := invoker.Invoke(ctx, callback); err != nil {
		queue.Restore(resp.Slot, saved)
		k.Logger().Error("callback failed",
			types.AttributeKeySlot, resp.Slot,
			types.AttributeKeyCallback, req.Callback.String(),
			"error", err,
		)
		return err
	}

	k.Logger().Info("response delivered",
		types.AttributeKeySlot, resp.Slot,
		types.AttributeKeyCallback, req.Callback.String(),
		types.AttributeKeyValue, resp.Uint().String(),
	)
	return nil
}

func (k Keeper) countResult(op string, err error) {
	if err != nil {
		telemetry.IncrCounter(1, types.ModuleName, "error", op)
		return
	}
	telemetry.IncrCounter(1, types.ModuleName, op)
}
