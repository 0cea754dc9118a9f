package keeper

import (
	errorsmod "cosmossdk.io/errors"

	ttptypes "github.com/GPTx-global/ttp-oracle/types"
	"github.com/GPTx-global/ttp-oracle/x/oracle/types"
)

// Queue decodes every slot of an oracle account. The account must be owned by this program.
func (k Keeper) Queue(account *ttptypes.AccountInfo) ([]types.Slot, error) {
	if err := k.checkOwner(account); err != nil {
		return nil, err
	}
	queue, err := types.NewRequestQueue(account.Data)
	if err != nil {
		return nil, err
	}
	return queue.DecodeAll()
}

// Request returns the request held in one slot of an oracle account.
func (k Keeper) Request(account *ttptypes.AccountInfo, slot uint8) (types.Request, error) {
	if err := k.checkOwner(account); err != nil {
		return types.Request{}, err
	}
	queue, err := types.NewRequestQueue(account.Data)
	if err != nil {
		return types.Request{}, err
	}
	req, ok, err := queue.Get(slot)
	if err != nil {
		return types.Request{}, err
	}
	if !ok {
		return types.Request{}, errorsmod.Wrapf(types.ErrSlotEmpty, "slot %d", slot)
	}
	return req, nil
}
