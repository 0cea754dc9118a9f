package consumer

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	ttptypes "github.com/GPTx-global/ttp-oracle/types"
	"github.com/GPTx-global/ttp-oracle/x/consumer/keeper"
	"github.com/GPTx-global/ttp-oracle/x/consumer/types"
	oracletypes "github.com/GPTx-global/ttp-oracle/x/oracle/types"
)

// NewHandler creates the entrypoint of the consumer program. The first byte selects between a
// price request and an oracle callback.
func NewHandler(k *keeper.Keeper) ttptypes.Entrypoint {
	return func(ctx context.Context, invoker ttptypes.Invoker, _ ttptypes.Address, accounts []*ttptypes.AccountInfo, data []byte) error {
		if len(data) == 0 {
			return errorsmod.Wrap(types.ErrInvalidInstructionData, "empty instruction")
		}

		switch data[0] {
		case types.InstructionRequestPrice:
			tmpl, err := types.DecodeRequestPrice(data[1:])
			if err != nil {
				return err
			}
			return k.RequestPrice(ctx, invoker, accounts, tmpl)

		case oracletypes.CallbackDeterminant:
			resp, err := oracletypes.DecodeResponse(data[1:])
			if err != nil {
				return ttptypes.WrapCause(types.ErrInvalidInstructionData, err)
			}
			k.HandleResponse(ctx, resp)
			return nil

		default:
			return errorsmod.Wrapf(types.ErrInvalidInstructionData, "unrecognized %s instruction tag: %d", types.ModuleName, data[0])
		}
	}
}
