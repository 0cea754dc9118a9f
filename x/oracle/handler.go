package oracle

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	ttptypes "github.com/GPTx-global/ttp-oracle/types"
	"github.com/GPTx-global/ttp-oracle/x/oracle/keeper"
	"github.com/GPTx-global/ttp-oracle/x/oracle/types"
)

// NewHandler creates the entrypoint of the oracle program
func NewHandler(k *keeper.Keeper) ttptypes.Entrypoint {
	return func(ctx context.Context, invoker ttptypes.Invoker, programID ttptypes.Address, accounts []*ttptypes.AccountInfo, data []byte) error {
		if programID != k.ProgramID() {
			return errorsmod.Wrapf(types.ErrIncorrectProgramID, "invoked as %s, deployed at %s", programID, k.ProgramID())
		}

		msg, err := types.DecodeInstruction(data)
		if err != nil {
			return err
		}

		switch msg := msg.(type) {
		case *types.MsgCreateRequest:
			_, err := k.CreateRequest(ctx, accounts, msg)
			return err

		case *types.MsgHandleResponse:
			return k.HandleResponse(ctx, invoker, accounts, msg)

		default:
			return errorsmod.Wrapf(types.ErrInvalidInstructionData, "unrecognized %s instruction type: %T", types.ModuleName, msg)
		}
	}
}
