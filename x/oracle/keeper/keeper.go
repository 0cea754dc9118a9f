package keeper

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"github.com/tendermint/tendermint/libs/log"

	ttptypes "github.com/GPTx-global/ttp-oracle/types"
	"github.com/GPTx-global/ttp-oracle/x/oracle/types"
)

type Keeper struct {
	programID ttptypes.Address
	logger    log.Logger
}

func NewKeeper(programID ttptypes.Address, logger log.Logger) *Keeper {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Keeper{
		programID: programID,
		logger:    logger,
	}
}

// ProgramID returns the address the oracle program is deployed at.
func (k Keeper) ProgramID() ttptypes.Address {
	return k.programID
}

// Logger returns a module-specific logger.
func (k Keeper) Logger() log.Logger {
	return k.logger.With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// oracleQueue checks that accounts[0] is a writable account owned by the oracle program and
// wraps its data as a RequestQueue.
func (k Keeper) oracleQueue(accounts []*ttptypes.AccountInfo) (*ttptypes.AccountInfo, *types.RequestQueue, error) {
	if len(accounts) == 0 || accounts[0] == nil {
		return nil, nil, errorsmod.Wrap(types.ErrNotEnoughAccountKeys, "missing oracle account")
	}
	account := accounts[0]
	if err := k.checkOwner(account); err != nil {
		return nil, nil, err
	}
	if !account.IsWritable {
		return nil, nil, errorsmod.Wrapf(types.ErrInvalidAccountData, "oracle account %s is not writable", account.Address)
	}

	queue, err := types.NewRequestQueue(account.Data)
	if err != nil {
		return nil, nil, err
	}
	return account, queue, nil
}

func (k Keeper) checkOwner(account *ttptypes.AccountInfo) error {
	if account.Owner != k.programID {
		return errorsmod.Wrapf(types.ErrIncorrectProgramID, "account %s is owned by %s", account.Address, account.Owner)
	}
	return nil
}
