package keeper

import (
	"context"
	"fmt"
	"sync"

	sdkmath "cosmossdk.io/math"
	"github.com/tendermint/tendermint/libs/log"

	ttptypes "github.com/GPTx-global/ttp-oracle/types"
	"github.com/GPTx-global/ttp-oracle/x/consumer/types"
	oracletypes "github.com/GPTx-global/ttp-oracle/x/oracle/types"
)

// Result is one oracle answer received by the consumer.
type Result struct {
	Slot  uint8
	Value sdkmath.Uint
}

// ResultRecorder is notified of every oracle answer.
type ResultRecorder interface {
	RecordResult(ctx context.Context, res Result)
}

type Keeper struct {
	programID ttptypes.Address
	logger    log.Logger

	// guards recorder and results
	mtx      sync.RWMutex
	recorder ResultRecorder
	results  []Result
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

// SetRecorder installs an additional observer of received results.
func (k *Keeper) SetRecorder(r ResultRecorder) {
	k.mtx.Lock()
	defer k.mtx.Unlock()
	k.recorder = r
}

func (k *Keeper) ProgramID() ttptypes.Address {
	return k.programID
}

// Logger returns a module-specific logger.
func (k *Keeper) Logger() log.Logger {
	return k.logger.With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// RequestPrice asks the oracle program in accounts[0] to queue a request in the oracle account
// accounts[1]. The oracle calls back into this program with the result.
func (k *Keeper) RequestPrice(ctx context.Context, invoker ttptypes.Invoker, accounts []*ttptypes.AccountInfo, tmpl types.RequestTemplate) error {
	if len(accounts) < 2 {
		return types.ErrNotEnoughAccountKeys
	}
	oracleProgram, oracleAccount := accounts[0], accounts[1]

	req, err := tmpl.Request(k.programID)
	if err != nil {
		return err
	}

	k.Logger().Debug("requesting price", "url", tmpl.URL, "path", tmpl.Path, "coerce", tmpl.Coerce.String())
	ix := oracletypes.NewCreateRequestInstruction(oracleProgram.Address, oracleAccount.Address, req)
	return invoker.Invoke(ctx, ix)
}

// HandleResponse records an oracle answer.
func (k *Keeper) HandleResponse(ctx context.Context, resp oracletypes.Response) {
	res := Result{Slot: resp.Slot, Value: resp.Uint()}
	k.Logger().Info(fmt.Sprintf("Oracle price response = %s", res.Value), oracletypes.AttributeKeySlot, res.Slot)

	k.mtx.Lock()
	k.results = append(k.results, res)
	if len(k.results) > types.MaxRecordedResults {
		k.results = k.results[len(k.results)-types.MaxRecordedResults:]
	}
	recorder := k.recorder
	k.mtx.Unlock()

	if recorder != nil {
		recorder.RecordResult(ctx, res)
	}
}

// Results returns the received answers, oldest first.
func (k *Keeper) Results() []Result {
	k.mtx.RLock()
	defer k.mtx.RUnlock()
	return append([]Result(nil), k.results...)
}

// LastResult returns the most recent answer, if any.
func (k *Keeper) LastResult() (Result, bool) {
	k.mtx.RLock()
	defer k.mtx.RUnlock()
	if len(k.results) == 0 {
		return Result{}, false
	}
	return k.results[len(k.results)-1], true
}
