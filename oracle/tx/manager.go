package tx

import (
	"context"
	"fmt"
	"sync"

	"github.com/armon/go-metrics"

	"github.com/GPTx-global/ttp-oracle/oracle/log"
	"github.com/GPTx-global/ttp-oracle/oracle/types"
	ttptypes "github.com/GPTx-global/ttp-oracle/types"
	oracletypes "github.com/GPTx-global/ttp-oracle/x/oracle/types"
)

// Executor runs a top-level instruction against the ledger.
type Executor interface {
	Execute(ctx context.Context, ix ttptypes.Instruction) error
}

// TxManager turns job results into HandleResponse instructions and executes them one at a time.
type TxManager struct {
	executor      Executor
	oracleProgram ttptypes.Address
	oracleAccount ttptypes.Address
	resultQueue   chan *types.JobResult
	submitLock    sync.Mutex
}

func NewTxManager(executor Executor, oracleProgram, oracleAccount ttptypes.Address, queueSize int) *TxManager {
	if queueSize <= 0 {
		queueSize = 128
	}
	return &TxManager{
		executor:      executor,
		oracleProgram: oracleProgram,
		oracleAccount: oracleAccount,
		resultQueue:   make(chan *types.JobResult, queueSize),
	}
}

func (txm *TxManager) ResultQueue() chan *types.JobResult {
	return txm.resultQueue
}

// BuildSubmitTx builds the HandleResponse instruction for a job result.
func (txm *TxManager) BuildSubmitTx(jr *types.JobResult) (ttptypes.Instruction, error) {
	resp, err := oracletypes.NewResponseFromUint(jr.Slot, jr.Value)
	if err != nil {
		return ttptypes.Instruction{}, fmt.Errorf("failed to build response for job %s: %w", jr.JobID, err)
	}
	return oracletypes.NewHandleResponseInstruction(txm.oracleProgram, txm.oracleAccount, resp), nil
}

// BroadcastTx executes the instruction. Submissions are serialized so slot state is read fresh
// by each one.
func (txm *TxManager) BroadcastTx(ctx context.Context, ix ttptypes.Instruction) error {
	txm.submitLock.Lock()
	defer txm.submitLock.Unlock()

	if err := txm.executor.Execute(ctx, ix); err != nil {
		metrics.IncrCounter([]string{"tx", "submit_failed"}, 1)
		return fmt.Errorf("failed to execute instruction: %w", err)
	}
	metrics.IncrCounter([]string{"tx", "submitted"}, 1)
	return nil
}

// Submit builds and executes the response for a job result.
func (txm *TxManager) Submit(ctx context.Context, jr *types.JobResult) error {
	ix, err := txm.BuildSubmitTx(jr)
	if err != nil {
		return err
	}
	if err := txm.BroadcastTx(ctx, ix); err != nil {
		return err
	}
	log.Infof("response submitted, job %s slot %d value %s", jr.JobID, jr.Slot, jr.Value)
	return nil
}

// NextResult blocks until a result is available or the context is done.
func (txm *TxManager) NextResult(ctx context.Context) (*types.JobResult, bool) {
	select {
	case jr := <-txm.resultQueue:
		return jr, true
	case <-ctx.Done():
		return nil, false
	}
}
