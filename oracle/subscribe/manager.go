package subscribe

import (
	"context"
	"fmt"
	"time"

	"github.com/GPTx-global/ttp-oracle/oracle/log"
	"github.com/GPTx-global/ttp-oracle/oracle/types"
	ttptypes "github.com/GPTx-global/ttp-oracle/types"
	oracletypes "github.com/GPTx-global/ttp-oracle/x/oracle/types"
)

// AccountReader reads committed account state.
type AccountReader interface {
	Account(addr ttptypes.Address) (*ttptypes.AccountInfo, error)
}

// SubscribeManager watches the oracle account and turns its occupied slots into jobs.
type SubscribeManager struct {
	reader        AccountReader
	oracleProgram ttptypes.Address
	oracleAccount ttptypes.Address
	ticker        *time.Ticker
	ctx           context.Context
}

// NewSubscribeManager creates a watcher that scans the oracle account every interval
func NewSubscribeManager(ctx context.Context, reader AccountReader, oracleProgram, oracleAccount ttptypes.Address, interval time.Duration) *SubscribeManager {
	return &SubscribeManager{
		reader:        reader,
		oracleProgram: oracleProgram,
		oracleAccount: oracleAccount,
		ticker:        time.NewTicker(interval),
		ctx:           ctx,
	}
}

// LoadRequests decodes every slot of the oracle account
func (sm *SubscribeManager) LoadRequests() ([]oracletypes.Slot, error) {
	log.Debugf("start loading requests")
	account, err := sm.reader.Account(sm.oracleAccount)
	if err != nil {
		return nil, fmt.Errorf("failed to load oracle account: %w", err)
	}
	if account.Owner != sm.oracleProgram {
		return nil, fmt.Errorf("oracle account %s is owned by %s, not %s", sm.oracleAccount, account.Owner, sm.oracleProgram)
	}

	queue, err := oracletypes.NewRequestQueue(account.Data)
	if err != nil {
		return nil, err
	}
	slots, err := queue.DecodeAll()
	if err != nil {
		return nil, err
	}
	log.Debugf("end loading requests, %d occupied", queue.Occupied())

	return slots, nil
}

// Scan loads the queue once and returns a job for every occupied slot
func (sm *SubscribeManager) Scan() ([]*types.Job, error) {
	slots, err := sm.LoadRequests()
	if err != nil {
		return nil, err
	}
	return types.MakeJobs(slots), nil
}

// Wait blocks until the next tick. It returns false once the context is done.
func (sm *SubscribeManager) Wait() bool {
	select {
	case <-sm.ctx.Done():
		return false
	case <-sm.ticker.C:
		return true
	}
}

// Subscribe waits for the next tick and scans the queue. It returns nil, true when the context
// is done.
func (sm *SubscribeManager) Subscribe() ([]*types.Job, bool) {
	if !sm.Wait() {
		return nil, true
	}

	jobs, err := sm.Scan()
	if err != nil {
		log.Errorf("failed to scan oracle account: %v", err)
		return nil, false
	}
	return jobs, false
}

func (sm *SubscribeManager) Stop() {
	sm.ticker.Stop()
}
