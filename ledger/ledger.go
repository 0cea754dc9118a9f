package ledger

import (
	"context"
	"sync"

	errorsmod "cosmossdk.io/errors"
	"github.com/tendermint/tendermint/libs/log"
	dbm "github.com/tendermint/tm-db"

	ttptypes "github.com/GPTx-global/ttp-oracle/types"
)

// MaxCallDepth bounds nested program invocation, the top-level call included.
const MaxCallDepth = 4

// Ledger runs program instructions against accounts persisted in a tm-db database.
// Instructions execute one at a time and commit atomically.
type Ledger struct {
	db     dbm.DB
	logger log.Logger

	mtx sync.Mutex

	progMtx  sync.RWMutex
	programs map[ttptypes.Address]ttptypes.Entrypoint
}

func New(db dbm.DB, logger log.Logger) *Ledger {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Ledger{
		db:       db,
		logger:   logger.With("module", ModuleName),
		programs: make(map[ttptypes.Address]ttptypes.Entrypoint),
	}
}

// Register deploys a program at id, replacing any previous one.
func (l *Ledger) Register(id ttptypes.Address, ep ttptypes.Entrypoint) {
	l.progMtx.Lock()
	defer l.progMtx.Unlock()
	l.programs[id] = ep
}

func (l *Ledger) program(id ttptypes.Address) (ttptypes.Entrypoint, bool) {
	l.progMtx.RLock()
	defer l.progMtx.RUnlock()
	ep, ok := l.programs[id]
	return ep, ok
}

// IsProgram reports whether a program is registered at id.
func (l *Ledger) IsProgram(id ttptypes.Address) bool {
	_, ok := l.program(id)
	return ok
}

// CreateAccount allocates a zeroed account of size bytes owned by owner.
func (l *Ledger) CreateAccount(addr, owner ttptypes.Address, size int) error {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	has, err := l.db.Has(accountKey(addr))
	if err != nil {
		return err
	}
	if has {
		return errorsmod.Wrapf(ErrAccountExists, "%s", addr)
	}
	if err := l.db.SetSync(accountKey(addr), encodeAccount(owner, make([]byte, size))); err != nil {
		return err
	}
	l.logger.Info("account created", "address", addr.String(), "owner", owner.String(), "size", size)
	return nil
}

// Account returns a copy of the committed state of an account.
func (l *Ledger) Account(addr ttptypes.Address) (*ttptypes.AccountInfo, error) {
	return getAccount(l.db, addr)
}

// Accounts returns every stored account.
func (l *Ledger) Accounts() ([]*ttptypes.AccountInfo, error) {
	var accounts []*ttptypes.AccountInfo
	err := iterateAccounts(l.db, func(info *ttptypes.AccountInfo) bool {
		accounts = append(accounts, info)
		return true
	})
	return accounts, err
}

// Execute runs ix and every nested invocation it makes. Account changes are written in a single
// batch only when the whole call tree succeeds.
func (l *Ledger) Execute(ctx context.Context, ix ttptypes.Instruction) error {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	tx := newTxn(l)
	if err := tx.Invoke(ctx, ix); err != nil {
		l.logger.Debug("instruction failed", "program", ix.ProgramID.String(), "error", err)
		return err
	}
	return tx.commit()
}

func (l *Ledger) Close() error {
	return l.db.Close()
}
