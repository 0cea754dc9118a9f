package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	errorsmod "cosmossdk.io/errors"
	"github.com/tendermint/tendermint/libs/log"
	dbm "github.com/tendermint/tm-db"

	"github.com/GPTx-global/ttp-oracle/ledger"
	ttptypes "github.com/GPTx-global/ttp-oracle/types"
	"github.com/GPTx-global/ttp-oracle/x/consumer"
	consumerkeeper "github.com/GPTx-global/ttp-oracle/x/consumer/keeper"
	consumertypes "github.com/GPTx-global/ttp-oracle/x/consumer/types"
	"github.com/GPTx-global/ttp-oracle/x/oracle"
	oraclekeeper "github.com/GPTx-global/ttp-oracle/x/oracle/keeper"
	oracletypes "github.com/GPTx-global/ttp-oracle/x/oracle/types"
)

const (
	Name = "ttp-oracle"

	// DBName is the name of the account database under the ledger directory.
	DBName = "accounts"
)

// Options selects the addresses and account layout of an App.
type Options struct {
	OracleProgram   ttptypes.Address
	ConsumerProgram ttptypes.Address
	OracleAccount   ttptypes.Address
	Layout          oracletypes.Layout
}

// App wires the oracle and consumer programs into a ledger.
type App struct {
	Ledger *ledger.Ledger

	OracleKeeper   *oraclekeeper.Keeper
	ConsumerKeeper *consumerkeeper.Keeper

	OracleProgram   ttptypes.Address
	ConsumerProgram ttptypes.Address
	OracleAccount   ttptypes.Address
	Layout          oracletypes.Layout

	logger log.Logger
}

// New creates an App on db and registers its programs.
func New(db dbm.DB, logger log.Logger, opts Options) *App {
	if logger == nil {
		logger = log.NewNopLogger()
	}

	app := &App{
		Ledger:          ledger.New(db, logger),
		OracleKeeper:    oraclekeeper.NewKeeper(opts.OracleProgram, logger),
		ConsumerKeeper:  consumerkeeper.NewKeeper(opts.ConsumerProgram, logger),
		OracleProgram:   opts.OracleProgram,
		ConsumerProgram: opts.ConsumerProgram,
		OracleAccount:   opts.OracleAccount,
		Layout:          opts.Layout,
		logger:          logger,
	}

	app.Ledger.Register(opts.OracleProgram, oracle.NewHandler(app.OracleKeeper))
	app.Ledger.Register(opts.ConsumerProgram, consumer.NewHandler(app.ConsumerKeeper))

	return app
}

// OpenDB opens the account database for backend under dir. The memdb backend ignores dir.
func OpenDB(backend, dir string) (dbm.DB, error) {
	switch dbm.BackendType(backend) {
	case dbm.MemDBBackend:
		return dbm.NewMemDB(), nil
	case dbm.GoLevelDBBackend:
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create ledger directory: %w", err)
		}
		return dbm.NewDB(DBName, dbm.GoLevelDBBackend, filepath.Clean(dir))
	default:
		return nil, fmt.Errorf("unsupported ledger backend %q", backend)
	}
}

// InitOracleAccount creates the oracle account sized for the configured layout. It is a no-op
// when the account already exists with the expected owner and size.
func (app *App) InitOracleAccount() error {
	size := oracletypes.OracleAccountLen(app.Layout)

	existing, err := app.Ledger.Account(app.OracleAccount)
	switch {
	case err == nil:
		if existing.Owner != app.OracleProgram {
			return fmt.Errorf("oracle account %s is owned by %s", app.OracleAccount, existing.Owner)
		}
		if len(existing.Data) != size {
			return fmt.Errorf("oracle account %s holds %d bytes, %s layout needs %d", app.OracleAccount, len(existing.Data), app.Layout, size)
		}
		return nil
	case errorsmod.IsOf(err, ledger.ErrAccountNotFound):
		return app.Ledger.CreateAccount(app.OracleAccount, app.OracleProgram, size)
	default:
		return err
	}
}

// RequestPrice runs the consumer program's price request, queueing one oracle request.
func (app *App) RequestPrice(ctx context.Context, tmpl consumertypes.RequestTemplate) error {
	ix, err := consumertypes.NewRequestPriceInstruction(app.ConsumerProgram, app.OracleProgram, app.OracleAccount, tmpl)
	if err != nil {
		return err
	}
	return app.Ledger.Execute(ctx, ix)
}

// Execute runs an instruction against the ledger.
func (app *App) Execute(ctx context.Context, ix ttptypes.Instruction) error {
	return app.Ledger.Execute(ctx, ix)
}

// Queue returns the occupied slots of the oracle account.
func (app *App) Queue() ([]oracletypes.Slot, error) {
	account, err := app.Ledger.Account(app.OracleAccount)
	if err != nil {
		return nil, err
	}
	slots, err := app.OracleKeeper.Queue(account)
	if err != nil {
		return nil, err
	}

	occupied := make([]oracletypes.Slot, 0, len(slots))
	for _, slot := range slots {
		if slot.Request != nil {
			occupied = append(occupied, slot)
		}
	}
	return occupied, nil
}

// Request returns the request held in one slot.
func (app *App) Request(slot uint8) (oracletypes.Request, error) {
	account, err := app.Ledger.Account(app.OracleAccount)
	if err != nil {
		return oracletypes.Request{}, err
	}
	return app.OracleKeeper.Request(account, slot)
}

// OracleAddresses returns the oracle program and the account holding its queue.
func (app *App) OracleAddresses() (program, account ttptypes.Address) {
	return app.OracleProgram, app.OracleAccount
}

// Account satisfies the queue watcher's reader.
func (app *App) Account(addr ttptypes.Address) (*ttptypes.AccountInfo, error) {
	return app.Ledger.Account(addr)
}

func (app *App) Logger() log.Logger {
	return app.logger.With("module", Name)
}

func (app *App) Close() error {
	return app.Ledger.Close()
}
