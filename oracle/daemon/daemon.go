package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cosmos/cosmos-sdk/telemetry"

	"github.com/GPTx-global/ttp-oracle/app"
	"github.com/GPTx-global/ttp-oracle/oracle/config"
	"github.com/GPTx-global/ttp-oracle/oracle/health"
	"github.com/GPTx-global/ttp-oracle/oracle/log"
	"github.com/GPTx-global/ttp-oracle/oracle/subscribe"
	"github.com/GPTx-global/ttp-oracle/oracle/tx"
	"github.com/GPTx-global/ttp-oracle/oracle/types"
	"github.com/GPTx-global/ttp-oracle/oracle/worker"
)

type Daemon struct {
	app     *app.App
	metrics *telemetry.Metrics
	health  *health.Monitor
	server  *http.Server

	subscribeManager   *subscribe.SubscribeManager
	jobManager         *worker.JobManager
	transactionManager *tx.TxManager

	// serializes queue scans with submissions
	mtx sync.Mutex
	wg  sync.WaitGroup

	ctx context.Context
}

// New creates a new Oracle daemon instance with initialized components
func New(ctx context.Context, a *app.App) (*Daemon, error) {
	d := new(Daemon)
	d.ctx = ctx
	d.app = a

	m, err := telemetry.New(telemetry.Config{
		ServiceName:    app.Name,
		Enabled:        true,
		EnableHostname: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}
	d.metrics = m

	d.transactionManager = tx.NewTxManager(a, a.OracleProgram, a.OracleAccount, config.ChannelSize())
	d.subscribeManager = subscribe.NewSubscribeManager(ctx, a, a.OracleProgram, a.OracleAccount, config.PollInterval())
	d.jobManager = worker.NewJobManager(config.Workers(), config.ChannelSize())

	d.health = health.NewMonitor(config.PollInterval())
	d.health.Register("oracle_account", func(context.Context) error {
		_, err := a.Queue()
		return err
	})
	d.health.Register("job_queue", func(context.Context) error {
		if n := d.jobManager.ActiveJobs(); n >= config.ChannelSize() {
			return fmt.Errorf("%d jobs pending", n)
		}
		return nil
	})

	if config.APIEnabled() {
		d.server = &http.Server{
			Addr:              config.APIListen(),
			Handler:           d.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
	}
	return d, nil
}

// Start launches the workers, queues the requests already waiting and starts the API server
func (d *Daemon) Start() error {
	d.jobManager.Start(d.ctx, d.transactionManager.ResultQueue())

	if err := d.scan(); err != nil {
		return fmt.Errorf("failed to load requests: %w", err)
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.health.Run(d.ctx)
	}()

	if d.server != nil {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			log.Infof("api server listening on %s", d.server.Addr)
			if err := d.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorf("api server stopped: %v", err)
			}
		}()
	}

	return nil
}

// Stop gracefully shuts down all daemon components
func (d *Daemon) Stop() {
	if d.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := d.server.Shutdown(ctx); err != nil {
			log.Errorf("failed to shut down api server: %v", err)
		}
	}
	d.jobManager.Stop()
	d.subscribeManager.Stop()
	d.wg.Wait()
}

// Monitor scans the oracle account every poll interval until the context is done
func (d *Daemon) Monitor() {
	for d.subscribeManager.Wait() {
		if err := d.scan(); err != nil {
			log.Errorf("failed to scan oracle account: %v", err)
		}
	}
}

func (d *Daemon) scan() error {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	jobs, err := d.subscribeManager.Scan()
	if err != nil {
		return err
	}
	d.jobManager.Prune(jobs)
	d.ProcessJob(jobs)
	return nil
}

// ProcessJob submits jobs to the job manager for execution
func (d *Daemon) ProcessJob(jobs []*types.Job) {
	for _, job := range jobs {
		if d.jobManager.SubmitJob(job) {
			log.Debugf("job %s queued", job.ID)
		}
	}
}

// ServeOracle submits job results as HandleResponse instructions until the context is done
func (d *Daemon) ServeOracle() {
	for {
		jr, ok := d.transactionManager.NextResult(d.ctx)
		if !ok {
			return
		}
		d.submit(jr)
	}
}

func (d *Daemon) submit(jr *types.JobResult) {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if err := d.transactionManager.Submit(d.ctx, jr); err != nil {
		log.Errorf("failed to submit job %s: %v", jr.JobID, err)
		d.jobManager.Settle(jr.JobID)
		return
	}
	d.jobManager.Forget(jr.JobID)
}

// Run starts the daemon loops and blocks until the context is done.
func (d *Daemon) Run() error {
	if err := d.Start(); err != nil {
		return err
	}

	d.wg.Add(2)
	go func() {
		defer d.wg.Done()
		d.Monitor()
	}()
	go func() {
		defer d.wg.Done()
		d.ServeOracle()
	}()

	<-d.ctx.Done()
	d.Stop()
	return nil
}
