package health

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/GPTx-global/ttp-oracle/oracle/log"
)

// CheckFunc reports why a dependency of the daemon is unusable, or nil.
type CheckFunc func(ctx context.Context) error

// Result is the latest outcome of one check. A check that has not run yet is
// healthy with a zero CheckedAt.
type Result struct {
	Healthy   bool
	CheckedAt time.Time
	Err       error
}

// Report is a consistent snapshot of every check.
type Report struct {
	Healthy bool
	Checks  map[string]Result
}

// Monitor re-evaluates the daemon's checks on a fixed interval.
type Monitor struct {
	interval time.Duration

	mtx     sync.RWMutex
	checks  map[string]CheckFunc
	results map[string]Result
}

func NewMonitor(interval time.Duration) *Monitor {
	return &Monitor{
		interval: interval,
		checks:   make(map[string]CheckFunc),
		results:  make(map[string]Result),
	}
}

// Register adds or replaces the check called name.
func (m *Monitor) Register(name string, check CheckFunc) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.checks[name] = check
	m.results[name] = Result{Healthy: true}
}

// Run refreshes the checks immediately and then on every tick until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		m.Refresh(ctx)

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

// Refresh runs every check in name order, each bounded by the monitor
// interval, and returns the resulting report.
func (m *Monitor) Refresh(ctx context.Context) Report {
	m.mtx.RLock()
	names := make([]string, 0, len(m.checks))
	for name := range m.checks {
		names = append(names, name)
	}
	checks := make(map[string]CheckFunc, len(m.checks))
	for name, check := range m.checks {
		checks[name] = check
	}
	m.mtx.RUnlock()
	sort.Strings(names)

	for _, name := range names {
		cctx, cancel := context.WithTimeout(ctx, m.interval)
		err := checks[name](cctx)
		cancel()
		m.record(name, err)
	}
	return m.Report()
}

// record stores the outcome and logs only when a check changes state.
func (m *Monitor) record(name string, err error) {
	m.mtx.Lock()
	prev, ok := m.results[name]
	m.results[name] = Result{Healthy: err == nil, CheckedAt: time.Now(), Err: err}
	m.mtx.Unlock()

	switch {
	case err != nil && (!ok || prev.Healthy):
		log.Errorf("health check %s failing: %v", name, err)
	case err == nil && ok && !prev.Healthy:
		log.Infof("health check %s recovered", name)
	}
}

func (m *Monitor) Report() Report {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	report := Report{Healthy: true, Checks: make(map[string]Result, len(m.results))}
	for name, res := range m.results {
		report.Checks[name] = res
		if !res.Healthy {
			report.Healthy = false
		}
	}
	return report
}
