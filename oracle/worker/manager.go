package worker

import (
	"context"
	"sync"

	"github.com/armon/go-metrics"
	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/GPTx-global/ttp-oracle/oracle/log"
	"github.com/GPTx-global/ttp-oracle/oracle/types"
)

type JobManager struct {
	// jobs queued or running
	activeJobs cmap.ConcurrentMap[string, *types.Job]
	// jobs that finished, successfully or not; skipped until their slot changes
	settledJobs cmap.ConcurrentMap[string, struct{}]

	workers  int
	jobQueue chan *types.Job
	quit     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewJobManager creates a job manager with the given worker count and queue capacity
func NewJobManager(workers, queueSize int) *JobManager {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = workers * 4
	}

	return &JobManager{
		activeJobs:  cmap.New[*types.Job](),
		settledJobs: cmap.New[struct{}](),
		workers:     workers,
		jobQueue:    make(chan *types.Job, queueSize),
		quit:        make(chan struct{}),
	}
}

// Start launches the worker goroutines
func (jm *JobManager) Start(ctx context.Context, resultQueue chan<- *types.JobResult) {
	for i := 0; i < jm.workers; i++ {
		jm.wg.Add(1)
		go jm.worker(ctx, resultQueue)
	}
}

// Stop shuts down all workers and waits for them to return
func (jm *JobManager) Stop() {
	jm.stopOnce.Do(func() {
		close(jm.quit)
	})
	jm.wg.Wait()
}

// SubmitJob queues a job unless it is already in flight or settled. The job is dropped if the
// queue is full; it will be offered again on the next scan.
func (jm *JobManager) SubmitJob(job *types.Job) bool {
	if jm.settledJobs.Has(job.ID) {
		return false
	}
	if !jm.activeJobs.SetIfAbsent(job.ID, job) {
		return false
	}

	select {
	case jm.jobQueue <- job:
		metrics.IncrCounter([]string{"worker", "job_submitted"}, 1)
		return true
	default:
		jm.activeJobs.Remove(job.ID)
		log.Errorf("job queue is full, drop job %s", job.ID)
		return false
	}
}

// Settle marks a job as finished. It stays out of the queue until Prune forgets it.
func (jm *JobManager) Settle(id string) {
	jm.settledJobs.Set(id, struct{}{})
	jm.activeJobs.Remove(id)
}

// Forget drops every record of a job, so an identical request queued later runs again.
func (jm *JobManager) Forget(id string) {
	jm.activeJobs.Remove(id)
	jm.settledJobs.Remove(id)
}

// Prune forgets settled jobs whose IDs are no longer live.
func (jm *JobManager) Prune(live []*types.Job) {
	keep := make(map[string]struct{}, len(live))
	for _, job := range live {
		keep[job.ID] = struct{}{}
	}
	for _, id := range jm.settledJobs.Keys() {
		if _, ok := keep[id]; !ok {
			jm.settledJobs.Remove(id)
		}
	}
}

// IsActive reports whether a job is queued or running.
func (jm *JobManager) IsActive(id string) bool {
	return jm.activeJobs.Has(id)
}

// ActiveJobs returns the number of queued or running jobs.
func (jm *JobManager) ActiveJobs() int {
	return jm.activeJobs.Count()
}

// worker executes jobs from the queue and sends results to the result channel
func (jm *JobManager) worker(ctx context.Context, resultQueue chan<- *types.JobResult) {
	defer jm.wg.Done()

	for {
		select {
		case job := <-jm.jobQueue:
			jr, err := executeJob(ctx, job)
			if err != nil {
				log.Errorf("job %s (slot %d) failed: %v", job.ID, job.Slot, err)
				metrics.IncrCounter([]string{"worker", "job_failed"}, 1)
				jm.Settle(job.ID)
				continue
			}

			select {
			case resultQueue <- jr:
			case <-jm.quit:
				return
			case <-ctx.Done():
				return
			}
		case <-jm.quit:
			return
		case <-ctx.Done():
			return
		}
	}
}
