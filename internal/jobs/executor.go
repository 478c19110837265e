package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	cron "github.com/robfig/cron"
	"github.com/rs/zerolog"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/logger"
)

// CronJob is a unit of background work run on a six-field cron schedule
// (seconds first), e.g. "0 0 3 * * *".
type CronJob interface {
	Name() string
	Schedule() string
	Run(ctx context.Context)
}

// TaskExecutor runs cron jobs, never more than one instance of a job at a time.
type TaskExecutor struct {
	cron    *cron.Cron
	jobs    []CronJob
	running mapset.Set[string]
	mu      sync.Mutex
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	log     zerolog.Logger
}

func NewTaskExecutor(jobs ...CronJob) *TaskExecutor {
	ctx, cancel := context.WithCancel(context.Background())
	return &TaskExecutor{
		cron:    cron.NewWithLocation(time.UTC),
		jobs:    jobs,
		running: mapset.NewThreadUnsafeSet[string](),
		ctx:     ctx,
		cancel:  cancel,
		log:     logger.Component("jobs"),
	}
}

// Start registers every job and starts the scheduler.
// A malformed schedule is returned before anything runs.
func (t *TaskExecutor) Start() error {
	for _, job := range t.jobs {
		job := job
		if err := t.cron.AddFunc(job.Schedule(), func() { t.runOnce(job) }); err != nil {
			return fmt.Errorf("schedule %s (%q): %w", job.Name(), job.Schedule(), err)
		}
		t.log.Info().Str("job", job.Name()).Str("schedule", job.Schedule()).Msg("job scheduled")
	}
	t.cron.Start()
	return nil
}

func (t *TaskExecutor) runOnce(job CronJob) {
	t.mu.Lock()
	if t.ctx.Err() != nil {
		t.mu.Unlock()
		return
	}
	if t.running.Contains(job.Name()) {
		t.mu.Unlock()
		t.log.Warn().Str("job", job.Name()).Msg("previous run still in progress, skipping")
		return
	}
	t.running.Add(job.Name())
	t.wg.Add(1)
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.running.Remove(job.Name())
		t.mu.Unlock()
		t.wg.Done()
	}()

	start := time.Now()
	job.Run(t.ctx)
	t.log.Debug().Str("job", job.Name()).Dur("took", time.Since(start)).Msg("job finished")
}

// Stop halts scheduling, cancels in-flight runs and waits for them until ctx expires.
func (t *TaskExecutor) Stop(ctx context.Context) error {
	t.log.Info().Msg("stopping scheduled jobs")
	t.cron.Stop()

	t.mu.Lock()
	t.cancel()
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
