package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name     string
	schedule string
	runs     atomic.Int32
	block    chan struct{}
	started  chan struct{}
}

func (j *countingJob) Name() string     { return j.name }
func (j *countingJob) Schedule() string { return j.schedule }

func (j *countingJob) Run(ctx context.Context) {
	j.runs.Add(1)
	if j.started != nil {
		j.started <- struct{}{}
	}
	if j.block != nil {
		select {
		case <-j.block:
		case <-ctx.Done():
		}
	}
}

func TestTaskExecutor_RunsOnSchedule(t *testing.T) {
	job := &countingJob{name: "tick", schedule: "@every 1s"}
	ex := NewTaskExecutor(job)
	require.NoError(t, ex.Start())

	assert.Eventually(t, func() bool { return job.runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, ex.Stop(ctx))
}

func TestTaskExecutor_InvalidSchedule(t *testing.T) {
	ex := NewTaskExecutor(&countingJob{name: "bad", schedule: "not a cron"})
	err := ex.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
}

func TestTaskExecutor_SkipsOverlappingRun(t *testing.T) {
	job := &countingJob{name: "slow", schedule: "@every 1h", block: make(chan struct{}), started: make(chan struct{}, 1)}
	ex := NewTaskExecutor(job)

	go ex.runOnce(job)
	<-job.started

	// second trigger while the first is still running
	ex.runOnce(job)
	assert.Equal(t, int32(1), job.runs.Load())

	close(job.block)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, ex.Stop(ctx))

	ex.runOnce(job)
	assert.Equal(t, int32(1), job.runs.Load(), "no runs after stop")
}

func TestTaskExecutor_StopCancelsInFlight(t *testing.T) {
	job := &countingJob{name: "stuck", schedule: "@every 1h", block: make(chan struct{}), started: make(chan struct{}, 1)}
	ex := NewTaskExecutor(job)

	go ex.runOnce(job)
	<-job.started

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, ex.Stop(ctx))
}

type fakeRemover struct {
	days int
	ref  time.Time
	err  error
}

func (f *fakeRemover) RemoveSessionsOlderThan(_ context.Context, days int, ref time.Time) (int64, error) {
	f.days, f.ref = days, ref
	if f.err != nil {
		return 0, f.err
	}
	return 3, nil
}

func TestRetentionJob_Run(t *testing.T) {
	fixed := time.Date(2024, 5, 10, 3, 0, 0, 0, time.UTC)
	rm := &fakeRemover{}
	job := NewRetentionJob(rm, 7, "0 0 3 * * *")
	job.now = func() time.Time { return fixed }

	assert.Equal(t, "retention", job.Name())
	assert.Equal(t, "0 0 3 * * *", job.Schedule())

	job.Run(context.Background())
	assert.Equal(t, 7, rm.days)
	assert.Equal(t, fixed, rm.ref)

	// failures are logged, not propagated
	rm.err = errors.New("db down")
	job.Run(context.Background())
}

func TestRetentionJob_ScheduleParses(t *testing.T) {
	ex := NewTaskExecutor(NewRetentionJob(&fakeRemover{}, 7, "0 0 3 * * *"))
	require.NoError(t, ex.Start())
	assert.NoError(t, ex.Stop(context.Background()))
}
