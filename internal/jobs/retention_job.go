package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/logger"
)

const retentionRunTimeout = 5 * time.Minute

type SessionRemover interface {
	RemoveSessionsOlderThan(ctx context.Context, days int, ref time.Time) (int64, error)
}

// RetentionJob deletes sessions older than the configured window.
type RetentionJob struct {
	remover  SessionRemover
	days     int
	schedule string
	now      func() time.Time
	log      zerolog.Logger
}

func NewRetentionJob(remover SessionRemover, days int, schedule string) *RetentionJob {
	return &RetentionJob{
		remover:  remover,
		days:     days,
		schedule: schedule,
		now:      time.Now,
		log:      logger.Component("retention_job"),
	}
}

func (j *RetentionJob) Name() string     { return "retention" }
func (j *RetentionJob) Schedule() string { return j.schedule }

func (j *RetentionJob) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, retentionRunTimeout)
	defer cancel()

	n, err := j.remover.RemoveSessionsOlderThan(ctx, j.days, j.now())
	if err != nil {
		j.log.Error().Err(err).Int("days", j.days).Msg("scheduled cleanup failed")
		return
	}
	j.log.Info().Int64("deleted", n).Int("days", j.days).Msg("scheduled cleanup done")
}
