package retention

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/metrics"
)

const DefaultDays = 7

type Repo interface {
	// DeleteSessionsBefore removes sessions created strictly before cutoff;
	// their session links go with them through ON DELETE CASCADE.
	DeleteSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error)
	// PurgeAll empties every table and restarts the id sequences in one transaction.
	PurgeAll(ctx context.Context) error
}

type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

type Service struct {
	repo  Repo
	cache CacheInvalidator
	log   zerolog.Logger
}

func New(repo Repo, cache CacheInvalidator) *Service {
	return &Service{repo: repo, cache: cache, log: logger.Component("retention")}
}

// Cutoff is the instant before which sessions are expired.
func Cutoff(days int, ref time.Time) time.Time {
	if days <= 0 {
		days = DefaultDays
	}
	return ref.UTC().AddDate(0, 0, -days)
}

// RemoveSessionsOlderThan deletes sessions created before ref minus days
// (DefaultDays when days <= 0) and returns how many were removed.
// Links are kept even when no session references them any more.
func (s *Service) RemoveSessionsOlderThan(ctx context.Context, days int, ref time.Time) (int64, error) {
	cutoff := Cutoff(days, ref)

	n, err := s.repo.DeleteSessionsBefore(ctx, cutoff)
	if err != nil {
		s.log.Error().Err(err).Time("cutoff", cutoff).Msg("remove old sessions failed")
		return 0, domain.ErrPersistence("cleanup_failed", "Failed to remove old sessions.", err)
	}

	metrics.SessionsDeleted.Add(float64(n))
	s.invalidate(ctx)
	s.log.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("old sessions removed")
	return n, nil
}

// PurgeAllData removes every session, link and session link.
func (s *Service) PurgeAllData(ctx context.Context) error {
	if err := s.repo.PurgeAll(ctx); err != nil {
		metrics.Purges.WithLabelValues("failed").Inc()
		s.log.Error().Err(err).Msg("purge failed")
		return domain.ErrPersistence("db_clear_error", "Failed to clear analytics data.", err)
	}

	metrics.Purges.WithLabelValues("ok").Inc()
	s.invalidate(ctx)
	s.log.Warn().Msg("all analytics data purged")
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("stats cache invalidation failed")
	}
}
