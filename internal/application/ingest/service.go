package ingest

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/metrics"
)

// Result is returned for a committed page view.
type Result struct {
	SessionID  int64
	LinksCount int
}

type Service struct {
	repo  Repo
	cache CacheInvalidator
	log   zerolog.Logger
}

// New builds the ingestion service. cache may be nil.
func New(repo Repo, cache CacheInvalidator) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   logger.Component("ingest"),
	}
}

// RecordPageView validates, sanitizes and stores one page view atomically:
// the session, any new links and the ordered session links commit together
// or not at all.
func (s *Service) RecordPageView(ctx context.Context, pv domain.PageView) (Result, error) {
	if err := Validate(pv); err != nil {
		s.reject(err)
		return Result{}, err
	}
	clean, err := Sanitize(pv)
	if err != nil {
		s.reject(err)
		return Result{}, err
	}

	var sessionID int64
	err = s.repo.WithTx(ctx, func(tx TxRepo) error {
		id, err := tx.InsertSession(ctx, clean.ScreenWidth, clean.ScreenHeight)
		if err != nil {
			return err
		}
		sessionID = id

		for order, l := range clean.Links {
			linkID, err := tx.FindOrCreateLink(ctx, l)
			if err != nil {
				return err
			}
			if err := tx.InsertSessionLink(ctx, id, linkID, order); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).
			Int("screen_width", clean.ScreenWidth).
			Int("screen_height", clean.ScreenHeight).
			Int("links", len(clean.Links)).
			Msg("record page view failed")
		metrics.IngestRejected.WithLabelValues("data_insertion_failed").Inc()
		return Result{}, domain.ErrPersistence("data_insertion_failed", "failed to save page view data", err)
	}

	metrics.PageViewsRecorded.Inc()
	metrics.LinksRecorded.Add(float64(len(clean.Links)))

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.log.Warn().Err(err).Msg("stats cache invalidation failed")
		}
	}

	s.log.Debug().Int64("session_id", sessionID).Int("links", len(clean.Links)).Msg("page view recorded")
	return Result{SessionID: sessionID, LinksCount: len(clean.Links)}, nil
}

func (s *Service) reject(err error) {
	code := "validation"
	var de *domain.Error
	if errors.As(err, &de) {
		code = de.Code
	}
	metrics.IngestRejected.WithLabelValues(code).Inc()
}
