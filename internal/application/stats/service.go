package stats

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/metrics"
)

const (
	DefaultTopLinksLimit = 100
	MaxTopLinksLimit     = 1000
)

type Service struct {
	reader    Reader
	cache     Cache
	ttl       time.Duration
	namespace string
	genKey    string
	log       zerolog.Logger
}

// New builds the aggregation service. cache may be nil; namespace scopes cache keys.
func New(reader Reader, cache Cache, ttl time.Duration, namespace string) *Service {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Service{
		reader:    reader,
		cache:     cache,
		ttl:       ttl,
		namespace: namespace,
		genKey:    cacheKeyGeneration(namespace),
		log:       logger.Component("stats"),
	}
}

func (s *Service) ScreenHeightDistribution(ctx context.Context) ([]domain.HeightBucket, error) {
	out, err := s.reader.ScreenHeightDistribution(ctx)
	if err != nil {
		return nil, queryFailed(err)
	}
	return out, nil
}

// TopLinks returns links by descending distinct session count, ties by ascending id.
// limit <= 0 means DefaultTopLinksLimit.
func (s *Service) TopLinks(ctx context.Context, limit int) ([]domain.LinkStat, error) {
	out, err := s.reader.TopLinks(ctx, clampLimit(limit))
	if err != nil {
		return nil, queryFailed(err)
	}
	return out, nil
}

// LinksForSession returns the session's links in document order.
// Unknown sessions are a not-found error; a known session without links yields an empty slice.
func (s *Service) LinksForSession(ctx context.Context, sessionID int64) ([]domain.SessionLinkView, error) {
	if sessionID <= 0 {
		return nil, domain.ErrInvalidSessionID()
	}

	links, found, err := s.reader.LinksForSession(ctx, sessionID)
	if err != nil {
		return nil, queryFailed(err)
	}
	if !found {
		return nil, domain.ErrSessionNotFound(sessionID)
	}
	if links == nil {
		links = []domain.SessionLinkView{}
	}
	return links, nil
}

func (s *Service) TotalSessionCount(ctx context.Context) (int64, error) {
	n, err := s.reader.TotalSessionCount(ctx)
	if err != nil {
		return 0, queryFailed(err)
	}
	return n, nil
}

// Dashboard is read through the cache; cache failures only cost a query.
//
// Cached entries live under a generation number that Invalidate bumps. A
// reader that loaded the store before a write commits can only fill the old
// generation, which nobody reads again.
func (s *Service) Dashboard(ctx context.Context) (domain.Dashboard, error) {
	key, cached, ok := s.cachedDashboard(ctx)
	if ok {
		return cached, nil
	}

	d, err := s.reader.Dashboard(ctx, DefaultTopLinksLimit)
	if err != nil {
		return domain.Dashboard{}, queryFailed(err)
	}
	if d.ScreenHeights == nil {
		d.ScreenHeights = []domain.HeightBucket{}
	}
	if d.Links == nil {
		d.Links = []domain.LinkStat{}
	}

	if key != "" {
		if err := s.cache.Set(ctx, key, d, s.ttl); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	return d, nil
}

// cachedDashboard returns the current generation's key and, on a hit, its value.
// key is "" when there is no usable cache.
func (s *Service) cachedDashboard(ctx context.Context) (key string, d domain.Dashboard, hit bool) {
	if s.cache == nil {
		return "", d, false
	}
	gen, err := s.cache.Counter(ctx, s.genKey)
	if err != nil {
		metrics.StatsCache.WithLabelValues("error").Inc()
		s.log.Warn().Err(err).Str("key", s.genKey).Msg("cache generation read failed")
		return "", d, false
	}
	key = cacheKeyDashboard(s.namespace, gen)

	found, err := s.cache.Get(ctx, key, &d)
	switch {
	case err != nil:
		metrics.StatsCache.WithLabelValues("error").Inc()
		s.log.Warn().Err(err).Str("key", key).Msg("cache get failed")
	case found:
		metrics.StatsCache.WithLabelValues("hit").Inc()
		return key, d, true
	default:
		metrics.StatsCache.WithLabelValues("miss").Inc()
	}
	return key, domain.Dashboard{}, false
}

// Invalidate starts a new cache generation. Writers call it after commit.
// If it fails, readers may see the previous dashboard for up to the cache TTL.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	_, err := s.cache.Incr(ctx, s.genKey)
	return err
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultTopLinksLimit
	}
	if limit > MaxTopLinksLimit {
		return MaxTopLinksLimit
	}
	return limit
}

func queryFailed(err error) error {
	return domain.ErrPersistence("db_query_failed", "failed to load analytics data", err)
}
