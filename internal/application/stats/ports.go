package stats

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/domain"
)

// Reader is the read side of the store. Implementations must not write.
type Reader interface {
	ScreenHeightDistribution(ctx context.Context) ([]domain.HeightBucket, error)
	TopLinks(ctx context.Context, limit int) ([]domain.LinkStat, error)
	// LinksForSession reports found=false when the session does not exist.
	LinksForSession(ctx context.Context, sessionID int64) (links []domain.SessionLinkView, found bool, err error)
	TotalSessionCount(ctx context.Context) (int64, error)
	SchemaVersion(ctx context.Context) (string, error)
	// Dashboard reads counts, heights and top links from one snapshot.
	Dashboard(ctx context.Context, linkLimit int) (domain.Dashboard, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, val any, ttl time.Duration) error
	// Counter reads an integer key, 0 when absent; Incr adds one and returns the new value.
	Counter(ctx context.Context, key string) (int64, error)
	Incr(ctx context.Context, key string) (int64, error)
}
