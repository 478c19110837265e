package handlers

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/application/ingest"
	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/domain"
)

type PageViewRecorder interface {
	RecordPageView(ctx context.Context, pv domain.PageView) (ingest.Result, error)
}

type StatsReader interface {
	Dashboard(ctx context.Context) (domain.Dashboard, error)
	LinksForSession(ctx context.Context, sessionID int64) ([]domain.SessionLinkView, error)
}

type RetentionService interface {
	RemoveSessionsOlderThan(ctx context.Context, days int, ref time.Time) (int64, error)
	PurgeAllData(ctx context.Context) error
}

type NonceIssuer interface {
	Issue(uid string) (string, time.Time)
}
