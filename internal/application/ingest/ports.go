package ingest

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/domain"
)

// Repo opens the write transaction for one page view.
type Repo interface {
	WithTx(ctx context.Context, fn func(tx TxRepo) error) error
}

// TxRepo is the set of writes performed inside the ingestion transaction.
type TxRepo interface {
	InsertSession(ctx context.Context, screenWidth, screenHeight int) (int64, error)
	// FindOrCreateLink returns the id of the (text, href) row, inserting it if absent.
	// A concurrent insert of the same pair must resolve to the existing row.
	FindOrCreateLink(ctx context.Context, link domain.LinkInput) (int64, error)
	InsertSessionLink(ctx context.Context, sessionID, linkID int64, order int) error
}

// CacheInvalidator drops cached aggregates after a successful write.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}
