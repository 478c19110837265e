package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/domain"
)

// A racing writer can commit the same (text, href) between our SELECT and
// INSERT; DO NOTHING then returns no row and we look again.
const maxLinkLookups = 3

type txRepo struct {
	tx *sqlx.Tx
	q  *queries
}

func (t *txRepo) InsertSession(ctx context.Context, screenWidth, screenHeight int) (int64, error) {
	var id int64
	if err := t.tx.QueryRowxContext(ctx, t.q.insertSession, screenWidth, screenHeight).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}
	return id, nil
}

func (t *txRepo) FindOrCreateLink(ctx context.Context, link domain.LinkInput) (int64, error) {
	for attempt := 0; attempt < maxLinkLookups; attempt++ {
		var id int64
		err := t.tx.GetContext(ctx, &id, t.q.selectLinkID, link.Text, link.Href)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("select link: %w", err)
		}

		err = t.tx.GetContext(ctx, &id, t.q.insertLink, link.Text, link.Href)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("insert link: %w", err)
		}
	}
	return 0, fmt.Errorf("link %q not resolved after %d lookups", link.Href, maxLinkLookups)
}

func (t *txRepo) InsertSessionLink(ctx context.Context, sessionID, linkID int64, order int) error {
	if _, err := t.tx.ExecContext(ctx, t.q.insertSessionLink, sessionID, linkID, order); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("session %d already has a link at position %d: %w", sessionID, order, err)
		}
		return fmt.Errorf("insert session link: %w", err)
	}
	return nil
}
