package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/domain"
)

func (r *Repo) ScreenHeightDistribution(ctx context.Context) ([]domain.HeightBucket, error) {
	return r.heightDistribution(ctx, r.db)
}

func (r *Repo) TopLinks(ctx context.Context, limit int) ([]domain.LinkStat, error) {
	return r.topLinks(ctx, r.db, limit)
}

func (r *Repo) TotalSessionCount(ctx context.Context) (int64, error) {
	return r.countSessions(ctx, r.db)
}

// LinksForSession checks existence and reads the links in one snapshot so a
// concurrent delete cannot turn "not found" into "no links".
func (r *Repo) LinksForSession(ctx context.Context, sessionID int64) ([]domain.SessionLinkView, bool, error) {
	var (
		links = []domain.SessionLinkView{}
		found bool
	)
	err := r.withTx(ctx, snapshotTx, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &found, r.q.sessionExists, sessionID); err != nil {
			return err
		}
		if !found {
			return nil
		}
		return tx.SelectContext(ctx, &links, r.q.linksForSession, sessionID)
	})
	if err != nil {
		return nil, false, err
	}
	return links, found, nil
}

// Dashboard reads the session count, height buckets and top links from a
// single read-only snapshot.
func (r *Repo) Dashboard(ctx context.Context, linkLimit int) (domain.Dashboard, error) {
	// A missing meta table aborts a Postgres transaction, so read it first.
	version, err := r.SchemaVersion(ctx)
	if err != nil {
		return domain.Dashboard{}, err
	}

	d := domain.Dashboard{DBVersion: version}
	err = r.withTx(ctx, snapshotTx, func(tx *sqlx.Tx) error {
		var err error
		if d.TotalSessions, err = r.countSessions(ctx, tx); err != nil {
			return err
		}
		if d.ScreenHeights, err = r.heightDistribution(ctx, tx); err != nil {
			return err
		}
		d.Links, err = r.topLinks(ctx, tx, linkLimit)
		return err
	})
	if err != nil {
		return domain.Dashboard{}, err
	}
	return d, nil
}

func (r *Repo) heightDistribution(ctx context.Context, q sqlx.QueryerContext) ([]domain.HeightBucket, error) {
	out := []domain.HeightBucket{}
	if err := sqlx.SelectContext(ctx, q, &out, r.q.heightDistribution); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) topLinks(ctx context.Context, q sqlx.QueryerContext, limit int) ([]domain.LinkStat, error) {
	out := []domain.LinkStat{}
	if err := sqlx.SelectContext(ctx, q, &out, r.q.topLinks, limit); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) countSessions(ctx context.Context, q sqlx.QueryerContext) (int64, error) {
	var n int64
	if err := sqlx.GetContext(ctx, q, &n, r.q.countSessions); err != nil {
		return 0, err
	}
	return n, nil
}
