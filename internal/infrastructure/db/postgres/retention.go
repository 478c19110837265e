package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

func (r *Repo) DeleteSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := r.withTx(ctx, writeTx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, r.q.deleteSessionsBefore, cutoff)
		if err != nil {
			return fmt.Errorf("delete sessions: %w", err)
		}
		deleted, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// PurgeAll empties sessions, links and session links and restarts their id
// sequences, so the next session is 1 again. A failed purge changes nothing.
func (r *Repo) PurgeAll(ctx context.Context) error {
	return r.withTx(ctx, writeTx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, r.q.purge); err != nil {
			return fmt.Errorf("purge: %w", err)
		}
		return nil
	})
}
