package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/application/ingest"
)

var (
	writeTx    = &sql.TxOptions{Isolation: sql.LevelReadCommitted}
	snapshotTx = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
)

func (r *Repo) withTx(ctx context.Context, opts *sql.TxOptions, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// WithTx runs one page view's writes atomically. Any error rolls everything back.
func (r *Repo) WithTx(ctx context.Context, fn func(tx ingest.TxRepo) error) error {
	return r.withTx(ctx, writeTx, func(tx *sqlx.Tx) error {
		return fn(&txRepo{tx: tx, q: &r.q})
	})
}
