package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/domain"
)

// EnsureSchema creates any missing table or index and records domain.DBVersion.
// It is idempotent.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	return r.withTx(ctx, writeTx, func(tx *sqlx.Tx) error {
		for _, stmt := range r.q.schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("create schema: %w", err)
			}
		}
		if _, err := tx.ExecContext(ctx, r.q.upsertDBVersion, domain.DBVersion); err != nil {
			return fmt.Errorf("record db version: %w", err)
		}
		return nil
	})
}

// DropSchema removes every table this service owns.
func (r *Repo) DropSchema(ctx context.Context) error {
	return r.withTx(ctx, writeTx, func(tx *sqlx.Tx) error {
		for _, stmt := range r.q.drop {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("drop schema: %w", err)
			}
		}
		return nil
	})
}

// SchemaVersion returns the recorded version, or "" when the schema was never installed.
func (r *Repo) SchemaVersion(ctx context.Context) (string, error) {
	var v string
	err := r.db.GetContext(ctx, &v, r.q.selectDBVersion)
	switch {
	case err == nil:
		return v, nil
	case errors.Is(err, sql.ErrNoRows), isUndefinedTable(err):
		return "", nil
	default:
		return "", err
	}
}
