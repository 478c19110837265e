package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/domain"
)

// Repo is the Postgres store for sessions, links and their associations.
// It satisfies ingest.Repo, stats.Reader and retention.Repo.
type Repo struct {
	db     *sqlx.DB
	q      queries
	tables domain.Tables
}

// New wraps an open pgx-backed *sql.DB.
func New(db *sql.DB, t domain.Tables) *Repo {
	return &Repo{
		db:     sqlx.NewDb(db, "pgx"),
		q:      newQueries(t),
		tables: t,
	}
}

func (r *Repo) Tables() domain.Tables { return r.tables }

func (r *Repo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
