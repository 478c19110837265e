package postgres

import (
	"fmt"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/domain"
)

// Table names are validated identifiers (domain.NewTables), so they are
// formatted into the statements once, at construction.

const createSessionsSQL = `
CREATE TABLE IF NOT EXISTS %[1]s (
  id            BIGSERIAL PRIMARY KEY,
  screen_width  INTEGER NOT NULL CHECK (screen_width > 0),
  screen_height INTEGER NOT NULL CHECK (screen_height > 0),
  created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const createSessionsCreatedAtIdxSQL = `
CREATE INDEX IF NOT EXISTS %[1]s_created_at_idx ON %[1]s (created_at)`

const createSessionsDimensionsIdxSQL = `
CREATE INDEX IF NOT EXISTS %[1]s_dimensions_idx ON %[1]s (screen_width, screen_height)`

const createLinksSQL = `
CREATE TABLE IF NOT EXISTS %[1]s (
  id         BIGSERIAL PRIMARY KEY,
  link_text  VARCHAR(500)  NOT NULL,
  link_href  VARCHAR(2048) NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// A btree entry is capped near 2.7kB, less than a full text+href pair, so
// uniqueness is enforced on digests and href lookups use a hash index.
const (
	dropLinksUniqueConstraintSQL = `ALTER TABLE %[1]s DROP CONSTRAINT IF EXISTS %[1]s_unique_link`

	createLinksKeyIdxSQL = `
CREATE UNIQUE INDEX IF NOT EXISTS %[1]s_link_key_idx ON %[1]s ((md5(link_text)), (md5(link_href)))`

	dropLinksHrefBtreeIdxSQL = `DROP INDEX IF EXISTS %[1]s_href_idx`

	createLinksHrefIdxSQL = `
CREATE INDEX IF NOT EXISTS %[1]s_href_hash_idx ON %[1]s USING hash (link_href)`
)

const createSessionLinksSQL = `
CREATE TABLE IF NOT EXISTS %[1]s (
  id         BIGSERIAL PRIMARY KEY,
  session_id BIGINT  NOT NULL REFERENCES %[2]s (id) ON DELETE CASCADE,
  link_id    BIGINT  NOT NULL REFERENCES %[3]s (id) ON DELETE CASCADE,
  link_order INTEGER NOT NULL CHECK (link_order >= 0),
  CONSTRAINT %[1]s_unique_order UNIQUE (session_id, link_order)
)`

const createSessionLinksLinkIdxSQL = `
CREATE INDEX IF NOT EXISTS %[1]s_link_id_idx ON %[1]s (link_id)`

const createMetaSQL = `
CREATE TABLE IF NOT EXISTS %[1]s (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
)`

const upsertDBVersionSQL = `
INSERT INTO %[1]s (key, value) VALUES ('db_version', $1)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`

const selectDBVersionSQL = `SELECT value FROM %[1]s WHERE key = 'db_version'`

const dropTableSQL = `DROP TABLE IF EXISTS %[1]s`

// ingestion

const insertSessionSQL = `
INSERT INTO %[1]s (screen_width, screen_height)
VALUES ($1, $2)
RETURNING id`

const selectLinkIDSQL = `
SELECT id FROM %[1]s
WHERE md5(link_text) = md5($1) AND md5(link_href) = md5($2)
  AND link_text = $1 AND link_href = $2`

const insertLinkSQL = `
INSERT INTO %[1]s (link_text, link_href)
VALUES ($1, $2)
ON CONFLICT ((md5(link_text)), (md5(link_href))) DO NOTHING
RETURNING id`

const insertSessionLinkSQL = `
INSERT INTO %[1]s (session_id, link_id, link_order)
VALUES ($1, $2, $3)`

// aggregation

const screenHeightDistributionSQL = `
SELECT screen_height, COUNT(*) AS session_count
FROM %[1]s
GROUP BY screen_height
ORDER BY screen_height ASC`

const topLinksSQL = `
SELECT l.id, l.link_text, l.link_href, COUNT(DISTINCT sl.session_id) AS session_count
FROM %[1]s l
LEFT JOIN %[2]s sl ON sl.link_id = l.id
GROUP BY l.id, l.link_text, l.link_href
ORDER BY session_count DESC, l.id ASC
LIMIT $1`

const sessionExistsSQL = `SELECT EXISTS (SELECT 1 FROM %[1]s WHERE id = $1)`

const linksForSessionSQL = `
SELECT l.id, l.link_text, l.link_href, sl.link_order
FROM %[1]s sl
JOIN %[2]s l ON l.id = sl.link_id
WHERE sl.session_id = $1
ORDER BY sl.link_order ASC`

const countSessionsSQL = `SELECT COUNT(*) FROM %[1]s`

// retention

const deleteSessionsBeforeSQL = `DELETE FROM %[1]s WHERE created_at < $1`

// RESTART IDENTITY is rolled back with the transaction, unlike setval.
const purgeSQL = `TRUNCATE %[1]s, %[2]s, %[3]s RESTART IDENTITY`

type queries struct {
	schema                           []string
	upsertDBVersion, selectDBVersion string

	insertSession, selectLinkID, insertLink, insertSessionLink string

	heightDistribution, topLinks, sessionExists, linksForSession, countSessions string

	deleteSessionsBefore string
	purge                string
	drop                 []string
}

func newQueries(t domain.Tables) queries {
	return queries{
		// parents before children
		schema: []string{
			fmt.Sprintf(createSessionsSQL, t.Sessions),
			fmt.Sprintf(createSessionsCreatedAtIdxSQL, t.Sessions),
			fmt.Sprintf(createSessionsDimensionsIdxSQL, t.Sessions),
			fmt.Sprintf(createLinksSQL, t.Links),
			fmt.Sprintf(dropLinksUniqueConstraintSQL, t.Links),
			fmt.Sprintf(createLinksKeyIdxSQL, t.Links),
			fmt.Sprintf(dropLinksHrefBtreeIdxSQL, t.Links),
			fmt.Sprintf(createLinksHrefIdxSQL, t.Links),
			fmt.Sprintf(createSessionLinksSQL, t.SessionLinks, t.Sessions, t.Links),
			fmt.Sprintf(createSessionLinksLinkIdxSQL, t.SessionLinks),
			fmt.Sprintf(createMetaSQL, t.Meta),
		},
		upsertDBVersion: fmt.Sprintf(upsertDBVersionSQL, t.Meta),
		selectDBVersion: fmt.Sprintf(selectDBVersionSQL, t.Meta),

		insertSession:     fmt.Sprintf(insertSessionSQL, t.Sessions),
		selectLinkID:      fmt.Sprintf(selectLinkIDSQL, t.Links),
		insertLink:        fmt.Sprintf(insertLinkSQL, t.Links),
		insertSessionLink: fmt.Sprintf(insertSessionLinkSQL, t.SessionLinks),

		heightDistribution: fmt.Sprintf(screenHeightDistributionSQL, t.Sessions),
		topLinks:           fmt.Sprintf(topLinksSQL, t.Links, t.SessionLinks),
		sessionExists:      fmt.Sprintf(sessionExistsSQL, t.Sessions),
		linksForSession:    fmt.Sprintf(linksForSessionSQL, t.SessionLinks, t.Links),
		countSessions:      fmt.Sprintf(countSessionsSQL, t.Sessions),

		deleteSessionsBefore: fmt.Sprintf(deleteSessionsBeforeSQL, t.Sessions),
		purge:                fmt.Sprintf(purgeSQL, t.SessionLinks, t.Links, t.Sessions),
		drop: dropStatements(t),
	}
}

func dropStatements(t domain.Tables) []string {
	var out []string
	for _, name := range t.DropOrder() {
		out = append(out, fmt.Sprintf(dropTableSQL, name))
	}
	return out
}
