package domain

import "time"

// DBVersion is the schema version recorded by EnsureSchema.
const DBVersion = "1.0"

// Column limits shared by validation, sanitization and the DDL.
const (
	MaxLinkTextRunes = 500
	MaxLinkHrefLen   = 2048
)

// Session is one recorded page view.
type Session struct {
	ID           int64     `db:"id"`
	ScreenWidth  int       `db:"screen_width"`
	ScreenHeight int       `db:"screen_height"`
	CreatedAt    time.Time `db:"created_at"`
}

// Link is a deduplicated (text, href) pair.
type Link struct {
	ID        int64     `db:"id"`
	Text      string    `db:"link_text"`
	Href      string    `db:"link_href"`
	CreatedAt time.Time `db:"created_at"`
}

// LinkInput is a sanitized link as reported by the collector, in document order.
type LinkInput struct {
	Text string
	Href string
}

// PageView is the validated ingestion payload.
type PageView struct {
	ScreenWidth  int
	ScreenHeight int
	Links        []LinkInput
}

// HeightBucket is one row of the screen height distribution.
type HeightBucket struct {
	ScreenHeight int   `db:"screen_height" json:"screenHeight"`
	SessionCount int64 `db:"session_count" json:"numberOfSessions"`
}

// LinkStat is a link with the number of distinct sessions that saw it.
type LinkStat struct {
	ID           int64  `db:"id" json:"id"`
	Text         string `db:"link_text" json:"text"`
	Href         string `db:"link_href" json:"href"`
	SessionCount int64  `db:"session_count" json:"sessionCount"`
}

// SessionLinkView is a link as it appeared within one session.
type SessionLinkView struct {
	ID    int64  `db:"id" json:"id"`
	Text  string `db:"link_text" json:"text"`
	Href  string `db:"link_href" json:"href"`
	Order int    `db:"link_order" json:"order"`
}

// Dashboard is the operator overview.
type Dashboard struct {
	DBVersion     string         `json:"db_version"`
	TotalSessions int64          `json:"total_sessions"`
	ScreenHeights []HeightBucket `json:"screen_heights"`
	Links         []LinkStat     `json:"links"`
}
