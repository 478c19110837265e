package domain

import (
	"fmt"
	"regexp"
)

// MaxPrefixLen keeps the longest derived name, <prefix>linkanalyzer_session_links_unique_order,
// within the 63 byte identifier limit.
const MaxPrefixLen = 24

var prefixPattern = regexp.MustCompile(fmt.Sprintf(`^([A-Za-z_][A-Za-z0-9_]{0,%d})?$`, MaxPrefixLen-1))

// Tables holds the installation specific table names.
type Tables struct {
	Sessions     string
	Links        string
	SessionLinks string
	Meta         string
}

// NewTables builds table names from an installation prefix such as "wp_".
// The prefix ends up unquoted in DDL, so it must itself start a valid identifier.
// An empty prefix is allowed.
func NewTables(prefix string) (Tables, error) {
	if !prefixPattern.MatchString(prefix) {
		return Tables{}, fmt.Errorf("invalid table prefix %q", prefix)
	}
	return Tables{
		Sessions:     prefix + "linkanalyzer_sessions",
		Links:        prefix + "linkanalyzer_links",
		SessionLinks: prefix + "linkanalyzer_session_links",
		Meta:         prefix + "linkanalyzer_meta",
	}, nil
}

// DropOrder lists tables children first.
func (t Tables) DropOrder() []string {
	return []string{t.SessionLinks, t.Links, t.Sessions, t.Meta}
}
