package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_WrapAndUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := ErrPersistence("data_insertion_failed", "failed to save page view data", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsKind(err, KindPersistence))
	assert.True(t, Is(err, "data_insertion_failed"))
	assert.Contains(t, err.Error(), "connection reset")
}

func TestIs_ThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("handler: %w", ErrSessionNotFound(42))

	assert.True(t, Is(err, "session_not_found"))
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, Is(errors.New("plain"), "session_not_found"))
}

func TestErrLinkItem_Meta(t *testing.T) {
	err := ErrLinkItem("missing_link_href", 3, "href", "required", "x")

	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, map[string]string{"field": "href", "index": "3", "rule": "required"}, err.Meta)
}

func TestNewTables(t *testing.T) {
	tb, err := NewTables("wp_")
	require.NoError(t, err)
	assert.Equal(t, "wp_linkanalyzer_sessions", tb.Sessions)
	assert.Equal(t, "wp_linkanalyzer_links", tb.Links)
	assert.Equal(t, "wp_linkanalyzer_session_links", tb.SessionLinks)
	assert.Equal(t, []string{tb.SessionLinks, tb.Links, tb.Sessions, tb.Meta}, tb.DropOrder())

	_, err = NewTables("wp; DROP TABLE x")
	assert.Error(t, err)
}

func TestNewTables_PrefixRules(t *testing.T) {
	longest := strings.Repeat("p", MaxPrefixLen)
	tests := []struct {
		prefix string
		ok     bool
	}{
		{"", true},
		{"wp_", true},
		{"_site2_", true},
		{longest, true},
		{longest + "x", false},
		{"2wp_", false},
		{"wp-", false},
		{"wp_ü", false},
	}
	for _, tt := range tests {
		tb, err := NewTables(tt.prefix)
		if !tt.ok {
			assert.Error(t, err, tt.prefix)
			continue
		}
		require.NoError(t, err, tt.prefix)
		// longest index or constraint name derived from a table
		assert.LessOrEqual(t, len(tb.SessionLinks+"_unique_order"), 63, tt.prefix)
		assert.LessOrEqual(t, len(tb.SessionLinks+"_link_id_idx"), 63, tt.prefix)
	}
}
