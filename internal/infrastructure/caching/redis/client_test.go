package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/domain"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := New("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestClient_SetGet(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()
	key := "linkanalyzer:wp_:dashboard:0"

	var miss domain.Dashboard
	found, err := c.Get(ctx, key, &miss)
	require.NoError(t, err)
	assert.False(t, found)

	in := domain.Dashboard{
		DBVersion:     "1.0",
		TotalSessions: 2,
		ScreenHeights: []domain.HeightBucket{{ScreenHeight: 1080, SessionCount: 2}},
		Links:         []domain.LinkStat{{ID: 1, Text: "Home", Href: "https://example.com/", SessionCount: 2}},
	}
	require.NoError(t, c.Set(ctx, key, in, 30*time.Second))
	assert.Equal(t, 30*time.Second, mr.TTL(key))

	var out domain.Dashboard
	found, err = c.Get(ctx, key, &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)
}

func TestClient_Counter(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	n, err := c.Counter(ctx, "gen")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = c.Incr(ctx, "gen")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, err = c.Incr(ctx, "gen")
	require.NoError(t, err)

	n, err = c.Counter(ctx, "gen")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, mr.Set("text", "abc"))
	_, err = c.Counter(ctx, "text")
	assert.Error(t, err)
}

func TestClient_Ping(t *testing.T) {
	c, mr := newTestClient(t)
	assert.NoError(t, c.Ping(context.Background()))

	mr.Close()
	assert.Error(t, c.Ping(context.Background()))
}

func TestClient_ExpiredKeyIsMiss(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", map[string]int{"a": 1}, time.Second))
	mr.FastForward(2 * time.Second)

	var out map[string]int
	found, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClient_CorruptValue(t *testing.T) {
	c, mr := newTestClient(t)
	require.NoError(t, mr.Set("bad", "{not json"))

	var out domain.Dashboard
	found, err := c.Get(context.Background(), "bad", &out)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestNew_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := New("redis://" + addr)
	assert.Error(t, err)
}

func TestNew_BadURL(t *testing.T) {
	_, err := New("not-a-url://")
	assert.Error(t, err)
}
