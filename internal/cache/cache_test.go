package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newTestCache(enabled bool) (*Cache, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 5, 25, 18, 0, 0, 0, time.UTC)}
	c := New(enabled, time.Hour)
	c.now = clock.now
	return c, clock
}

func TestSetGetAndExpiry(t *testing.T) {
	c, clock := newTestCache(true)
	key := Key(KindWorkbook, 542663)
	assert.Equal(t, "xlsx:542663", key)

	etag := c.Set(key, []byte("workbook"))
	e, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, []byte("workbook"), e.Data)
	assert.Equal(t, etag, e.ETag)
	assert.Equal(t, clock.t, e.GeneratedAt)

	clock.t = clock.t.Add(time.Hour + time.Second)
	_, ok = c.Get(key)
	assert.False(t, ok)

	stats := c.Stats()
	assert.Equal(t, 1, stats.TotalKeys)
	assert.Equal(t, 1, stats.ExpiredKeys)
	assert.Equal(t, 1, c.Evict())
	assert.Equal(t, 0, c.Stats().TotalKeys)
}

func TestDisabledCacheNeverHits(t *testing.T) {
	c, _ := newTestCache(false)
	etag := c.Set("k", []byte("x"))
	assert.Equal(t, ComputeETag([]byte("x")), etag)
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.False(t, c.Stats().Enabled)
}

func TestInvalidateDropsBothRenderings(t *testing.T) {
	c, _ := newTestCache(true)
	c.Set(Key(KindWorkbook, 1), []byte("a"))
	c.Set(Key(KindSummary, 1), []byte("b"))
	c.Set(Key(KindSummary, 2), []byte("c"))

	c.Invalidate(1)
	assert.Equal(t, 1, c.Stats().TotalKeys)
	_, ok := c.Get(Key(KindSummary, 2))
	assert.True(t, ok)
}

func TestETag(t *testing.T) {
	a := ComputeETag([]byte("a"))
	assert.Regexp(t, `^W/"[0-9a-f]{16}"$`, a)
	assert.NotEqual(t, a, ComputeETag([]byte("b")))

	assert.True(t, CheckETagMatch(a, a))
	assert.True(t, CheckETagMatch("*", a))
	assert.False(t, CheckETagMatch("", a))
	assert.False(t, CheckETagMatch(`W/"other"`, a))
}
