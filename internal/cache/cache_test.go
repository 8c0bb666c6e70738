package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGetExpiry(t *testing.T) {
	c := New(true)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	etag := c.Set("k", []byte(`{"a":1}`), time.Minute)
	data, got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, etag, got)
	assert.JSONEq(t, `{"a":1}`, string(data))

	now = now.Add(2 * time.Minute)
	_, _, ok = c.Get("k")
	assert.False(t, ok)

	c.evict()
	assert.Equal(t, 0, c.Stats()["total_keys"])
}

func TestCache_Disabled(t *testing.T) {
	c := New(false)
	etag := c.Set("k", []byte("x"), time.Minute)
	assert.Equal(t, ComputeETag([]byte("x")), etag)
	_, _, ok := c.Get("k")
	assert.False(t, ok)
	assert.Zero(t, c.DeletePrefix("k"))
}

func TestCache_DeletePrefix(t *testing.T) {
	c := New(true)
	c.Set(StatsKey("u1", 2000), []byte("a"), time.Minute)
	c.Set(StatsKey("u1", 3000), []byte("b"), time.Minute)
	c.Set(StatsKey("u10", 2000), []byte("c"), time.Minute)

	assert.Equal(t, 2, c.DeletePrefix(StatsPrefix("u1")))
	_, _, ok := c.Get(StatsKey("u10", 2000))
	assert.True(t, ok)
}

func TestCheckETagMatch(t *testing.T) {
	etag := ComputeETag([]byte("body"))
	assert.True(t, CheckETagMatch(etag, etag))
	assert.True(t, CheckETagMatch(`W/"other", `+etag, etag))
	assert.True(t, CheckETagMatch("*", etag))
	assert.False(t, CheckETagMatch("", etag))
	assert.False(t, CheckETagMatch(`W/"other"`, etag))
}

func TestCache_SetIfCurrentSkipsAfterInvalidation(t *testing.T) {
	c := New(true)
	prefix := StatsPrefix("u1")
	key := StatsKey("u1", 2000)

	gen := c.Generation(prefix)
	c.DeletePrefix(prefix)
	_, stored := c.SetIfCurrent(key, prefix, gen, []byte("stale"), time.Minute)
	assert.False(t, stored)
	_, _, ok := c.Get(key)
	assert.False(t, ok)

	gen = c.Generation(prefix)
	c.DeletePrefix(StatsPrefix("u2"))
	etag, stored := c.SetIfCurrent(key, prefix, gen, []byte("fresh"), time.Minute)
	require.True(t, stored)
	data, got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, etag, got)
	assert.Equal(t, "fresh", string(data))
}
