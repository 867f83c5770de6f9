package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSet(t *testing.T) {
	c := New(true)
	defer c.Close()

	key := Key("summary", "Tottenham", "")
	_, _, ok := c.Get(key)
	assert.False(t, ok)

	etag := c.Set(key, []byte(`{"total_shots":3}`), time.Minute)
	data, got, ok := c.Get(key)
	assert.True(t, ok)
	assert.Equal(t, etag, got)
	assert.JSONEq(t, `{"total_shots":3}`, string(data))
}

func TestExpiredEntryMisses(t *testing.T) {
	c := New(true)
	defer c.Close()

	c.Set("k", []byte("v"), -time.Second)
	_, _, ok := c.Get("k")
	assert.False(t, ok)

	c.evict()
	assert.Equal(t, 0, c.Stats()["total_keys"])
}

func TestPurge(t *testing.T) {
	c := New(true)
	defer c.Close()

	c.Set("a", []byte("1"), time.Minute)
	c.Set("b", []byte("2"), time.Minute)
	assert.Equal(t, 2, c.Purge())

	_, _, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Stats()["purges"])
}

func TestSetIfGenerationRejectsAfterPurge(t *testing.T) {
	c := New(true)
	defer c.Close()

	gen := c.Generation()
	c.Purge()
	etag, stored := c.SetIfGeneration("pitch|Tottenham|", []byte("old"), time.Minute, gen)
	assert.False(t, stored)
	assert.Equal(t, ComputeETag([]byte("old")), etag)
	_, _, ok := c.Get("pitch|Tottenham|")
	assert.False(t, ok, "a response built before the purge is not cached")

	_, stored = c.SetIfGeneration("pitch|Tottenham|", []byte("new"), time.Minute, c.Generation())
	assert.True(t, stored)
	data, _, ok := c.Get("pitch|Tottenham|")
	require.True(t, ok)
	assert.Equal(t, []byte("new"), data)
}

func TestDisabledCache(t *testing.T) {
	c := New(false)
	etag := c.Set("k", []byte("v"), time.Minute)
	assert.Equal(t, ComputeETag([]byte("v")), etag)
	_, _, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCheckETagMatch(t *testing.T) {
	etag := ComputeETag([]byte("payload"))
	assert.False(t, CheckETagMatch("", etag))
	assert.True(t, CheckETagMatch("*", etag))
	assert.True(t, CheckETagMatch(etag, etag))
	assert.True(t, CheckETagMatch(`W/"0000", `+etag, etag))
	assert.False(t, CheckETagMatch(`W/"0000"`, etag))
}
