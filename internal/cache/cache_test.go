package cache

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyNormalizesQuery(t *testing.T) {
	assert.Equal(t, Key("  Cheap VPS  "), Key("cheap vps"))
	assert.NotEqual(t, Key("cheap vps", "reddit"), Key("cheap vps", "github"))
}

func TestCacheGetSet(t *testing.T) {
	c := New[string](time.Hour, 10)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", "v")
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	stats := c.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 1, stats.Misses)
}

func TestCacheTTLExpiry(t *testing.T) {
	c := New[int](30*time.Millisecond, 10)
	c.Set("k", 1)

	_, ok := c.Get("k")
	require.True(t, ok)

	time.Sleep(60 * time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Stats().Entries, "expired entry removed on read")
}

func TestCacheEvictsOldestAtCap(t *testing.T) {
	c := New[int](time.Hour, 2)
	c.Set("first", 1)
	time.Sleep(5 * time.Millisecond)
	c.Set("second", 2)
	time.Sleep(5 * time.Millisecond)
	c.Set("third", 3)

	_, ok := c.Get("first")
	assert.False(t, ok, "oldest entry evicted")
	_, ok = c.Get("second")
	assert.True(t, ok)
	_, ok = c.Get("third")
	assert.True(t, ok)
}

func TestCacheOverwriteDoesNotEvict(t *testing.T) {
	c := New[int](time.Hour, 2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 3)

	got, ok := c.Get("b")
	require.True(t, ok)
	assert.Equal(t, 2, got)
	got, _ = c.Get("a")
	assert.Equal(t, 3, got)
}

func TestCacheInvalidate(t *testing.T) {
	c := New[int](time.Hour, 10)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Invalidate("a")
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Invalidate("")
	assert.Equal(t, 0, c.Stats().Entries)
}

func TestWithCache(t *testing.T) {
	c := New[string](time.Hour, 10)
	calls := 0
	compute := func() (string, error) {
		calls++
		return "computed", nil
	}

	v, fromCache, err := c.WithCache("k", compute)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, "computed", v)

	v, fromCache, err = c.WithCache("k", compute)
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, "computed", v)
	assert.Equal(t, 1, calls)
}

func TestWithCacheDoesNotCacheErrors(t *testing.T) {
	c := New[string](time.Hour, 10)
	boom := errors.New("boom")

	_, _, err := c.WithCache("k", func() (string, error) { return "", boom })
	require.ErrorIs(t, err, boom)

	v, fromCache, err := c.WithCache("k", func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, "ok", v)
}

func TestDiskCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := OpenDisk(path, time.Hour, 10)
	require.NoError(t, err)
	defer c.Close()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	require.NoError(t, c.Set("k", []byte(`{"items":[]}`)))
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"items":[]}`), got)

	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Entries)
}

func TestDiskCacheTTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := OpenDisk(path, 30*time.Millisecond, 10)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set("k", []byte("v")))
	time.Sleep(60 * time.Millisecond)
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestDiskCacheTrimsToCap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := OpenDisk(path, time.Hour, 2)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set("first", []byte("1")))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, c.Set("second", []byte("2")))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, c.Set("third", []byte("3")))

	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Entries)

	_, ok := c.Get("first")
	assert.False(t, ok, "oldest row trimmed")
}

func TestDiskCacheInvalidateAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := OpenDisk(path, time.Hour, 10)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set("a", []byte("1")))
	require.NoError(t, c.Set("b", []byte("2")))
	require.NoError(t, c.Invalidate(""))

	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Entries)
}

func TestDiskCachePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	c, err := OpenDisk(path, time.Hour, 10)
	require.NoError(t, err)
	require.NoError(t, c.Set("k", []byte("v")))
	require.NoError(t, c.Close())

	c2, err := OpenDisk(path, time.Hour, 10)
	require.NoError(t, err)
	defer c2.Close()

	got, ok := c2.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)
}
