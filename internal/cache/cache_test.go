package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T) (Cache, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client, DefaultPrefix), mr, client
}

func TestRedisCacheRoundTrip(t *testing.T) {
	c, mr, _ := newRedisCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "anon:/")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "anon:/", []byte("page"), 20*time.Second))
	assert.True(t, mr.Exists("index_page:anon:/"))

	got, ok, err := c.Get(ctx, "anon:/")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("page"), got)

	mr.FastForward(21 * time.Second)
	_, ok, err = c.Get(ctx, "anon:/")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisClearOnlyTouchesPrefix(t *testing.T) {
	c, mr, client := newRedisCache(t)
	ctx := context.Background()

	for _, k := range []string{"anon:/", "anon:/?page=2", "1:/"} {
		require.NoError(t, c.Set(ctx, k, []byte(k), time.Minute))
	}
	require.NoError(t, client.Set(ctx, "session:abc", "keep", 0).Err())

	require.NoError(t, c.Clear(ctx))

	_, ok, err := c.Get(ctx, "anon:/")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, mr.Exists("session:abc"))
}

func TestRedisGetReportsBackendError(t *testing.T) {
	c, mr, _ := newRedisCache(t)
	mr.Close()

	_, ok, err := c.Get(context.Background(), "anon:/")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemory().(*memoryCache)
	now := time.Now()
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 20*time.Second))
	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	now = now.Add(20 * time.Second)
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCacheClear(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))

	require.NoError(t, c.Clear(ctx))

	for _, k := range []string{"a", "b"} {
		_, ok, err := c.Get(ctx, k)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	mem, closeMem, err := Open(ctx, "", "", 0)
	require.NoError(t, err)
	assert.IsType(t, &memoryCache{}, mem)
	assert.NoError(t, closeMem())

	mr := miniredis.RunT(t)
	rc, closeRedis, err := Open(ctx, mr.Addr(), "", 0)
	require.NoError(t, err)
	assert.IsType(t, &redisCache{}, rc)
	assert.NoError(t, closeRedis())

	addr := mr.Addr()
	mr.Close()
	_, _, err = Open(ctx, addr, "", 0)
	assert.Error(t, err)
}

func TestShared(t *testing.T) {
	c, _, _ := newRedisCache(t)
	assert.True(t, Shared(c))
	assert.False(t, Shared(NewMemory()))
}
