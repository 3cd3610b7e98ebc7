package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/yatube/internal/auth"
	"github.com/emilythestrangee/yatube/internal/cache"
	"github.com/emilythestrangee/yatube/internal/database/dbtest"
	"github.com/emilythestrangee/yatube/internal/repository"
	"github.com/emilythestrangee/yatube/internal/service"
)

func TestDispatch(t *testing.T) {
	ctx := context.Background()
	repos := repository.New(dbtest.New(t))
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	pages := cache.NewRedis(client, cache.DefaultPrefix)
	svc := service.New(repos, nil, pages, auth.NewTokens("test", time.Hour))
	var out bytes.Buffer

	require.NoError(t, dispatch(ctx, svc, pages, []string{"createsuperuser", "-username", "boss", "-password", "supersecret"}, &out))
	assert.Contains(t, out.String(), `superuser "boss" created`)

	boss, err := repos.Users.GetByUsername(ctx, "boss")
	require.NoError(t, err)
	assert.True(t, boss.IsAdmin())

	require.NoError(t, dispatch(ctx, svc, pages, []string{"creategroup", "-title", "Group Leo", "-slug", "leo"}, &out))
	_, err = repos.Groups.GetBySlug(ctx, "leo")
	require.NoError(t, err)

	require.NoError(t, pages.Set(ctx, "anon:/", []byte("x"), time.Minute))
	require.NoError(t, dispatch(ctx, svc, pages, []string{"clearcache"}, &out))
	_, hit, err := pages.Get(ctx, "anon:/")
	require.NoError(t, err)
	assert.False(t, hit)

	assert.Error(t, dispatch(ctx, svc, pages, []string{"promote", "-username", "ghost"}, &out))
	assert.Error(t, dispatch(ctx, svc, pages, []string{"frobnicate"}, &out))
}

func TestClearCacheNeedsSharedBackend(t *testing.T) {
	ctx := context.Background()
	pages := cache.NewMemory()
	svc := service.New(repository.New(dbtest.New(t)), nil, pages, auth.NewTokens("test", time.Hour))
	var out bytes.Buffer

	err := dispatch(ctx, svc, pages, []string{"clearcache"}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_ADDR")
	assert.NotContains(t, out.String(), "cleared")
}
