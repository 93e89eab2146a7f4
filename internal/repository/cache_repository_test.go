package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/sfk-console-api/pkg/errors"
)

func TestMemoryCacheExpiresAndInvalidates(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := NewMemoryCacheRepository()
	repo.now = func() time.Time { return now }

	require.NoError(t, repo.Set(ctx, "reports:finance:", map[string]int{"total": 3}, time.Minute))
	require.NoError(t, repo.Set(ctx, "reports:trial-funnel", 7, 0))
	require.NoError(t, repo.Set(ctx, "other", 1, 0))

	var got map[string]int
	require.NoError(t, repo.Get(ctx, "reports:finance:", &got))
	assert.Equal(t, 3, got["total"])

	now = now.Add(2 * time.Minute)
	assert.ErrorIs(t, repo.Get(ctx, "reports:finance:", &got), appErrors.ErrCacheMiss)

	require.NoError(t, repo.DeleteByPattern(ctx, "reports:*"))
	var n int
	assert.ErrorIs(t, repo.Get(ctx, "reports:trial-funnel", &n), appErrors.ErrCacheMiss)
	require.NoError(t, repo.Get(ctx, "other", &n))
	assert.Equal(t, 1, n)
}

func TestCacheRepositoryWithoutClientMisses(t *testing.T) {
	repo := NewCacheRepository(nil, "sfk", nil)
	var v int
	assert.ErrorIs(t, repo.Get(context.Background(), "x", &v), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(context.Background(), "x", 1, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(context.Background(), "*"))
	assert.Equal(t, "sfk:cache:x", repo.key("x"))
}
