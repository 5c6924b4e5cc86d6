package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedStats struct {
	Mean  float64 `json:"mean"`
	Sigma float64 `json:"sigma"`
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	want := cachedStats{Mean: 20, Sigma: 8.16}
	require.NoError(t, c.Set(ctx, StatsKey(3, 7), want, time.Minute))

	var got cachedStats
	require.NoError(t, c.Get(ctx, StatsKey(3, 7), &got))
	assert.Equal(t, want, got)
}

func TestMemoryCache_MissAndDelete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	var got cachedStats
	assert.ErrorIs(t, c.Get(ctx, "absent", &got), ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", cachedStats{Mean: 1}, 0))
	require.NoError(t, c.Delete(ctx, "k"))
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrCacheMiss)
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", cachedStats{Mean: 5}, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	var got cachedStats
	assert.ErrorIs(t, c.Get(ctx, "short", &got), ErrCacheMiss)
}

func TestMemoryCache_DeletePattern(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, StatsKey(3, 1), cachedStats{}, 0))
	require.NoError(t, c.Set(ctx, StatsKey(3, 2), cachedStats{}, 0))
	require.NoError(t, c.Set(ctx, StatsKey(4, 1), cachedStats{}, 0))

	require.NoError(t, c.DeletePattern(ctx, StatsPattern(3)))

	var got cachedStats
	assert.ErrorIs(t, c.Get(ctx, StatsKey(3, 1), &got), ErrCacheMiss)
	assert.ErrorIs(t, c.Get(ctx, StatsKey(3, 2), &got), ErrCacheMiss)
	assert.NoError(t, c.Get(ctx, StatsKey(4, 1), &got))
}
