package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGetExpire(t *testing.T) {
	ctx := context.Background()
	cache, err := New(8)
	require.NoError(t, err)

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	cache.SetClock(func() time.Time { return now })

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Hour))

	data, found, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v"), data)

	now = now.Add(time.Hour)
	_, found, err = cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 0, cache.Len())
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	cache, err := New(2)
	require.NoError(t, err)

	require.NoError(t, cache.Set(ctx, "a", []byte("1"), time.Hour))
	require.NoError(t, cache.Set(ctx, "b", []byte("2"), time.Hour))
	_, _, _ = cache.Get(ctx, "a")
	require.NoError(t, cache.Set(ctx, "c", []byte("3"), time.Hour))

	_, found, _ := cache.Get(ctx, "b")
	assert.False(t, found)
	_, found, _ = cache.Get(ctx, "a")
	assert.True(t, found)
}

func TestNew_InvalidSize(t *testing.T) {
	_, err := New(0)
	assert.Error(t, err)
}
