package googlecalendar

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TattooBookingService/internal/domain"
)

func newTestCache(t *testing.T, ttl time.Duration) (*RedisBusyCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisBusyCache(rdb, ttl), mr
}

func TestRedisBusyCache_RoundTrip(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.Add(48 * time.Hour)

	_, ok, err := cache.Get(ctx, "cal", from, to)
	require.NoError(t, err)
	assert.False(t, ok)

	busy := []domain.TimeRange{{Start: from.Add(9 * time.Hour), End: from.Add(10 * time.Hour)}}
	require.NoError(t, cache.Set(ctx, "cal", from, to, busy))

	got, ok, err := cache.Get(ctx, "cal", from, to)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.True(t, got[0].Start.Equal(busy[0].Start))

	// другой диапазон не совпадает
	_, ok, err = cache.Get(ctx, "cal", from, to.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisBusyCache_EmptyBusyIsHit(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, cache.Set(ctx, "cal", from, from.Add(time.Hour), nil))

	got, ok, err := cache.Get(ctx, "cal", from, from.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestRedisBusyCache_ExpiresAndInvalidates(t *testing.T) {
	cache, mr := newTestCache(t, 30*time.Second)
	ctx := context.Background()
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.Add(time.Hour)

	require.NoError(t, cache.Set(ctx, "cal", from, to, nil))
	mr.FastForward(31 * time.Second)
	_, ok, err := cache.Get(ctx, "cal", from, to)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "cal", from, to, nil))
	require.NoError(t, cache.Invalidate(ctx, "cal"))
	_, ok, err = cache.Get(ctx, "cal", from, to)
	require.NoError(t, err)
	assert.False(t, ok)
}
