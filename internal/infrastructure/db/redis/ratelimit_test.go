package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, max int, window time.Duration) (*RateLimiter, *miniredis.Miniredis, *time.Time) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewRateLimiter(client, max, window)
	l.now = func() time.Time { return now }
	return l, mr, &now
}

func TestRateLimiter_BlocksAfterMax(t *testing.T) {
	l, _, _ := newTestLimiter(t, 3, 15*time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d", i+1)
		assert.Equal(t, 3-(i+1), d.Remaining)
	}

	d, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Equal(t, 3, d.Limit)
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	l, _, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	d, err := l.Allow(ctx, "a")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	d, err = l.Allow(ctx, "b")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestRateLimiter_NewWindowResets(t *testing.T) {
	l, _, now := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	_, err := l.Allow(ctx, "a")
	require.NoError(t, err)
	d, err := l.Allow(ctx, "a")
	require.NoError(t, err)
	assert.False(t, d.Allowed)

	*now = now.Add(time.Minute)
	d, err = l.Allow(ctx, "a")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestRateLimiter_SetsExpiry(t *testing.T) {
	l, mr, now := newTestLimiter(t, 5, 15*time.Minute)

	_, err := l.Allow(context.Background(), "a")
	require.NoError(t, err)

	key := "ratelimit:a:" + strconv.FormatInt(now.Truncate(15*time.Minute).Unix(), 10)
	assert.True(t, mr.Exists(key))
	assert.Equal(t, 15*time.Minute, mr.TTL(key))
}

func TestRateLimiter_ErrorFailsOpen(t *testing.T) {
	l, mr, _ := newTestLimiter(t, 1, time.Minute)
	mr.Close()

	d, err := l.Allow(context.Background(), "a")
	assert.Error(t, err)
	assert.True(t, d.Allowed)
}
