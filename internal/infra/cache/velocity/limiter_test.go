package velocity

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return mr, client
}

func TestLimiterAllow(t *testing.T) {
	_, client := setupTestRedis(t)
	limiter := NewLimiter(client, Config{MaxBookings: 2, Window: time.Hour}, logger.NewNop())
	ctx := context.Background()

	tests := []struct {
		name        string
		wantAllowed bool
		wantCount   int
	}{
		{name: "no bookings yet", wantAllowed: true, wantCount: 0},
		{name: "one booking", wantAllowed: true, wantCount: 1},
		{name: "at limit", wantAllowed: false, wantCount: 2},
	}

	for _, tt := range tests {
		res, err := limiter.Allow(ctx, 1, "+79001234567")
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.wantAllowed, res.Allowed, tt.name)
		assert.Equal(t, tt.wantCount, res.CurrentCount, tt.name)

		require.NoError(t, limiter.Record(ctx, 1, "+79001234567"), tt.name)
	}

	// другой салон считается отдельно
	res, err := limiter.Allow(ctx, 2, "+79001234567")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestLimiterAllowDoesNotCount(t *testing.T) {
	_, client := setupTestRedis(t)
	limiter := NewLimiter(client, Config{MaxBookings: 1, Window: time.Hour}, logger.NewNop())
	ctx := context.Background()

	for range 5 {
		res, err := limiter.Allow(ctx, 1, "+100000000")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 0, res.CurrentCount)
	}
}

func TestLimiterRecordAlwaysSetsExpiry(t *testing.T) {
	mr, client := setupTestRedis(t)
	limiter := NewLimiter(client, Config{MaxBookings: 3, Window: time.Minute}, logger.NewNop())
	ctx := context.Background()
	k := key(1, "+100000000")

	require.NoError(t, limiter.Record(ctx, 1, "+100000000"))
	assert.Equal(t, time.Minute, mr.TTL(k))

	// ключ, оставшийся без срока жизни, получает окно на следующей записи
	mr.Set(k, "2")
	require.Equal(t, time.Duration(0), mr.TTL(k))

	require.NoError(t, limiter.Record(ctx, 1, "+100000000"))
	assert.Equal(t, time.Minute, mr.TTL(k))

	got, err := mr.Get(k)
	require.NoError(t, err)
	assert.Equal(t, "3", got)
}

func TestLimiterWindowExpires(t *testing.T) {
	mr, client := setupTestRedis(t)
	limiter := NewLimiter(client, Config{MaxBookings: 1, Window: time.Minute}, logger.NewNop())
	ctx := context.Background()

	require.NoError(t, limiter.Record(ctx, 1, "+100000000"))
	res, err := limiter.Allow(ctx, 1, "+100000000")
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	mr.FastForward(2 * time.Minute)

	res, err = limiter.Allow(ctx, 1, "+100000000")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestLimiterFailsOpen(t *testing.T) {
	mr, client := setupTestRedis(t)
	limiter := NewLimiter(client, Config{MaxBookings: 1, Window: time.Minute}, logger.NewNop())
	mr.Close()

	res, err := limiter.Allow(context.Background(), 1, "+100000000")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	assert.Error(t, limiter.Record(context.Background(), 1, "+100000000"))
}

func TestLimiterDisabled(t *testing.T) {
	limiter := NewLimiter(nil, Config{}, logger.NewNop())

	res, err := limiter.Allow(context.Background(), 1, "+100000000")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	assert.NoError(t, limiter.Record(context.Background(), 1, "+100000000"))
}
