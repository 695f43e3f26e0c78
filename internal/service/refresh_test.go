package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"van-market/internal/cache"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRefreshService(t *testing.T) {
	t.Run("Issue stores token bound to user", func(t *testing.T) {
		var gotKey string
		var gotValue any
		var gotTTL time.Duration
		cc := &cache.FakeCache{
			SetFn: func(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
				gotKey = key
				gotValue = value
				gotTTL = ttl
				return redis.NewStatusResult("OK", nil)
			},
		}
		svc := NewRefreshService(cc, time.Hour)
		token, err := svc.Issue(context.Background(), 7)
		require.NoError(t, err)
		require.NotEmpty(t, token)
		require.Equal(t, refreshKeyPrefix+token, gotKey)
		require.Equal(t, "7", gotValue)
		require.Equal(t, time.Hour, gotTTL)
	})

	t.Run("Issue random source error", func(t *testing.T) {
		original := randRead
		defer func() { randRead = original }()
		randRead = func(_ []byte) (int, error) { return 0, errors.New("entropy exhausted") }

		svc := NewRefreshService(&cache.FakeCache{}, time.Hour)
		_, err := svc.Issue(context.Background(), 7)
		require.Error(t, err)
	})

	t.Run("Issue cache error", func(t *testing.T) {
		cc := &cache.FakeCache{
			SetFn: func(_ context.Context, _ string, _ any, _ time.Duration) *redis.StatusCmd {
				return redis.NewStatusResult("", errors.New("redis down"))
			},
		}
		svc := NewRefreshService(cc, time.Hour)
		_, err := svc.Issue(context.Background(), 7)
		require.Error(t, err)
	})

	t.Run("Validate success", func(t *testing.T) {
		cc := &cache.FakeCache{
			GetFn: func(_ context.Context, key string) *redis.StringCmd {
				require.Equal(t, refreshKeyPrefix+"abc", key)
				return redis.NewStringResult("7", nil)
			},
		}
		svc := NewRefreshService(cc, time.Hour)
		userID, err := svc.Validate(context.Background(), "abc")
		require.NoError(t, err)
		require.Equal(t, 7, userID)
	})

	t.Run("Validate unknown token", func(t *testing.T) {
		cc := &cache.FakeCache{
			GetFn: func(_ context.Context, _ string) *redis.StringCmd {
				return redis.NewStringResult("", redis.Nil)
			},
		}
		svc := NewRefreshService(cc, time.Hour)
		_, err := svc.Validate(context.Background(), "missing")
		require.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("Validate corrupt value", func(t *testing.T) {
		cc := &cache.FakeCache{
			GetFn: func(_ context.Context, _ string) *redis.StringCmd {
				return redis.NewStringResult("not-an-id", nil)
			},
		}
		svc := NewRefreshService(cc, time.Hour)
		_, err := svc.Validate(context.Background(), "abc")
		require.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("Validate cache error", func(t *testing.T) {
		cc := &cache.FakeCache{
			GetFn: func(_ context.Context, _ string) *redis.StringCmd {
				return redis.NewStringResult("", errors.New("redis down"))
			},
		}
		svc := NewRefreshService(cc, time.Hour)
		_, err := svc.Validate(context.Background(), "abc")
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("Revoke deletes token", func(t *testing.T) {
		var gotKeys []string
		cc := &cache.FakeCache{
			DelFn: func(_ context.Context, keys ...string) *redis.IntCmd {
				gotKeys = keys
				return redis.NewIntResult(1, nil)
			},
		}
		svc := NewRefreshService(cc, time.Hour)
		require.NoError(t, svc.Revoke(context.Background(), "abc"))
		require.Equal(t, []string{refreshKeyPrefix + "abc"}, gotKeys)
	})
}
