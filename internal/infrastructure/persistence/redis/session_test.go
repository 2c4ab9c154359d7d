package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/readly/pkg/errors"
)

func newTestClient(t *testing.T) (*goredis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestSessionStore(t *testing.T) {
	ctx := context.Background()

	sessionData := map[string]interface{}{
		"email":    "reader@example.com",
		"login_at": "2026-08-30T10:00:00Z",
		"ip":       "127.0.0.1",
	}

	t.Run("保存并读取会话", func(t *testing.T) {
		client, mr := newTestClient(t)
		store := NewSessionStore(client)

		require.NoError(t, store.SaveSession(ctx, 42, sessionData, time.Hour))

		got, err := store.GetSession(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, "reader@example.com", got["email"])
		assert.Equal(t, "127.0.0.1", got["ip"])

		ttl := mr.TTL("session:42")
		assert.Equal(t, time.Hour, ttl)
	})

	t.Run("会话不存在视为未登录", func(t *testing.T) {
		client, _ := newTestClient(t)
		store := NewSessionStore(client)

		_, err := store.GetSession(ctx, 999)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("会话过期后失效", func(t *testing.T) {
		client, mr := newTestClient(t)
		store := NewSessionStore(client)

		require.NoError(t, store.SaveSession(ctx, 42, sessionData, time.Minute))
		mr.FastForward(2 * time.Minute)

		_, err := store.GetSession(ctx, 42)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("删除会话", func(t *testing.T) {
		client, _ := newTestClient(t)
		store := NewSessionStore(client)

		require.NoError(t, store.SaveSession(ctx, 42, sessionData, time.Hour))
		require.NoError(t, store.DeleteSession(ctx, 42))

		_, err := store.GetSession(ctx, 42)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})
}

func TestBlacklist(t *testing.T) {
	ctx := context.Background()

	t.Run("加入黑名单后可检出", func(t *testing.T) {
		client, _ := newTestClient(t)
		store := NewSessionStore(client)

		require.NoError(t, store.AddToBlacklist(ctx, "token-abc", 15*time.Minute))

		hit, err := store.IsInBlacklist(ctx, "token-abc")
		require.NoError(t, err)
		assert.True(t, hit)

		miss, err := store.IsInBlacklist(ctx, "other-token")
		require.NoError(t, err)
		assert.False(t, miss)
	})

	t.Run("黑名单随Token有效期过期", func(t *testing.T) {
		client, mr := newTestClient(t)
		store := NewSessionStore(client)

		require.NoError(t, store.AddToBlacklist(ctx, "token-abc", time.Minute))
		mr.FastForward(2 * time.Minute)

		hit, err := store.IsInBlacklist(ctx, "token-abc")
		require.NoError(t, err)
		assert.False(t, hit)
	})
}
