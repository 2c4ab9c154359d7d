package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/readly/internal/domain/user"
)

func TestUserCache(t *testing.T) {
	ctx := context.Background()

	u := &user.User{
		ID:       42,
		Email:    "reader@example.com",
		Password: "$2a$12$fakehash",
		Nickname: "书虫",
	}

	t.Run("未命中返回nil实体且无错误", func(t *testing.T) {
		client, _ := newTestClient(t)
		cache := NewUserCache(client, time.Hour)

		got, err := cache.GetByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("写入后读回", func(t *testing.T) {
		client, _ := newTestClient(t)
		cache := NewUserCache(client, time.Hour)

		require.NoError(t, cache.SetByEmail(ctx, u))

		got, err := cache.GetByEmail(ctx, u.Email)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, u.ID, got.ID)
		assert.Equal(t, u.Email, got.Email)
		assert.Equal(t, u.Password, got.Password, "缓存需保留密码哈希供登录校验")
		assert.Equal(t, u.Nickname, got.Nickname)
	})

	t.Run("缓存按TTL过期", func(t *testing.T) {
		client, mr := newTestClient(t)
		cache := NewUserCache(client, time.Minute)

		require.NoError(t, cache.SetByEmail(ctx, u))
		mr.FastForward(2 * time.Minute)

		got, err := cache.GetByEmail(ctx, u.Email)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("失效后未命中", func(t *testing.T) {
		client, _ := newTestClient(t)
		cache := NewUserCache(client, time.Hour)

		require.NoError(t, cache.SetByEmail(ctx, u))
		require.NoError(t, cache.DeleteByEmail(ctx, u.Email))

		got, err := cache.GetByEmail(ctx, u.Email)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
