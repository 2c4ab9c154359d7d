package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/readly/internal/domain/user"
	apperrors "github.com/xiebiao/readly/pkg/errors"
)

// UserCache 用户旁路缓存（邮箱维度）
// 设计说明：
//  1. Cache-Aside策略：登录先查缓存，未命中查数据库后回填
//  2. 缓存未命中返回(nil, nil)，调用方以nil实体判断
//  3. 一致性策略：资料/密码变更后删除缓存（而非更新），
//     下次登录时重新加载最新数据
//  4. Key设计：user:email:{email}
type UserCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewUserCache 创建用户缓存
func NewUserCache(client *redis.Client, ttl time.Duration) user.Cache {
	return &UserCache{client: client, ttl: ttl}
}

// GetByEmail 查缓存，未命中返回(nil, nil)
func (c *UserCache) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	val, err := c.client.Get(ctx, c.emailKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "获取用户缓存失败")
	}

	var u user.User
	if err := json.Unmarshal([]byte(val), &u); err != nil {
		return nil, apperrors.Wrap(err, "反序列化用户缓存失败")
	}

	return &u, nil
}

// SetByEmail 写缓存
func (c *UserCache) SetByEmail(ctx context.Context, u *user.User) error {
	val, err := json.Marshal(u)
	if err != nil {
		return apperrors.Wrap(err, "序列化用户缓存失败")
	}

	if err := c.client.Set(ctx, c.emailKey(u.Email), val, c.ttl).Err(); err != nil {
		return apperrors.Wrap(err, "设置用户缓存失败")
	}

	return nil
}

// DeleteByEmail 失效缓存（资料或密码变更后调用）
func (c *UserCache) DeleteByEmail(ctx context.Context, email string) error {
	if err := c.client.Del(ctx, c.emailKey(email)).Err(); err != nil {
		return apperrors.Wrap(err, "删除用户缓存失败")
	}

	return nil
}

// emailKey 生成邮箱维度缓存key
// 格式：user:email:{email}
func (c *UserCache) emailKey(email string) string {
	return fmt.Sprintf("user:email:%s", email)
}
