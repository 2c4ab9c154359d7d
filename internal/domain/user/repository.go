package user

import (
	"context"
)

// Repository 用户仓储接口
// 设计说明：
// 1. 接口定义在domain层（依赖倒置原则）
// 2. 具体实现在infrastructure/persistence/mysql层
// 3. 便于单元测试（Mock此接口）
type Repository interface {
	// Create 创建用户
	// 注意：如果邮箱已存在，应返回errors.ErrEmailDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户
	// 如果不存在，返回errors.ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail 根据邮箱查找用户
	// 如果不存在，返回errors.ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Update 更新用户信息
	// 邮箱与其他用户冲突时返回errors.ErrEmailDuplicate
	Update(ctx context.Context, user *User) error

	// Delete 删除用户（软删除）
	Delete(ctx context.Context, id uint) error
}

// Cache 用户缓存接口（邮箱维度的旁路缓存）
// 设计说明：
// 1. 登录是最高频的按邮箱查询路径，缓存减少数据库压力
// 2. 实现必须是尽力而为的：缓存故障不得影响业务（调用方记日志后降级走数据库）
// 3. 资料变更后调用方负责失效（删除键，而非更新值）
type Cache interface {
	// GetByEmail 查缓存，未命中返回(nil, nil)
	GetByEmail(ctx context.Context, email string) (*User, error)

	// SetByEmail 写缓存
	SetByEmail(ctx context.Context, user *User) error

	// DeleteByEmail 失效缓存（资料或密码变更后调用）
	DeleteByEmail(ctx context.Context, email string) error
}
