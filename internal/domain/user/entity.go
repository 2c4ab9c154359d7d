package user

import (
	"time"
)

// User 用户实体（聚合根）
// 设计说明：
// 1. 密码只存bcrypt哈希值，实体不暴露明文
// 2. 领域实体不依赖GORM tag（infrastructure层的Repository负责映射）
type User struct {
	ID        uint
	Email     string
	Password  string // bcrypt哈希值
	Nickname  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(email, hashedPassword, nickname string) *User {
	now := time.Now()
	return &User{
		Email:     email,
		Password:  hashedPassword,
		Nickname:  nickname,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UpdateNickname 更新昵称（领域行为）
func (u *User) UpdateNickname(nickname string) {
	u.Nickname = nickname
	u.UpdatedAt = time.Now()
}

// UpdateEmail 更新邮箱（领域行为）
// 注意：唯一性由数据库UNIQUE索引保证，调用方需处理重复错误
func (u *User) UpdateEmail(email string) {
	u.Email = email
	u.UpdatedAt = time.Now()
}
