package user

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/readly/pkg/errors"
	"github.com/xiebiao/readly/pkg/logger"
)

// Service 用户领域服务
// 设计说明：
// 1. Service包含不属于单个实体的业务逻辑（字段校验、密码加密、缓存旁路）
// 2. Service依赖Repository/Cache接口，不依赖具体实现（依赖倒置）
// 3. Service不处理HTTP请求，只处理业务逻辑
type Service interface {
	// Register 用户注册
	Register(ctx context.Context, email, password, nickname string) (*User, error)

	// Login 用户登录
	// 注意：邮箱不存在与密码错误返回同一个ErrInvalidCredentials，不泄露账号是否存在
	Login(ctx context.Context, email, password string) (*User, error)

	// GetProfile 获取用户资料
	GetProfile(ctx context.Context, userID uint) (*User, error)

	// UpdateProfile 更新用户资料（部分更新）
	// 业务规则：
	// - 昵称/邮箱只更新传入的非空字段，规则与注册一致
	// - 修改密码必须先验证当前密码
	UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*User, error)

	// ValidatePassword 验证明文密码与哈希值是否匹配
	ValidatePassword(hashedPassword, plainPassword string) error
}

// ProfileUpdate 资料更新参数
// 零值字段表示不修改
type ProfileUpdate struct {
	Nickname        string
	Email           string
	CurrentPassword string
	NewPassword     string
}

type service struct {
	repo  Repository
	cache Cache
}

// NewService 创建用户服务
func NewService(repo Repository, cache Cache) Service {
	return &service{repo: repo, cache: cache}
}

// Register 用户注册
// 业务规则：
// 1. 昵称trim后2-50个字符
// 2. 邮箱trim+小写，格式校验，最长100字符
// 3. 密码6-128个字符（不trim）
// 4. 密码bcrypt加密（cost=12）
// 5. 邮箱唯一性由数据库UNIQUE索引保证
func (s *service) Register(ctx context.Context, email, password, nickname string) (*User, error) {
	nickname, err := sanitizeNickname(nickname)
	if err != nil {
		return nil, err
	}

	email, err = sanitizeEmail(email)
	if err != nil {
		return nil, err
	}

	if err := validatePasswordLength(password); err != nil {
		return nil, err
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	u := NewUser(email, hashedPassword, nickname)

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err // Repository已转换为业务错误
	}

	return u, nil
}

// Login 用户登录
// 先查邮箱缓存（旁路缓存），未命中查数据库并回填；
// 缓存任何故障都只记日志，不影响登录流程
func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	email, err := sanitizeEmail(email)
	if err != nil {
		// 格式非法的邮箱必然不存在，返回与查询失败相同的提示
		return nil, apperrors.ErrInvalidCredentials
	}

	u := s.lookupByEmail(ctx, email)
	if u == nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.ValidatePassword(u.Password, password); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return u, nil
}

// GetProfile 获取用户资料
func (s *service) GetProfile(ctx context.Context, userID uint) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

// UpdateProfile 更新用户资料
func (s *service) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*User, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	oldEmail := u.Email

	if update.Nickname != "" {
		nickname, err := sanitizeNickname(update.Nickname)
		if err != nil {
			return nil, err
		}
		u.UpdateNickname(nickname)
	}

	if update.Email != "" {
		email, err := sanitizeEmail(update.Email)
		if err != nil {
			return nil, err
		}
		u.UpdateEmail(email)
	}

	if update.NewPassword != "" {
		// 修改密码必须验证当前密码
		if err := s.ValidatePassword(u.Password, update.CurrentPassword); err != nil {
			return nil, apperrors.New(apperrors.ErrCodeInvalidPassword, "当前密码错误")
		}
		if err := validatePasswordLength(update.NewPassword); err != nil {
			return nil, err
		}
		hashed, err := hashPassword(update.NewPassword)
		if err != nil {
			return nil, apperrors.Wrap(err, "密码加密失败")
		}
		u.Password = hashed
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err // 邮箱冲突已由Repository转换为ErrEmailDuplicate
	}

	// 资料变更后失效旧缓存（删除而非更新，避免并发写导致的脏数据）
	s.invalidateCache(ctx, oldEmail)
	if u.Email != oldEmail {
		s.invalidateCache(ctx, u.Email)
	}

	return u, nil
}

// ValidatePassword 验证密码
func (s *service) ValidatePassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), truncateForBcrypt(plainPassword))
	if err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return apperrors.ErrInvalidCredentials
		}
		return apperrors.Wrap(err, "密码验证失败")
	}
	return nil
}

// lookupByEmail 旁路缓存查询：缓存 → 数据库 → 回填
func (s *service) lookupByEmail(ctx context.Context, email string) *User {
	if s.cache != nil {
		cached, err := s.cache.GetByEmail(ctx, email)
		if err != nil {
			logger.L().Warn("用户缓存读取失败", zap.Error(err))
		} else if cached != nil {
			return cached
		}
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil
	}

	if s.cache != nil {
		if err := s.cache.SetByEmail(ctx, u); err != nil {
			logger.L().Warn("用户缓存写入失败", zap.Error(err))
		}
	}

	return u
}

// invalidateCache 失效邮箱缓存（尽力而为）
func (s *service) invalidateCache(ctx context.Context, email string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByEmail(ctx, email); err != nil {
		logger.L().Warn("用户缓存失效失败", zap.Error(err))
	}
}

// =========================================
// 辅助函数：字段校验
// =========================================

// emailPattern 宽松的邮箱格式：非空白@非空白.非空白
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// sanitizeNickname 昵称规整：trim后长度2-50
func sanitizeNickname(nickname string) (string, error) {
	nickname = strings.TrimSpace(nickname)
	n := utf8.RuneCountInString(nickname)
	if n < 2 || n > 50 {
		return "", apperrors.New(apperrors.ErrCodeInvalidParams, "昵称长度应为2-50个字符")
	}
	return nickname, nil
}

// sanitizeEmail 邮箱规整：trim+小写，格式校验，最长100字符
func sanitizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(email) > 100 || !emailPattern.MatchString(email) {
		return "", apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")
	}
	return email, nil
}

// validatePasswordLength 密码长度校验（不trim，空格是合法字符）
func validatePasswordLength(password string) error {
	n := utf8.RuneCountInString(password)
	if n < 6 || n > 128 {
		return apperrors.ErrWeakPassword
	}
	return nil
}

// hashPassword bcrypt加密（cost=12）
func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(truncateForBcrypt(password), 12)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// truncateForBcrypt bcrypt算法只使用前72字节，超长部分显式截断
// （否则新版x/crypto会直接报错，而合法密码最长128字符）
func truncateForBcrypt(password string) []byte {
	b := []byte(password)
	if len(b) > 72 {
		b = b[:72]
	}
	return b
}
