package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/readly/pkg/errors"
)

// fakeRepo 内存用户仓储（测试用）
type fakeRepo struct {
	byID    map[uint]*User
	byEmail map[string]*User
	nextID  uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:    make(map[uint]*User),
		byEmail: make(map[string]*User),
		nextID:  1,
	}
}

func (r *fakeRepo) Create(_ context.Context, u *User) error {
	if _, ok := r.byEmail[u.Email]; ok {
		return apperrors.ErrEmailDuplicate
	}
	u.ID = r.nextID
	r.nextID++
	cp := *u
	r.byID[u.ID] = &cp
	r.byEmail[u.Email] = &cp
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id uint) (*User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) Update(_ context.Context, u *User) error {
	old, ok := r.byID[u.ID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	if other, exists := r.byEmail[u.Email]; exists && other.ID != u.ID {
		return apperrors.ErrEmailDuplicate
	}
	delete(r.byEmail, old.Email)
	cp := *u
	r.byID[u.ID] = &cp
	r.byEmail[u.Email] = &cp
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id uint) error {
	u, ok := r.byID[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	delete(r.byEmail, u.Email)
	delete(r.byID, id)
	return nil
}

// fakeCache 内存用户缓存（测试用），可注入故障
type fakeCache struct {
	data    map[string]*User
	failing bool
	gets    int
	sets    int
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]*User)}
}

func (c *fakeCache) GetByEmail(_ context.Context, email string) (*User, error) {
	c.gets++
	if c.failing {
		return nil, errors.New("cache down")
	}
	u, ok := c.data[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (c *fakeCache) SetByEmail(_ context.Context, u *User) error {
	c.sets++
	if c.failing {
		return errors.New("cache down")
	}
	cp := *u
	c.data[u.Email] = &cp
	return nil
}

func (c *fakeCache) DeleteByEmail(_ context.Context, email string) error {
	c.deletes++
	if c.failing {
		return errors.New("cache down")
	}
	delete(c.data, email)
	return nil
}

func newTestService() (Service, *fakeRepo, *fakeCache) {
	repo := newFakeRepo()
	cache := newFakeCache()
	return NewService(repo, cache), repo, cache
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("正常注册", func(t *testing.T) {
		svc, _, _ := newTestService()

		u, err := svc.Register(ctx, "  Alice@Example.COM ", "secret123", "  爱丽丝  ")
		require.NoError(t, err)

		assert.NotZero(t, u.ID)
		assert.Equal(t, "alice@example.com", u.Email, "邮箱应被trim并转小写")
		assert.Equal(t, "爱丽丝", u.Nickname, "昵称应被trim")
		assert.NotEqual(t, "secret123", u.Password, "密码必须加密存储")
		assert.NoError(t, svc.ValidatePassword(u.Password, "secret123"))
	})

	t.Run("邮箱格式非法", func(t *testing.T) {
		svc, _, _ := newTestService()

		for _, email := range []string{"", "no-at-sign", "a@b", "a @b.com", "a@b .com"} {
			_, err := svc.Register(ctx, email, "secret123", "测试用户")
			assert.Error(t, err, "邮箱%q应被拒绝", email)
		}
	})

	t.Run("密码长度不合法", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.Register(ctx, "a@b.com", "12345", "测试用户")
		assert.ErrorIs(t, err, apperrors.ErrWeakPassword, "5位密码应被拒绝")

		long := make([]byte, 129)
		for i := range long {
			long[i] = 'x'
		}
		_, err = svc.Register(ctx, "a@b.com", string(long), "测试用户")
		assert.ErrorIs(t, err, apperrors.ErrWeakPassword, "129位密码应被拒绝")
	})

	t.Run("昵称长度不合法", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.Register(ctx, "a@b.com", "secret123", "a")
		assert.Error(t, err, "1位昵称应被拒绝")

		_, err = svc.Register(ctx, "a@b.com", "secret123", "   a   ")
		assert.Error(t, err, "trim后1位昵称应被拒绝")
	})

	t.Run("校验顺序为昵称-邮箱-密码", func(t *testing.T) {
		svc, _, _ := newTestService()

		// 昵称与密码同时非法时，先报昵称错误
		_, err := svc.Register(ctx, "bad-email", "123", "a")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "昵称")
	})

	t.Run("重复邮箱", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.Register(ctx, "dup@example.com", "secret123", "用户一")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "DUP@example.com", "secret123", "用户二")
		assert.ErrorIs(t, err, apperrors.ErrEmailDuplicate, "大小写不同的同一邮箱应冲突")
	})

	t.Run("超过72字节的密码按bcrypt截断语义验证", func(t *testing.T) {
		svc, _, _ := newTestService()

		long := make([]byte, 100)
		for i := range long {
			long[i] = 'p'
		}

		u, err := svc.Register(ctx, "long@example.com", string(long), "长密码用户")
		require.NoError(t, err)

		// bcrypt只使用前72字节，前72字节相同的密码视为同一密码
		assert.NoError(t, svc.ValidatePassword(u.Password, string(long[:72])))
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	register := func(t *testing.T, svc Service) *User {
		u, err := svc.Register(ctx, "alice@example.com", "secret123", "爱丽丝")
		require.NoError(t, err)
		return u
	}

	t.Run("正常登录", func(t *testing.T) {
		svc, _, _ := newTestService()
		register(t, svc)

		u, err := svc.Login(ctx, "Alice@Example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", u.Email)
	})

	t.Run("密码错误与邮箱不存在返回同一错误", func(t *testing.T) {
		svc, _, _ := newTestService()
		register(t, svc)

		_, err1 := svc.Login(ctx, "alice@example.com", "wrongpass")
		_, err2 := svc.Login(ctx, "nobody@example.com", "secret123")
		_, err3 := svc.Login(ctx, "not-an-email", "secret123")

		assert.ErrorIs(t, err1, apperrors.ErrInvalidCredentials)
		assert.ErrorIs(t, err2, apperrors.ErrInvalidCredentials)
		assert.ErrorIs(t, err3, apperrors.ErrInvalidCredentials, "非法邮箱不应暴露格式信息")
	})

	t.Run("登录后回填缓存并在命中时跳过数据库", func(t *testing.T) {
		svc, repo, cache := newTestService()
		register(t, svc)

		_, err := svc.Login(ctx, "alice@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, 1, cache.sets, "首次登录应回填缓存")

		// 从仓储中移除，验证第二次登录走缓存
		delete(repo.byEmail, "alice@example.com")

		_, err = svc.Login(ctx, "alice@example.com", "secret123")
		assert.NoError(t, err, "缓存命中时不应访问数据库")
	})

	t.Run("缓存故障不影响登录", func(t *testing.T) {
		svc, _, cache := newTestService()
		register(t, svc)
		cache.failing = true

		u, err := svc.Login(ctx, "alice@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", u.Email)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (Service, *fakeCache, *User) {
		svc, _, cache := newTestService()
		u, err := svc.Register(ctx, "alice@example.com", "secret123", "爱丽丝")
		require.NoError(t, err)
		return svc, cache, u
	}

	t.Run("部分更新昵称", func(t *testing.T) {
		svc, _, u := setup(t)

		updated, err := svc.UpdateProfile(ctx, u.ID, ProfileUpdate{Nickname: "新昵称"})
		require.NoError(t, err)
		assert.Equal(t, "新昵称", updated.Nickname)
		assert.Equal(t, "alice@example.com", updated.Email, "未传字段不应变化")
	})

	t.Run("修改邮箱后失效新旧缓存", func(t *testing.T) {
		svc, cache, u := setup(t)

		// 先登录一次填充缓存
		_, err := svc.Login(ctx, "alice@example.com", "secret123")
		require.NoError(t, err)

		_, err = svc.UpdateProfile(ctx, u.ID, ProfileUpdate{Email: "new@example.com"})
		require.NoError(t, err)

		assert.Equal(t, 2, cache.deletes, "新旧邮箱的缓存都应被失效")
		_, exists := cache.data["alice@example.com"]
		assert.False(t, exists, "旧邮箱缓存应被删除")
	})

	t.Run("修改密码需验证当前密码", func(t *testing.T) {
		svc, _, u := setup(t)

		_, err := svc.UpdateProfile(ctx, u.ID, ProfileUpdate{
			CurrentPassword: "wrongpass",
			NewPassword:     "newsecret123",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "当前密码错误")

		_, err = svc.UpdateProfile(ctx, u.ID, ProfileUpdate{
			CurrentPassword: "secret123",
			NewPassword:     "newsecret123",
		})
		require.NoError(t, err)

		_, err = svc.Login(ctx, "alice@example.com", "newsecret123")
		assert.NoError(t, err, "改密后应能用新密码登录")
	})

	t.Run("用户不存在", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.UpdateProfile(ctx, 999, ProfileUpdate{Nickname: "任意"})
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}
