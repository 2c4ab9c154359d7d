package user

import (
	"context"
	"time"

	"github.com/xiebiao/readly/internal/domain/user"
)

// ProfileUseCase 用户资料用例（查询与更新）
type ProfileUseCase struct {
	userService user.Service
}

// NewProfileUseCase 创建资料用例
func NewProfileUseCase(userService user.Service) *ProfileUseCase {
	return &ProfileUseCase{userService: userService}
}

// Get 获取用户资料
func (uc *ProfileUseCase) Get(ctx context.Context, userID uint) (*ProfileResponse, error) {
	u, err := uc.userService.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	return toProfileResponse(u), nil
}

// Update 更新用户资料（部分更新）
// 零值字段表示不修改；修改密码必须携带当前密码
func (uc *ProfileUseCase) Update(ctx context.Context, userID uint, req UpdateProfileRequest) (*ProfileResponse, error) {
	u, err := uc.userService.UpdateProfile(ctx, userID, user.ProfileUpdate{
		Nickname:        req.Nickname,
		Email:           req.Email,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return nil, err
	}

	return toProfileResponse(u), nil
}

// UpdateProfileRequest 资料更新请求
type UpdateProfileRequest struct {
	Nickname        string
	Email           string
	CurrentPassword string
	NewPassword     string
}

// ProfileResponse 资料响应
type ProfileResponse struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Nickname  string `json:"nickname"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toProfileResponse(u *user.User) *ProfileResponse {
	return &ProfileResponse{
		ID:        u.ID,
		Email:     u.Email,
		Nickname:  u.Nickname,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}
