package review

import (
	"context"

	"github.com/xiebiao/readly/internal/domain/review"
)

// MyReviewsUseCase 我的书评列表用例
type MyReviewsUseCase struct {
	reviewService review.Service
}

// NewMyReviewsUseCase 创建我的书评用例
func NewMyReviewsUseCase(reviewService review.Service) *MyReviewsUseCase {
	return &MyReviewsUseCase{reviewService: reviewService}
}

// MyReviewsResponse 我的书评响应DTO
type MyReviewsResponse struct {
	Reviews []ReviewDetailItem `json:"reviews"`
	Total   int                `json:"total"`
}

// Execute 执行查询(按创建时间倒序,附图书摘要)
func (uc *MyReviewsUseCase) Execute(ctx context.Context, userID uint) (*MyReviewsResponse, error) {
	details, err := uc.reviewService.ListUserReviews(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := toDetailItems(details)
	return &MyReviewsResponse{Reviews: items, Total: len(items)}, nil
}
