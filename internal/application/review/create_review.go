package review

import (
	"context"
	"time"

	"github.com/xiebiao/readly/internal/domain/review"
	"github.com/xiebiao/readly/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/readly/pkg/metrics"
)

// CreateReviewUseCase 创建书评用例
// 设计说明:
//  1. 创建书评与评分聚合重算放在同一事务:
//     书评落库后图书的average_rating/review_count必须一致
//  2. 一人一书一评:应用层预检查 + 数据库唯一索引兜底
type CreateReviewUseCase struct {
	reviewService review.Service
	txManager     *mysql.TxManager
}

// NewCreateReviewUseCase 创建书评用例
func NewCreateReviewUseCase(
	reviewService review.Service,
	txManager *mysql.TxManager,
) *CreateReviewUseCase {
	return &CreateReviewUseCase{
		reviewService: reviewService,
		txManager:     txManager,
	}
}

// CreateReviewRequest 创建书评请求DTO
type CreateReviewRequest struct {
	UserID     uint // 作者用户ID(从JWT中提取)
	BookID     uint
	Rating     int
	ReviewText string
}

// ReviewResponse 书评DTO
type ReviewResponse struct {
	ID         uint   `json:"id"`
	BookID     uint   `json:"book_id"`
	UserID     uint   `json:"user_id"`
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// Execute 执行创建书评用例
func (uc *CreateReviewUseCase) Execute(ctx context.Context, req CreateReviewRequest) (*ReviewResponse, error) {
	var created *review.Review

	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		r, err := uc.reviewService.CreateReview(txCtx, req.BookID, req.UserID, req.Rating, req.ReviewText)
		if err != nil {
			return err
		}
		created = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	if metrics.ReviewsCreatedTotal != nil {
		metrics.ReviewsCreatedTotal.Inc()
	}

	return toReviewResponse(created), nil
}

// toReviewResponse 领域实体 → 应用层DTO
func toReviewResponse(r *review.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:         r.ID,
		BookID:     r.BookID,
		UserID:     r.UserID,
		Rating:     r.Rating,
		ReviewText: r.ReviewText,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  r.UpdatedAt.Format(time.RFC3339),
	}
}
