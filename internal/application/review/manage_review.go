package review

import (
	"context"

	"github.com/xiebiao/readly/internal/domain/review"
	"github.com/xiebiao/readly/internal/infrastructure/persistence/mysql"
)

// GetReviewUseCase 书评详情查询用例
type GetReviewUseCase struct {
	reviewService review.Service
}

// NewGetReviewUseCase 创建详情查询用例
func NewGetReviewUseCase(reviewService review.Service) *GetReviewUseCase {
	return &GetReviewUseCase{reviewService: reviewService}
}

// Execute 执行详情查询(附作者与图书摘要)
func (uc *GetReviewUseCase) Execute(ctx context.Context, reviewID uint) (*ReviewDetailItem, error) {
	d, err := uc.reviewService.GetReviewByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	item := toDetailItem(d)
	return &item, nil
}

// UpdateReviewUseCase 更新书评用例
// 评分变化时在同一事务内重算图书的评分聚合
type UpdateReviewUseCase struct {
	reviewService review.Service
	txManager     *mysql.TxManager
}

// NewUpdateReviewUseCase 创建更新用例
func NewUpdateReviewUseCase(
	reviewService review.Service,
	txManager *mysql.TxManager,
) *UpdateReviewUseCase {
	return &UpdateReviewUseCase{
		reviewService: reviewService,
		txManager:     txManager,
	}
}

// UpdateReviewRequest 更新书评请求DTO
// nil字段表示不修改
type UpdateReviewRequest struct {
	UserID     uint // 操作者用户ID(从JWT中提取)
	ReviewID   uint
	Rating     *int
	ReviewText *string
}

// Execute 执行更新
func (uc *UpdateReviewUseCase) Execute(ctx context.Context, req UpdateReviewRequest) (*ReviewResponse, error) {
	var updated *review.Review

	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		r, err := uc.reviewService.UpdateReview(txCtx, req.ReviewID, req.UserID, review.UpdateParams{
			Rating:     req.Rating,
			ReviewText: req.ReviewText,
		})
		if err != nil {
			return err
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toReviewResponse(updated), nil
}

// DeleteReviewUseCase 删除书评用例
// 删除与聚合重算放在同一事务
type DeleteReviewUseCase struct {
	reviewService review.Service
	txManager     *mysql.TxManager
}

// NewDeleteReviewUseCase 创建删除用例
func NewDeleteReviewUseCase(
	reviewService review.Service,
	txManager *mysql.TxManager,
) *DeleteReviewUseCase {
	return &DeleteReviewUseCase{
		reviewService: reviewService,
		txManager:     txManager,
	}
}

// Execute 执行删除
func (uc *DeleteReviewUseCase) Execute(ctx context.Context, reviewID, userID uint) error {
	return uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		return uc.reviewService.DeleteReview(txCtx, reviewID, userID)
	})
}
