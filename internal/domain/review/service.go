package review

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/xiebiao/readly/internal/domain/book"
	apperrors "github.com/xiebiao/readly/pkg/errors"
)

// Service 书评领域服务接口
// 设计说明：
//  1. 书评的聚合统计落在图书实体上，因此Service同时依赖两个仓储接口
//  2. 写操作后同步重算聚合（全量重算，正确性优先）；
//     调用方（应用层）负责用事务包裹，写入与重算要么同时生效要么同时回滚
type Service interface {
	// CreateReview 创建书评
	// 业务规则：
	// - 评分是1-5的整数，正文trim后10-1000字符
	// - 图书必须存在
	// - 同一用户对同一本书只能评论一次
	CreateReview(ctx context.Context, bookID, userID uint, rating int, reviewText string) (*Review, error)

	// GetBookReviews 查询某书的全部书评与评分统计
	GetBookReviews(ctx context.Context, bookID uint) ([]*Detail, RatingStats, error)

	// GetReviewByID 根据ID获取书评详情
	GetReviewByID(ctx context.Context, id uint) (*Detail, error)

	// ListUserReviews 查询某用户的全部书评
	ListUserReviews(ctx context.Context, userID uint) ([]*Detail, error)

	// UpdateReview 部分更新书评（评分和/或正文）
	// 业务规则：只有作者可以编辑；评分变化时重算聚合
	UpdateReview(ctx context.Context, id uint, userID uint, update UpdateParams) (*Review, error)

	// DeleteReview 删除书评
	// 业务规则：只有作者可以删除；删除后用事先记下的图书ID重算聚合
	DeleteReview(ctx context.Context, id uint, userID uint) error
}

// UpdateParams 部分更新参数
// nil字段表示不修改
type UpdateParams struct {
	Rating     *int
	ReviewText *string
}

// service 领域服务实现
type service struct {
	repo     Repository
	bookRepo book.Repository
}

// NewService 创建书评领域服务
func NewService(repo Repository, bookRepo book.Repository) Service {
	return &service{repo: repo, bookRepo: bookRepo}
}

// CreateReview 创建书评
func (s *service) CreateReview(ctx context.Context, bookID, userID uint, rating int, reviewText string) (*Review, error) {
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	text, err := sanitizeReviewText(reviewText)
	if err != nil {
		return nil, err
	}

	// 图书必须存在
	if _, err := s.bookRepo.FindByID(ctx, bookID); err != nil {
		return nil, err
	}

	// 重复评论检查（最终由(user_id, book_id)唯一索引兜底）
	existing, err := s.repo.FindByUserAndBook(ctx, userID, bookID)
	if err != nil && !errors.Is(err, apperrors.ErrReviewNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyReviewed
	}

	r := NewReview(bookID, userID, rating, text)
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}

	if err := s.recomputeAggregates(ctx, bookID); err != nil {
		return nil, err
	}

	return r, nil
}

// GetBookReviews 查询某书的全部书评与评分统计
func (s *service) GetBookReviews(ctx context.Context, bookID uint) ([]*Detail, RatingStats, error) {
	// 图书必须存在
	if _, err := s.bookRepo.FindByID(ctx, bookID); err != nil {
		return nil, RatingStats{}, err
	}

	details, err := s.repo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, RatingStats{}, err
	}

	ratings := make([]int, len(details))
	for i, d := range details {
		ratings[i] = d.Rating
	}

	return details, ComputeStats(ratings), nil
}

// GetReviewByID 根据ID获取书评详情
func (s *service) GetReviewByID(ctx context.Context, id uint) (*Detail, error) {
	return s.repo.FindDetailByID(ctx, id)
}

// ListUserReviews 查询某用户的全部书评
func (s *service) ListUserReviews(ctx context.Context, userID uint) ([]*Detail, error) {
	return s.repo.ListByUser(ctx, userID)
}

// UpdateReview 部分更新书评
func (s *service) UpdateReview(ctx context.Context, id uint, userID uint, update UpdateParams) (*Review, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 权限检查：只有作者可以编辑
	if !r.IsOwnedBy(userID) {
		return nil, ErrNotOwnerEdit
	}

	ratingChanged := false
	if update.Rating != nil {
		if err := validateRating(*update.Rating); err != nil {
			return nil, err
		}
		ratingChanged = *update.Rating != r.Rating
		r.Rating = *update.Rating
	}
	if update.ReviewText != nil {
		text, err := sanitizeReviewText(*update.ReviewText)
		if err != nil {
			return nil, err
		}
		r.ReviewText = text
	}

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}

	// 只有评分变化才需要重算聚合
	if ratingChanged {
		if err := s.recomputeAggregates(ctx, r.BookID); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// DeleteReview 删除书评
func (s *service) DeleteReview(ctx context.Context, id uint, userID uint) error {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// 权限检查：只有作者可以删除
	if !r.IsOwnedBy(userID) {
		return ErrNotOwnerDelete
	}

	// 删除前记下图书ID，删除后以此重算聚合
	bookID := r.BookID

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	return s.recomputeAggregates(ctx, bookID)
}

// recomputeAggregates 全量重算图书的评分聚合
// O(n)拉取全部评分后求均值与数量，正确性优先；
// 与触发它的写操作处于同一事务中（仓储从context提取事务DB）
func (s *service) recomputeAggregates(ctx context.Context, bookID uint) error {
	ratings, err := s.repo.RatingsByBook(ctx, bookID)
	if err != nil {
		return err
	}

	stats := ComputeStats(ratings)
	return s.bookRepo.UpdateAggregates(ctx, bookID, stats.Average, stats.Count)
}

// =========================================
// 辅助函数：字段校验
// =========================================

// validateRating 评分校验：1-5的整数
func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	return nil
}

// sanitizeReviewText 书评正文规整：trim后10-1000字符
func sanitizeReviewText(text string) (string, error) {
	text = strings.TrimSpace(text)
	n := utf8.RuneCountInString(text)
	if n < 10 || n > 1000 {
		return "", ErrInvalidReviewText
	}
	return text, nil
}
