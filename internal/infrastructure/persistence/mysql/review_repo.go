package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/readly/internal/domain/review"
	apperrors "github.com/xiebiao/readly/pkg/errors"
)

// reviewRepository 书评仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/review/repository.go定义的接口
// 2. 一人一书一评由(user_id, book_id)复合唯一索引保证
// 3. 列表与详情查询JOIN用户表/图书表,返回读模型Detail
// 4. 所有方法走getDB(ctx),参与调用方开启的事务
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建书评仓储
func NewReviewRepository(db *gorm.DB) review.Repository {
	return &reviewRepository{db: db}
}

// Create 创建书评
// 重复评论由数据库唯一索引兜底(应用层的预检查存在并发窗口)
func (r *reviewRepository) Create(ctx context.Context, rev *review.Review) error {
	model := &ReviewModel{
		BookID:     rev.BookID,
		UserID:     rev.UserID,
		Rating:     rev.Rating,
		ReviewText: rev.ReviewText,
	}

	if err := r.getDB(ctx).WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.ErrAlreadyReviewed
		}
		return apperrors.Wrap(err, "创建书评失败")
	}

	rev.ID = model.ID
	rev.CreatedAt = model.CreatedAt
	rev.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找书评
func (r *reviewRepository) FindByID(ctx context.Context, id uint) (*review.Review, error) {
	var model ReviewModel
	err := r.getDB(ctx).WithContext(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrReviewNotFound
		}
		return nil, apperrors.Wrap(err, "查询书评失败")
	}

	return toReviewEntity(&model), nil
}

// FindByUserAndBook 查找某用户对某书的书评
func (r *reviewRepository) FindByUserAndBook(ctx context.Context, userID, bookID uint) (*review.Review, error) {
	var model ReviewModel
	err := r.getDB(ctx).WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrReviewNotFound
		}
		return nil, apperrors.Wrap(err, "查询书评失败")
	}

	return toReviewEntity(&model), nil
}

// Update 更新书评
func (r *reviewRepository) Update(ctx context.Context, rev *review.Review) error {
	model := &ReviewModel{
		ID:         rev.ID,
		BookID:     rev.BookID,
		UserID:     rev.UserID,
		Rating:     rev.Rating,
		ReviewText: rev.ReviewText,
		CreatedAt:  rev.CreatedAt,
	}

	if err := r.getDB(ctx).WithContext(ctx).Save(model).Error; err != nil {
		return apperrors.Wrap(err, "更新书评失败")
	}

	rev.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 删除书评(物理删除)
func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).WithContext(ctx).Delete(&ReviewModel{}, id)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除书评失败")
	}

	if result.RowsAffected == 0 {
		return apperrors.ErrReviewNotFound
	}

	return nil
}

// DeleteByBook 删除某书的全部书评(图书删除时级联使用)
func (r *reviewRepository) DeleteByBook(ctx context.Context, bookID uint) (int64, error) {
	result := r.getDB(ctx).WithContext(ctx).
		Where("book_id = ?", bookID).
		Delete(&ReviewModel{})

	if result.Error != nil {
		return 0, apperrors.Wrap(result.Error, "级联删除书评失败")
	}

	return result.RowsAffected, nil
}

// ListByBook 查询某书的全部书评(附作者昵称)
func (r *reviewRepository) ListByBook(ctx context.Context, bookID uint) ([]*review.Detail, error) {
	var rows []reviewDetailRow

	err := r.detailQuery(ctx).
		Where("reviews.book_id = ?", bookID).
		Order("reviews.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书书评失败")
	}

	return toDetails(rows), nil
}

// ListByUser 查询某用户的全部书评(附图书摘要)
func (r *reviewRepository) ListByUser(ctx context.Context, userID uint) ([]*review.Detail, error) {
	var rows []reviewDetailRow

	err := r.detailQuery(ctx).
		Where("reviews.user_id = ?", userID).
		Order("reviews.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询用户书评失败")
	}

	return toDetails(rows), nil
}

// FindDetailByID 根据ID查找书评(附作者与图书摘要)
func (r *reviewRepository) FindDetailByID(ctx context.Context, id uint) (*review.Detail, error) {
	var rows []reviewDetailRow

	err := r.detailQuery(ctx).
		Where("reviews.id = ?", id).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询书评失败")
	}

	if len(rows) == 0 {
		return nil, apperrors.ErrReviewNotFound
	}

	return toDetail(rows[0]), nil
}

// RatingsByBook 查询某书全部书评的评分(聚合重算使用)
func (r *reviewRepository) RatingsByBook(ctx context.Context, bookID uint) ([]int, error) {
	var ratings []int

	err := r.getDB(ctx).WithContext(ctx).
		Model(&ReviewModel{}).
		Where("book_id = ?", bookID).
		Pluck("rating", &ratings).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询评分失败")
	}

	return ratings, nil
}

// reviewDetailRow JOIN查询的扫描目标
type reviewDetailRow struct {
	ID             uint
	BookID         uint
	UserID         uint
	Rating         int
	ReviewText     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	AuthorNickname string
	BookTitle      string
	BookAuthor     string
}

// detailQuery 书评详情的基础JOIN查询
// 说明:reviews没有软删除,users/books的软删除在JOIN条件里过滤
func (r *reviewRepository) detailQuery(ctx context.Context) *gorm.DB {
	return r.getDB(ctx).WithContext(ctx).
		Model(&ReviewModel{}).
		Select("reviews.id, reviews.book_id, reviews.user_id, reviews.rating, reviews.review_text, " +
			"reviews.created_at, reviews.updated_at, " +
			"users.nickname AS author_nickname, books.title AS book_title, books.author AS book_author").
		Joins("JOIN users ON users.id = reviews.user_id AND users.deleted_at IS NULL").
		Joins("JOIN books ON books.id = reviews.book_id AND books.deleted_at IS NULL")
}

func toDetail(row reviewDetailRow) *review.Detail {
	return &review.Detail{
		Review: review.Review{
			ID:         row.ID,
			BookID:     row.BookID,
			UserID:     row.UserID,
			Rating:     row.Rating,
			ReviewText: row.ReviewText,
			CreatedAt:  row.CreatedAt,
			UpdatedAt:  row.UpdatedAt,
		},
		AuthorNickname: row.AuthorNickname,
		BookTitle:      row.BookTitle,
		BookAuthor:     row.BookAuthor,
	}
}

func toDetails(rows []reviewDetailRow) []*review.Detail {
	details := make([]*review.Detail, len(rows))
	for i, row := range rows {
		details[i] = toDetail(row)
	}
	return details
}

// toReviewEntity GORM模型 → 领域实体
func toReviewEntity(model *ReviewModel) *review.Review {
	return &review.Review{
		ID:         model.ID,
		BookID:     model.BookID,
		UserID:     model.UserID,
		Rating:     model.Rating,
		ReviewText: model.ReviewText,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *reviewRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db
}
