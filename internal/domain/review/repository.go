package review

import (
	"context"
)

// Repository 书评仓储接口（依赖倒置原则）
type Repository interface {
	// Create 创建书评
	// (user_id, book_id)重复时返回ErrAlreadyReviewed
	Create(ctx context.Context, review *Review) error

	// FindByID 根据ID查找书评
	// 不存在时返回ErrReviewNotFound
	FindByID(ctx context.Context, id uint) (*Review, error)

	// FindByUserAndBook 查找某用户对某书的书评
	// 不存在时返回ErrReviewNotFound（调用方以此判断是否已评论）
	FindByUserAndBook(ctx context.Context, userID, bookID uint) (*Review, error)

	// Update 更新书评
	Update(ctx context.Context, review *Review) error

	// Delete 删除书评
	Delete(ctx context.Context, id uint) error

	// DeleteByBook 删除某书的全部书评（图书删除时级联使用）
	// 返回删除的条数
	DeleteByBook(ctx context.Context, bookID uint) (int64, error)

	// ListByBook 查询某书的全部书评（按创建时间倒序，附作者摘要）
	ListByBook(ctx context.Context, bookID uint) ([]*Detail, error)

	// ListByUser 查询某用户的全部书评（按创建时间倒序，附图书摘要）
	ListByUser(ctx context.Context, userID uint) ([]*Detail, error)

	// FindDetailByID 根据ID查找书评（附作者与图书摘要）
	FindDetailByID(ctx context.Context, id uint) (*Detail, error)

	// RatingsByBook 查询某书全部书评的评分（聚合重算使用）
	RatingsByBook(ctx context.Context, bookID uint) ([]int, error)
}
