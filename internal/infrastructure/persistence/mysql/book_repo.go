package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/readly/internal/domain/book"
	apperrors "github.com/xiebiao/readly/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误(如书名重复),转换为业务错误
// 4. 写路径统一走getDB(ctx),参与调用方开启的事务
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
// 书名唯一性由数据库UNIQUE索引保证
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := &BookModel{
		Title:         b.Title,
		Author:        b.Author,
		Description:   b.Description,
		Genre:         b.Genre,
		PublishedYear: b.PublishedYear,
		AddedBy:       b.AddedBy,
		AverageRating: b.AverageRating,
		ReviewCount:   b.ReviewCount,
	}

	if err := r.getDB(ctx).WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return book.ErrTitleDuplicate
		}
		return apperrors.Wrap(err, "创建图书失败")
	}

	// 回填自增ID
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := r.getDB(ctx).WithContext(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// Update 更新图书信息
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	model := &BookModel{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Description:   b.Description,
		Genre:         b.Genre,
		PublishedYear: b.PublishedYear,
		AddedBy:       b.AddedBy,
		AverageRating: b.AverageRating,
		ReviewCount:   b.ReviewCount,
	}
	model.CreatedAt = b.CreatedAt

	// 使用Save更新所有字段
	if err := r.getDB(ctx).WithContext(ctx).Save(model).Error; err != nil {
		// 修改书名时可能与其他图书冲突
		if isDuplicateError(err) {
			return book.ErrTitleDuplicate
		}
		return apperrors.Wrap(err, "更新图书失败")
	}

	b.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 删除图书(软删除)
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).WithContext(ctx).Delete(&BookModel{}, id)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}

	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}

	return nil
}

// List 分页查询图书列表
// 设计说明:
//  1. genre/author/title过滤均为子串匹配(LIKE)
//     utf8mb4默认collation不区分大小写,满足过滤语义
//  2. 先Count总数再查当前页,按创建时间倒序
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var models []BookModel
	var total int64

	query := r.getDB(ctx).WithContext(ctx).Model(&BookModel{})

	if params.Genre != "" {
		query = query.Where("genre LIKE ?", "%"+params.Genre+"%")
	}
	if params.Author != "" {
		query = query.Where("author LIKE ?", "%"+params.Author+"%")
	}
	if params.Title != "" {
		query = query.Where("title LIKE ?", "%"+params.Title+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}

	offset := (params.Page - 1) * params.Limit
	query = query.Order("created_at DESC").Limit(params.Limit).Offset(offset)

	if err := query.Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i, model := range models {
		books[i] = toBookEntity(&model)
	}

	return books, total, nil
}

// ListByUser 查询某用户创建的所有图书
func (r *bookRepository) ListByUser(ctx context.Context, userID uint) ([]*book.Book, error) {
	var models []BookModel

	err := r.getDB(ctx).WithContext(ctx).
		Where("added_by = ?", userID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询用户图书失败")
	}

	books := make([]*book.Book, len(models))
	for i, model := range models {
		books[i] = toBookEntity(&model)
	}

	return books, nil
}

// UpdateAggregates 写入派生的评分聚合字段
// 使用UpdateColumns只更新两列,不触碰updated_at(聚合重算不算内容修改)
func (r *bookRepository) UpdateAggregates(ctx context.Context, bookID uint, averageRating float64, reviewCount int64) error {
	result := r.getDB(ctx).Model(&BookModel{}).
		Where("id = ?", bookID).
		UpdateColumns(map[string]interface{}{
			"average_rating": averageRating,
			"review_count":   reviewCount,
		})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新评分聚合失败")
	}

	// 注意:不检查RowsAffected,MySQL对值未变化的UPDATE报0行,
	// 图书是否存在由调用方在同一事务内保证
	return nil
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:            model.ID,
		Title:         model.Title,
		Author:        model.Author,
		Description:   model.Description,
		Genre:         model.Genre,
		PublishedYear: model.PublishedYear,
		AddedBy:       model.AddedBy,
		AverageRating: model.AverageRating,
		ReviewCount:   model.ReviewCount,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
// 事务传递机制:TxManager会把事务DB注入context
func (r *bookRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db
}
