package book

import (
	"context"
	"strings"
)

// Repository 图书仓储接口（依赖倒置原则）
// 设计说明：
// 1. 由domain层定义接口，infrastructure层实现
// 2. 便于Mock测试，不依赖具体数据库实现
type Repository interface {
	// Create 创建图书
	// 书名重复时返回ErrTitleDuplicate
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	// 不存在时返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// Update 更新图书信息
	// 书名与其他图书冲突时返回ErrTitleDuplicate
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书（软删除）
	Delete(ctx context.Context, id uint) error

	// List 分页查询图书列表（按创建时间倒序）
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// ListByUser 查询某用户创建的所有图书（按创建时间倒序）
	ListByUser(ctx context.Context, userID uint) ([]*Book, error)

	// UpdateAggregates 写入派生的评分聚合字段
	// 只更新average_rating/review_count两列，不触碰其他字段
	UpdateAggregates(ctx context.Context, bookID uint, averageRating float64, reviewCount int64) error
}

// ListParams 列表查询参数
// 过滤字段均为可选，空字符串表示不过滤；匹配为大小写不敏感的子串匹配
type ListParams struct {
	Page   int    // 页码（从1开始）
	Limit  int    // 每页数量
	Genre  string // 分类过滤
	Author string // 作者过滤
	Title  string // 书名过滤
}

// SanitizeFilters 过滤参数净化
// 只保留trim后非空的已识别字段（genre/author/title），其余静默丢弃
func (p *ListParams) SanitizeFilters(genre, author, title string) {
	p.Genre = strings.TrimSpace(genre)
	p.Author = strings.TrimSpace(author)
	p.Title = strings.TrimSpace(title)
}
