package book

import (
	"context"
	"time"

	"github.com/xiebiao/readly/internal/domain/book"
	"github.com/xiebiao/readly/pkg/response"
)

// ListBooksUseCase 图书列表查询用例
// 设计说明:
// 1. 支持分页与genre/author/title过滤(大小写不敏感子串匹配)
// 2. 过滤参数净化:只有trim后非空的已识别字段生效,其余静默丢弃
// 3. 按创建时间倒序
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
	}
}

// ListBooksRequest 列表查询请求DTO
type ListBooksRequest struct {
	Page   int    // 页码(从1开始,默认1)
	Limit  int    // 每页数量(默认5)
	Genre  string // 分类过滤
	Author string // 作者过滤
	Title  string // 书名过滤
}

// BookListItem 列表项DTO
type BookListItem struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Description   string  `json:"description"`
	Genre         string  `json:"genre"`
	PublishedYear int     `json:"published_year"`
	AddedBy       uint    `json:"added_by"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
	CreatedAt     string  `json:"created_at"`
}

// Pagination 图书列表分页信息
// 总数字段对外命名total_books(区别于通用分页的total)
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalBooks  int64 `json:"total_books"`
	Limit       int   `json:"limit"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
	NextPage    *int  `json:"next_page"`
	PrevPage    *int  `json:"prev_page"`
}

// ListBooksResponse 列表查询响应DTO
type ListBooksResponse struct {
	Books      []BookListItem `json:"books"`
	Pagination Pagination     `json:"pagination"`
}

// Execute 执行列表查询用例
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	// 参数默认值
	if req.Page < 1 {
		req.Page = response.DefaultPage
	}
	if req.Limit < 1 {
		req.Limit = response.DefaultLimit
	}

	params := book.ListParams{
		Page:  req.Page,
		Limit: req.Limit,
	}
	params.SanitizeFilters(req.Genre, req.Author, req.Title)

	books, total, err := uc.bookService.ListBooks(ctx, params)
	if err != nil {
		return nil, err
	}

	items := make([]BookListItem, len(books))
	for i, b := range books {
		items[i] = BookListItem{
			ID:            b.ID,
			Title:         b.Title,
			Author:        b.Author,
			Description:   b.Description,
			Genre:         b.Genre,
			PublishedYear: b.PublishedYear,
			AddedBy:       b.AddedBy,
			AverageRating: b.AverageRating,
			ReviewCount:   b.ReviewCount,
			CreatedAt:     b.CreatedAt.Format(time.RFC3339),
		}
	}

	p := response.NewPagination(req.Page, req.Limit, total)

	return &ListBooksResponse{
		Books: items,
		Pagination: Pagination{
			CurrentPage: p.CurrentPage,
			TotalPages:  p.TotalPages,
			TotalBooks:  p.Total,
			Limit:       p.Limit,
			HasNext:     p.HasNext,
			HasPrev:     p.HasPrev,
			NextPage:    p.NextPage,
			PrevPage:    p.PrevPage,
		},
	}, nil
}
