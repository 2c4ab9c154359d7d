package book

import (
	"context"
	"time"

	"github.com/xiebiao/readly/internal/domain/book"
)

// CreateBookUseCase 创建图书用例
// 设计说明:
// 1. 创建者 = 当前登录用户(从JWT提取,不信任请求体)
// 2. 评分聚合字段初始为0,客户端传入的同名字段被忽略
type CreateBookUseCase struct {
	bookService book.Service
}

// NewCreateBookUseCase 创建图书用例
func NewCreateBookUseCase(bookService book.Service) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService: bookService,
	}
}

// CreateBookRequest 创建图书请求DTO
type CreateBookRequest struct {
	UserID        uint // 创建者用户ID(从JWT中提取)
	Title         string
	Author        string
	Description   string
	Genre         string
	PublishedYear int
}

// Execute 执行创建图书用例
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (*BookResponse, error) {
	b, err := uc.bookService.CreateBook(ctx, book.CreateParams{
		Title:         req.Title,
		Author:        req.Author,
		Description:   req.Description,
		Genre:         req.Genre,
		PublishedYear: req.PublishedYear,
	}, req.UserID)
	if err != nil {
		return nil, err
	}

	return toBookResponse(b), nil
}

// BookResponse 图书详情DTO
type BookResponse struct {
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
	UpdatedAt     string  `json:"updated_at"`
}

// toBookResponse 领域实体 → 应用层DTO
func toBookResponse(b *book.Book) *BookResponse {
	return &BookResponse{
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
		UpdatedAt:     b.UpdatedAt.Format(time.RFC3339),
	}
}
