package book

import (
	"context"
	"time"

	"github.com/xiebiao/readly/internal/domain/book"
)

// MyBooksUseCase 我的图书列表用例
// 摘要形态:不返回description(列表场景减少传输量)
type MyBooksUseCase struct {
	bookService book.Service
}

// NewMyBooksUseCase 创建我的图书用例
func NewMyBooksUseCase(bookService book.Service) *MyBooksUseCase {
	return &MyBooksUseCase{bookService: bookService}
}

// BookSummary 图书摘要DTO(不含description)
type BookSummary struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Genre         string  `json:"genre"`
	PublishedYear int     `json:"published_year"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
	CreatedAt     string  `json:"created_at"`
}

// MyBooksResponse 我的图书响应DTO
type MyBooksResponse struct {
	Books []BookSummary `json:"books"`
	Total int           `json:"total"`
}

// Execute 执行查询(按创建时间倒序)
func (uc *MyBooksUseCase) Execute(ctx context.Context, userID uint) (*MyBooksResponse, error) {
	books, err := uc.bookService.ListUserBooks(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]BookSummary, len(books))
	for i, b := range books {
		items[i] = BookSummary{
			ID:            b.ID,
			Title:         b.Title,
			Author:        b.Author,
			Genre:         b.Genre,
			PublishedYear: b.PublishedYear,
			AverageRating: b.AverageRating,
			ReviewCount:   b.ReviewCount,
			CreatedAt:     b.CreatedAt.Format(time.RFC3339),
		}
	}

	return &MyBooksResponse{Books: items, Total: len(items)}, nil
}
