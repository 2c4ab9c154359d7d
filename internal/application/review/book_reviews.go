package review

import (
	"context"
	"time"

	"github.com/xiebiao/readly/internal/domain/review"
)

// BookReviewsUseCase 图书书评列表用例
// 返回某书全部书评(附作者昵称)与评分聚合统计
type BookReviewsUseCase struct {
	reviewService review.Service
}

// NewBookReviewsUseCase 创建图书书评用例
func NewBookReviewsUseCase(reviewService review.Service) *BookReviewsUseCase {
	return &BookReviewsUseCase{reviewService: reviewService}
}

// ReviewDetailItem 书评详情DTO(附作者与图书摘要)
type ReviewDetailItem struct {
	ID             uint   `json:"id"`
	BookID         uint   `json:"book_id"`
	UserID         uint   `json:"user_id"`
	Rating         int    `json:"rating"`
	ReviewText     string `json:"review_text"`
	AuthorNickname string `json:"author_nickname"`
	BookTitle      string `json:"book_title"`
	BookAuthor     string `json:"book_author"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// RatingStatsDTO 评分聚合统计DTO
type RatingStatsDTO struct {
	AverageRating float64       `json:"average_rating"`
	TotalReviews  int64         `json:"total_reviews"`
	Distribution  map[int]int64 `json:"distribution"` // 1-5各评分的数量
}

// BookReviewsResponse 图书书评响应DTO
type BookReviewsResponse struct {
	Reviews []ReviewDetailItem `json:"reviews"`
	Stats   RatingStatsDTO     `json:"stats"`
}

// Execute 执行查询(书评按创建时间倒序)
func (uc *BookReviewsUseCase) Execute(ctx context.Context, bookID uint) (*BookReviewsResponse, error) {
	details, stats, err := uc.reviewService.GetBookReviews(ctx, bookID)
	if err != nil {
		return nil, err
	}

	return &BookReviewsResponse{
		Reviews: toDetailItems(details),
		Stats: RatingStatsDTO{
			AverageRating: stats.Average,
			TotalReviews:  stats.Count,
			Distribution:  stats.Distribution,
		},
	}, nil
}

// toDetailItems 读模型 → DTO列表
func toDetailItems(details []*review.Detail) []ReviewDetailItem {
	items := make([]ReviewDetailItem, len(details))
	for i, d := range details {
		items[i] = toDetailItem(d)
	}
	return items
}

func toDetailItem(d *review.Detail) ReviewDetailItem {
	return ReviewDetailItem{
		ID:             d.ID,
		BookID:         d.BookID,
		UserID:         d.UserID,
		Rating:         d.Rating,
		ReviewText:     d.ReviewText,
		AuthorNickname: d.AuthorNickname,
		BookTitle:      d.BookTitle,
		BookAuthor:     d.BookAuthor,
		CreatedAt:      d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      d.UpdatedAt.Format(time.RFC3339),
	}
}
