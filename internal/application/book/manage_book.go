package book

import (
	"context"

	"github.com/xiebiao/readly/internal/domain/book"
	"github.com/xiebiao/readly/internal/domain/review"
	"github.com/xiebiao/readly/internal/infrastructure/persistence/mysql"
)

// GetBookUseCase 图书详情查询用例
type GetBookUseCase struct {
	bookService book.Service
}

// NewGetBookUseCase 创建详情查询用例
func NewGetBookUseCase(bookService book.Service) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService}
}

// Execute 执行详情查询
func (uc *GetBookUseCase) Execute(ctx context.Context, bookID uint) (*BookResponse, error) {
	b, err := uc.bookService.GetBookByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	return toBookResponse(b), nil
}

// UpdateBookUseCase 更新图书用例
// 部分更新:只修改传入的字段,所有权由领域服务校验
type UpdateBookUseCase struct {
	bookService book.Service
}

// NewUpdateBookUseCase 创建更新用例
func NewUpdateBookUseCase(bookService book.Service) *UpdateBookUseCase {
	return &UpdateBookUseCase{bookService: bookService}
}

// UpdateBookRequest 更新图书请求DTO
// nil字段表示不修改
type UpdateBookRequest struct {
	UserID        uint // 操作者用户ID(从JWT中提取)
	BookID        uint
	Title         *string
	Author        *string
	Description   *string
	Genre         *string
	PublishedYear *int
}

// Execute 执行更新
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (*BookResponse, error) {
	b, err := uc.bookService.UpdateBook(ctx, req.BookID, req.UserID, book.UpdateParams{
		Title:         req.Title,
		Author:        req.Author,
		Description:   req.Description,
		Genre:         req.Genre,
		PublishedYear: req.PublishedYear,
	})
	if err != nil {
		return nil, err
	}

	return toBookResponse(b), nil
}

// DeleteBookUseCase 删除图书用例
// 设计说明:
// 1. 删除图书时级联删除其全部书评
// 2. 两步操作放在同一事务:要么都成功,要么都回滚
type DeleteBookUseCase struct {
	bookService book.Service
	reviewRepo  review.Repository
	txManager   *mysql.TxManager
}

// NewDeleteBookUseCase 创建删除用例
func NewDeleteBookUseCase(
	bookService book.Service,
	reviewRepo review.Repository,
	txManager *mysql.TxManager,
) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		bookService: bookService,
		reviewRepo:  reviewRepo,
		txManager:   txManager,
	}
}

// DeleteBookResponse 删除图书响应DTO
type DeleteBookResponse struct {
	DeletedReviews int64 `json:"deleted_reviews"`
}

// Execute 执行删除
func (uc *DeleteBookUseCase) Execute(ctx context.Context, bookID, userID uint) (*DeleteBookResponse, error) {
	var deletedReviews int64

	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 1. 删除图书(领域服务内校验所有权)
		if err := uc.bookService.DeleteBook(txCtx, bookID, userID); err != nil {
			return err
		}

		// 2. 级联删除该书的全部书评
		n, err := uc.reviewRepo.DeleteByBook(txCtx, bookID)
		if err != nil {
			return err
		}
		deletedReviews = n

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &DeleteBookResponse{DeletedReviews: deletedReviews}, nil
}
