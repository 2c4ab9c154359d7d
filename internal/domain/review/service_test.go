package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/readly/internal/domain/book"
	apperrors "github.com/xiebiao/readly/pkg/errors"
)

// fakeBookRepo 内存图书仓储（测试用，只实现书评服务用到的部分语义）
type fakeBookRepo struct {
	books map[uint]*book.Book
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: make(map[uint]*book.Book)}
}

func (r *fakeBookRepo) addBook(id uint) *book.Book {
	b := &book.Book{ID: id, Title: "测试图书", Author: "测试作者", AddedBy: 1}
	r.books[id] = b
	return b
}

func (r *fakeBookRepo) Create(_ context.Context, b *book.Book) error {
	r.books[b.ID] = b
	return nil
}

func (r *fakeBookRepo) FindByID(_ context.Context, id uint) (*book.Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, apperrors.ErrBookNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookRepo) Update(_ context.Context, b *book.Book) error {
	r.books[b.ID] = b
	return nil
}

func (r *fakeBookRepo) Delete(_ context.Context, id uint) error {
	delete(r.books, id)
	return nil
}

func (r *fakeBookRepo) List(_ context.Context, _ book.ListParams) ([]*book.Book, int64, error) {
	return nil, 0, nil
}

func (r *fakeBookRepo) ListByUser(_ context.Context, _ uint) ([]*book.Book, error) {
	return nil, nil
}

func (r *fakeBookRepo) UpdateAggregates(_ context.Context, bookID uint, averageRating float64, reviewCount int64) error {
	b, ok := r.books[bookID]
	if !ok {
		return apperrors.ErrBookNotFound
	}
	b.AverageRating = averageRating
	b.ReviewCount = reviewCount
	return nil
}

// fakeReviewRepo 内存书评仓储（测试用）
type fakeReviewRepo struct {
	reviews map[uint]*Review
	nextID  uint
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[uint]*Review), nextID: 1}
}

func (r *fakeReviewRepo) Create(_ context.Context, rev *Review) error {
	for _, existing := range r.reviews {
		if existing.UserID == rev.UserID && existing.BookID == rev.BookID {
			return apperrors.ErrAlreadyReviewed
		}
	}
	rev.ID = r.nextID
	r.nextID++
	cp := *rev
	r.reviews[rev.ID] = &cp
	return nil
}

func (r *fakeReviewRepo) FindByID(_ context.Context, id uint) (*Review, error) {
	rev, ok := r.reviews[id]
	if !ok {
		return nil, apperrors.ErrReviewNotFound
	}
	cp := *rev
	return &cp, nil
}

func (r *fakeReviewRepo) FindByUserAndBook(_ context.Context, userID, bookID uint) (*Review, error) {
	for _, rev := range r.reviews {
		if rev.UserID == userID && rev.BookID == bookID {
			cp := *rev
			return &cp, nil
		}
	}
	return nil, apperrors.ErrReviewNotFound
}

func (r *fakeReviewRepo) Update(_ context.Context, rev *Review) error {
	if _, ok := r.reviews[rev.ID]; !ok {
		return apperrors.ErrReviewNotFound
	}
	cp := *rev
	r.reviews[rev.ID] = &cp
	return nil
}

func (r *fakeReviewRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.reviews[id]; !ok {
		return apperrors.ErrReviewNotFound
	}
	delete(r.reviews, id)
	return nil
}

func (r *fakeReviewRepo) DeleteByBook(_ context.Context, bookID uint) (int64, error) {
	var n int64
	for id, rev := range r.reviews {
		if rev.BookID == bookID {
			delete(r.reviews, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeReviewRepo) ListByBook(_ context.Context, bookID uint) ([]*Detail, error) {
	var details []*Detail
	for _, rev := range r.reviews {
		if rev.BookID == bookID {
			details = append(details, &Detail{Review: *rev})
		}
	}
	return details, nil
}

func (r *fakeReviewRepo) ListByUser(_ context.Context, userID uint) ([]*Detail, error) {
	var details []*Detail
	for _, rev := range r.reviews {
		if rev.UserID == userID {
			details = append(details, &Detail{Review: *rev})
		}
	}
	return details, nil
}

func (r *fakeReviewRepo) FindDetailByID(_ context.Context, id uint) (*Detail, error) {
	rev, ok := r.reviews[id]
	if !ok {
		return nil, apperrors.ErrReviewNotFound
	}
	return &Detail{Review: *rev}, nil
}

func (r *fakeReviewRepo) RatingsByBook(_ context.Context, bookID uint) ([]int, error) {
	var ratings []int
	for _, rev := range r.reviews {
		if rev.BookID == bookID {
			ratings = append(ratings, rev.Rating)
		}
	}
	return ratings, nil
}

const validText = "这本书内容翔实，讲解透彻，值得反复阅读。"

func newTestService() (Service, *fakeReviewRepo, *fakeBookRepo) {
	reviewRepo := newFakeReviewRepo()
	bookRepo := newFakeBookRepo()
	bookRepo.addBook(1)
	return NewService(reviewRepo, bookRepo), reviewRepo, bookRepo
}

func TestCreateReview(t *testing.T) {
	ctx := context.Background()

	t.Run("正常创建并重算聚合", func(t *testing.T) {
		svc, _, bookRepo := newTestService()

		r, err := svc.CreateReview(ctx, 1, 10, 4, validText)
		require.NoError(t, err)
		assert.NotZero(t, r.ID)

		b := bookRepo.books[1]
		assert.Equal(t, 4.0, b.AverageRating)
		assert.Equal(t, int64(1), b.ReviewCount)
	})

	t.Run("图书不存在", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.CreateReview(ctx, 999, 10, 4, validText)
		assert.ErrorIs(t, err, apperrors.ErrBookNotFound)
	})

	t.Run("重复评论被拒绝", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.CreateReview(ctx, 1, 10, 4, validText)
		require.NoError(t, err)

		_, err = svc.CreateReview(ctx, 1, 10, 5, validText)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyReviewed)
	})

	t.Run("评分范围校验", func(t *testing.T) {
		svc, _, _ := newTestService()

		for _, rating := range []int{0, -1, 6} {
			_, err := svc.CreateReview(ctx, 1, 10, rating, validText)
			assert.ErrorIs(t, err, ErrInvalidRating, "评分%d应被拒绝", rating)
		}
	})

	t.Run("正文长度校验", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.CreateReview(ctx, 1, 10, 4, "太短")
		assert.ErrorIs(t, err, ErrInvalidReviewText)

		long := make([]rune, 1001)
		for i := range long {
			long[i] = '长'
		}
		_, err = svc.CreateReview(ctx, 1, 10, 4, string(long))
		assert.ErrorIs(t, err, ErrInvalidReviewText)
	})

	t.Run("多条书评的平均分保留1位小数", func(t *testing.T) {
		svc, _, bookRepo := newTestService()

		require.NoError(t, mustCreate(svc, 1, 10, 5))
		require.NoError(t, mustCreate(svc, 1, 11, 4))
		require.NoError(t, mustCreate(svc, 1, 12, 3))

		b := bookRepo.books[1]
		assert.Equal(t, 4.0, b.AverageRating, "{5,4,3}的平均分应为4.0")
		assert.Equal(t, int64(3), b.ReviewCount)
	})
}

func mustCreate(svc Service, bookID, userID uint, rating int) error {
	_, err := svc.CreateReview(context.Background(), bookID, userID, rating, validText)
	return err
}

func TestUpdateReview(t *testing.T) {
	ctx := context.Background()

	intPtr := func(i int) *int { return &i }
	strPtr := func(s string) *string { return &s }

	setup := func(t *testing.T) (Service, *fakeBookRepo, *Review) {
		svc, _, bookRepo := newTestService()
		r, err := svc.CreateReview(ctx, 1, 10, 4, validText)
		require.NoError(t, err)
		return svc, bookRepo, r
	}

	t.Run("修改评分后重算聚合", func(t *testing.T) {
		svc, bookRepo, r := setup(t)

		updated, err := svc.UpdateReview(ctx, r.ID, 10, UpdateParams{Rating: intPtr(2)})
		require.NoError(t, err)
		assert.Equal(t, 2, updated.Rating)
		assert.Equal(t, 2.0, bookRepo.books[1].AverageRating)
	})

	t.Run("只改正文不重算聚合", func(t *testing.T) {
		svc, bookRepo, r := setup(t)

		// 人为改掉聚合值，验证不会被重算覆盖
		bookRepo.books[1].AverageRating = 99

		_, err := svc.UpdateReview(ctx, r.ID, 10, UpdateParams{
			ReviewText: strPtr("换一段同样符合长度要求的新书评正文。"),
		})
		require.NoError(t, err)
		assert.Equal(t, 99.0, bookRepo.books[1].AverageRating, "评分未变时不应重算")
	})

	t.Run("非作者编辑被拒绝", func(t *testing.T) {
		svc, _, r := setup(t)

		_, err := svc.UpdateReview(ctx, r.ID, 999, UpdateParams{Rating: intPtr(5)})
		assert.ErrorIs(t, err, ErrNotOwnerEdit)
	})

	t.Run("书评不存在", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.UpdateReview(ctx, 123, 10, UpdateParams{Rating: intPtr(5)})
		assert.ErrorIs(t, err, apperrors.ErrReviewNotFound)
	})
}

func TestDeleteReview(t *testing.T) {
	ctx := context.Background()

	t.Run("删除后重算聚合", func(t *testing.T) {
		svc, _, bookRepo := newTestService()

		r, err := svc.CreateReview(ctx, 1, 10, 4, validText)
		require.NoError(t, err)
		require.NoError(t, mustCreate(svc, 1, 11, 2))

		require.NoError(t, svc.DeleteReview(ctx, r.ID, 10))

		b := bookRepo.books[1]
		assert.Equal(t, 2.0, b.AverageRating)
		assert.Equal(t, int64(1), b.ReviewCount)
	})

	t.Run("删除最后一条书评后聚合归零", func(t *testing.T) {
		svc, _, bookRepo := newTestService()

		r, err := svc.CreateReview(ctx, 1, 10, 5, validText)
		require.NoError(t, err)

		require.NoError(t, svc.DeleteReview(ctx, r.ID, 10))

		b := bookRepo.books[1]
		assert.Zero(t, b.AverageRating)
		assert.Zero(t, b.ReviewCount)
	})

	t.Run("非作者删除被拒绝", func(t *testing.T) {
		svc, _, _ := newTestService()

		r, err := svc.CreateReview(ctx, 1, 10, 4, validText)
		require.NoError(t, err)

		err = svc.DeleteReview(ctx, r.ID, 999)
		assert.ErrorIs(t, err, ErrNotOwnerDelete)
	})
}

func TestGetBookReviews(t *testing.T) {
	ctx := context.Background()

	t.Run("返回书评与统计", func(t *testing.T) {
		svc, _, _ := newTestService()

		require.NoError(t, mustCreate(svc, 1, 10, 5))
		require.NoError(t, mustCreate(svc, 1, 11, 4))

		details, stats, err := svc.GetBookReviews(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, details, 2)
		assert.Equal(t, 4.5, stats.Average)
		assert.Equal(t, int64(2), stats.Count)
		assert.Equal(t, int64(1), stats.Distribution[5])
		assert.Equal(t, int64(1), stats.Distribution[4])
		assert.Equal(t, int64(0), stats.Distribution[1])
	})

	t.Run("图书不存在", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, _, err := svc.GetBookReviews(ctx, 999)
		assert.ErrorIs(t, err, apperrors.ErrBookNotFound)
	})

	t.Run("无书评时统计为零值", func(t *testing.T) {
		svc, _, _ := newTestService()

		details, stats, err := svc.GetBookReviews(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, details)
		assert.Zero(t, stats.Average)
		assert.Zero(t, stats.Count)
		assert.Len(t, stats.Distribution, 5, "直方图应固定包含1-5五个桶")
	})
}
