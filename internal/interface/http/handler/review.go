package handler

import (
	"github.com/gin-gonic/gin"

	appreview "github.com/xiebiao/readly/internal/application/review"
	"github.com/xiebiao/readly/internal/interface/http/dto"
	"github.com/xiebiao/readly/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/readly/pkg/errors"
	"github.com/xiebiao/readly/pkg/response"
)

// ReviewHandler 书评HTTP处理器
type ReviewHandler struct {
	createReviewUseCase *appreview.CreateReviewUseCase
	bookReviewsUseCase  *appreview.BookReviewsUseCase
	getReviewUseCase    *appreview.GetReviewUseCase
	updateReviewUseCase *appreview.UpdateReviewUseCase
	deleteReviewUseCase *appreview.DeleteReviewUseCase
	myReviewsUseCase    *appreview.MyReviewsUseCase
}

// NewReviewHandler 创建书评处理器
func NewReviewHandler(
	createReviewUseCase *appreview.CreateReviewUseCase,
	bookReviewsUseCase *appreview.BookReviewsUseCase,
	getReviewUseCase *appreview.GetReviewUseCase,
	updateReviewUseCase *appreview.UpdateReviewUseCase,
	deleteReviewUseCase *appreview.DeleteReviewUseCase,
	myReviewsUseCase *appreview.MyReviewsUseCase,
) *ReviewHandler {
	return &ReviewHandler{
		createReviewUseCase: createReviewUseCase,
		bookReviewsUseCase:  bookReviewsUseCase,
		getReviewUseCase:    getReviewUseCase,
		updateReviewUseCase: updateReviewUseCase,
		deleteReviewUseCase: deleteReviewUseCase,
		myReviewsUseCase:    myReviewsUseCase,
	}
}

// Create 创建书评
// @Summary      创建书评
// @Description  一个用户对一本书只能评论一次，创建后重算图书评分
// @Tags         书评
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateReviewRequest true "书评信息"
// @Success      201 {object} response.Response{data=appreview.ReviewResponse} "创建成功"
// @Failure      400 {object} response.Response "已经评论过这本书"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.createReviewUseCase.Execute(c.Request.Context(), appreview.CreateReviewRequest{
		UserID:     middleware.MustGetUserID(c),
		BookID:     req.BookID,
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListByBook 图书书评列表
// @Summary      图书书评列表
// @Description  某书全部书评（按创建时间倒序，附作者昵称）与评分统计
// @Tags         书评
// @Produce      json
// @Param        bookId path int true "图书ID"
// @Success      200 {object} response.Response{data=appreview.BookReviewsResponse} "查询成功"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/reviews/book/{bookId} [get]
func (h *ReviewHandler) ListByBook(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	result, err := h.bookReviewsUseCase.Execute(c.Request.Context(), bookID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Get 书评详情
// @Summary      书评详情
// @Tags         书评
// @Produce      json
// @Param        id path int true "书评ID"
// @Success      200 {object} response.Response{data=appreview.ReviewDetailItem} "查询成功"
// @Failure      404 {object} response.Response "书评不存在"
// @Router       /api/reviews/{id} [get]
func (h *ReviewHandler) Get(c *gin.Context) {
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.getReviewUseCase.Execute(c.Request.Context(), reviewID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Update 更新书评
// @Summary      更新书评
// @Description  只有作者可以编辑；评分变化时重算图书评分
// @Tags         书评
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "书评ID"
// @Param        request body dto.UpdateReviewRequest true "更新字段"
// @Success      200 {object} response.Response{data=appreview.ReviewResponse} "更新成功"
// @Failure      403 {object} response.Response "只有作者可以编辑书评"
// @Failure      404 {object} response.Response "书评不存在"
// @Router       /api/reviews/{id} [put]
func (h *ReviewHandler) Update(c *gin.Context) {
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.updateReviewUseCase.Execute(c.Request.Context(), appreview.UpdateReviewRequest{
		UserID:     middleware.MustGetUserID(c),
		ReviewID:   reviewID,
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Delete 删除书评
// @Summary      删除书评
// @Description  只有作者可以删除，删除后重算图书评分
// @Tags         书评
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "书评ID"
// @Success      200 {object} response.Response "删除成功"
// @Failure      403 {object} response.Response "只有作者可以删除书评"
// @Failure      404 {object} response.Response "书评不存在"
// @Router       /api/reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.deleteReviewUseCase.Execute(c.Request.Context(), reviewID, middleware.MustGetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// MyReviews 我的书评
// @Summary      我的书评
// @Description  当前用户的所有书评（按创建时间倒序，附图书摘要）
// @Tags         书评
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appreview.MyReviewsResponse} "查询成功"
// @Router       /api/reviews/user/my-reviews [get]
func (h *ReviewHandler) MyReviews(c *gin.Context) {
	result, err := h.myReviewsUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
