package review

import (
	apperrors "github.com/xiebiao/readly/pkg/errors"
)

// 书评领域错误定义
var (
	// ErrReviewNotFound 书评不存在
	ErrReviewNotFound = apperrors.ErrReviewNotFound

	// ErrAlreadyReviewed 同一用户对同一本书重复评论
	ErrAlreadyReviewed = apperrors.ErrAlreadyReviewed

	// ErrNotOwnerEdit 非作者尝试编辑
	ErrNotOwnerEdit = apperrors.New(apperrors.ErrCodeForbidden, "只有作者可以编辑书评")

	// ErrNotOwnerDelete 非作者尝试删除
	ErrNotOwnerDelete = apperrors.New(apperrors.ErrCodeForbidden, "只有作者可以删除书评")

	// ErrInvalidRating 评分超出范围
	ErrInvalidRating = apperrors.New(apperrors.ErrCodeInvalidParams, "评分必须是1-5的整数")

	// ErrInvalidReviewText 书评正文长度不合法
	ErrInvalidReviewText = apperrors.New(apperrors.ErrCodeInvalidParams, "书评内容长度应为10-1000个字符")
)
