package book

import (
	apperrors "github.com/xiebiao/readly/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.ErrBookNotFound

	// ErrTitleDuplicate 书名已存在
	ErrTitleDuplicate = apperrors.ErrTitleDuplicate

	// ErrNotOwnerEdit 非创建者尝试编辑
	ErrNotOwnerEdit = apperrors.New(apperrors.ErrCodeForbidden, "只有创建者可以编辑图书")

	// ErrNotOwnerDelete 非创建者尝试删除
	ErrNotOwnerDelete = apperrors.New(apperrors.ErrCodeForbidden, "只有创建者可以删除图书")
)
