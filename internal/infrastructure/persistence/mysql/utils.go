package mysql

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateError 判断是否为唯一索引冲突
// 三个仓储共用：users.email、books.title、reviews(user_id, book_id)
// 的唯一索引冲突都经此翻译成业务错误
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// GORM的TranslateError未开启时回退到MySQL 1062的错误文案
	return strings.Contains(err.Error(), "Duplicate entry")
}
