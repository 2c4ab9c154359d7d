package book

import (
	"time"
)

// Book 图书实体（聚合根）
// 设计说明：
//  1. Title作为业务唯一标识（数据库层保证唯一性）
//  2. AddedBy关联创建图书的用户，所有权判断用类型化的uint相等比较
//  3. AverageRating/ReviewCount是派生字段，只能由评分聚合重算写入，
//     客户端请求中的同名字段一律忽略
type Book struct {
	ID            uint
	Title         string  // 书名（唯一）
	Author        string  // 作者
	Description   string  // 图书简介
	Genre         string  // 分类
	PublishedYear int     // 出版年份
	AddedBy       uint    // 创建者用户ID
	AverageRating float64 // 平均评分（派生，保留1位小数）
	ReviewCount   int64   // 书评数量（派生）
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewBook 创建新图书（工厂方法）
// 字段需调用方先经过Service层校验
func NewBook(title, author, description, genre string, publishedYear int, addedBy uint) *Book {
	now := time.Now()
	return &Book{
		Title:         title,
		Author:        author,
		Description:   description,
		Genre:         genre,
		PublishedYear: publishedYear,
		AddedBy:       addedBy,
		AverageRating: 0,
		ReviewCount:   0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsOwnedBy 检查图书是否由指定用户创建
func (b *Book) IsOwnedBy(userID uint) bool {
	return b.AddedBy == userID
}

// Touch 更新修改时间
func (b *Book) Touch() {
	b.UpdatedAt = time.Now()
}
