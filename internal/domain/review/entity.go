package review

import (
	"math"
	"time"
)

// Review 书评实体（聚合根）
// 设计说明：
// 1. 一个用户对一本书最多一条书评，(user_id, book_id)复合唯一索引保证
// 2. 所有权判断用类型化的uint相等比较
type Review struct {
	ID         uint
	BookID     uint
	UserID     uint
	Rating     int    // 评分（1-5整数）
	ReviewText string // 书评正文
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewReview 创建新书评（工厂方法）
// 字段需调用方先经过Service层校验
func NewReview(bookID, userID uint, rating int, reviewText string) *Review {
	now := time.Now()
	return &Review{
		BookID:     bookID,
		UserID:     userID,
		Rating:     rating,
		ReviewText: reviewText,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsOwnedBy 检查书评是否由指定用户撰写
func (r *Review) IsOwnedBy(userID uint) bool {
	return r.UserID == userID
}

// Detail 书评读模型（联表投影）
// 列表与详情接口返回书评时附带作者与图书的摘要字段
type Detail struct {
	Review
	AuthorNickname string // 作者昵称
	BookTitle      string // 图书书名
	BookAuthor     string // 图书作者
}

// RatingStats 评分聚合统计
type RatingStats struct {
	Average      float64       // 平均评分（保留1位小数）
	Count        int64         // 书评总数
	Distribution map[int]int64 // 1-5各评分的数量（缺失的评分计0）
}

// ComputeStats 根据评分集合计算聚合统计（纯函数）
// 算法：算术平均后四舍五入到1位小数（round(mean*10)/10）；
// 直方图固定包含1-5五个桶
func ComputeStats(ratings []int) RatingStats {
	stats := RatingStats{
		Distribution: map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}

	if len(ratings) == 0 {
		return stats
	}

	var sum int
	for _, r := range ratings {
		sum += r
		stats.Distribution[r]++
	}

	stats.Count = int64(len(ratings))
	mean := float64(sum) / float64(len(ratings))
	stats.Average = math.Round(mean*10) / 10

	return stats
}
