package dto

// CreateBookRequest HTTP层创建图书请求
// 说明：字段规则(长度/年份范围)由领域服务按字段顺序校验;
// average_rating/review_count等派生字段即使传入也被忽略
type CreateBookRequest struct {
	Title         string `json:"title" binding:"required"`
	Author        string `json:"author" binding:"required"`
	Description   string `json:"description" binding:"required"`
	Genre         string `json:"genre" binding:"required"`
	PublishedYear int    `json:"published_year" binding:"required"`
}

// UpdateBookRequest HTTP层更新图书请求（部分更新,nil字段不修改）
type UpdateBookRequest struct {
	Title         *string `json:"title"`
	Author        *string `json:"author"`
	Description   *string `json:"description"`
	Genre         *string `json:"genre"`
	PublishedYear *int    `json:"published_year"`
}

// ListBooksQuery 图书列表查询参数
type ListBooksQuery struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Genre  string `form:"genre"`
	Author string `form:"author"`
	Title  string `form:"title"`
}
