package dto

// CreateReviewRequest HTTP层创建书评请求
// 评分范围与正文长度由领域服务校验
type CreateReviewRequest struct {
	BookID     uint   `json:"book_id" binding:"required"`
	Rating     int    `json:"rating" binding:"required"`
	ReviewText string `json:"review_text" binding:"required"`
}

// UpdateReviewRequest HTTP层更新书评请求（部分更新,nil字段不修改）
type UpdateReviewRequest struct {
	Rating     *int    `json:"rating"`
	ReviewText *string `json:"review_text"`
}
