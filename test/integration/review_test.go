package integration

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 书评模块集成测试
// 重点验证：一人一书一评、评分聚合实时重算、所有权控制

const reviewText = "这本书内容翔实，讲解透彻，值得反复阅读。"

// TestReviewCreate 测试创建书评
func TestReviewCreate(t *testing.T) {
	_, ownerToken := RegisterTestUser(t, "rv_book_owner")
	_, reviewerToken := RegisterTestUser(t, "rv_reviewer")

	bookID := AddTestBook(t, ownerToken, GenerateTestTitle("书评测试"))

	t.Run("正常创建并更新聚合", func(t *testing.T) {
		reviewReq := map[string]interface{}{
			"book_id":     bookID,
			"rating":      4,
			"review_text": reviewText,
		}

		resp := PostJSON(t, BaseURL+"/reviews", reviewReq, reviewerToken)

		require.True(t, resp.Success, "创建书评失败: %s", resp.Message)

		var data ReviewData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.NotZero(t, data.ID)
		assert.Equal(t, 4, data.Rating)

		// 图书聚合应实时重算
		bookResp := GetJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), "")
		require.True(t, bookResp.Success)

		var book BookData
		require.NoError(t, json.Unmarshal(bookResp.Data, &book))
		assert.Equal(t, 4.0, book.AverageRating)
		assert.Equal(t, int64(1), book.ReviewCount)
	})

	t.Run("同一本书重复评论应失败", func(t *testing.T) {
		reviewReq := map[string]interface{}{
			"book_id":     bookID,
			"rating":      5,
			"review_text": reviewText,
		}

		resp := PostJSON(t, BaseURL+"/reviews", reviewReq, reviewerToken)

		assert.False(t, resp.Success, "重复评论应该失败")
		assert.Contains(t, resp.Message, "评论过")
	})

	t.Run("评分超出范围应失败", func(t *testing.T) {
		_, anotherToken := RegisterTestUser(t, "rv_bad_rating")
		reviewReq := map[string]interface{}{
			"book_id":     bookID,
			"rating":      6,
			"review_text": reviewText,
		}

		resp := PostJSON(t, BaseURL+"/reviews", reviewReq, anotherToken)

		assert.False(t, resp.Success, "评分超出范围应该失败")
	})

	t.Run("正文过短应失败", func(t *testing.T) {
		_, anotherToken := RegisterTestUser(t, "rv_short_text")
		reviewReq := map[string]interface{}{
			"book_id":     bookID,
			"rating":      4,
			"review_text": "太短",
		}

		resp := PostJSON(t, BaseURL+"/reviews", reviewReq, anotherToken)

		assert.False(t, resp.Success, "正文过短应该失败")
	})

	t.Run("图书不存在应失败", func(t *testing.T) {
		reviewReq := map[string]interface{}{
			"book_id":     99999999,
			"rating":      4,
			"review_text": reviewText,
		}

		resp := PostJSON(t, BaseURL+"/reviews", reviewReq, reviewerToken)

		assert.False(t, resp.Success)
		assert.Contains(t, resp.Message, "图书不存在")
	})

	t.Run("未登录应被拒绝", func(t *testing.T) {
		reviewReq := map[string]interface{}{
			"book_id":     bookID,
			"rating":      4,
			"review_text": reviewText,
		}

		resp := PostJSON(t, BaseURL+"/reviews", reviewReq, "")

		assert.False(t, resp.Success, "未登录创建书评应该被拒绝")
	})
}

// TestReviewAggregation 测试多人评分的聚合计算
func TestReviewAggregation(t *testing.T) {
	_, ownerToken := RegisterTestUser(t, "agg_owner")
	bookID := AddTestBook(t, ownerToken, GenerateTestTitle("聚合测试"))

	// 三个用户分别打5、4、3分
	for i, rating := range []int{5, 4, 3} {
		_, token := RegisterTestUser(t, fmt.Sprintf("agg_user%d", i))
		AddTestReview(t, token, bookID, rating)
	}

	t.Run("平均分保留1位小数", func(t *testing.T) {
		bookResp := GetJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), "")
		require.True(t, bookResp.Success)

		var book BookData
		require.NoError(t, json.Unmarshal(bookResp.Data, &book))
		assert.Equal(t, 4.0, book.AverageRating)
		assert.Equal(t, int64(3), book.ReviewCount)
	})

	t.Run("书评列表携带评分直方图", func(t *testing.T) {
		resp := GetJSON(t, fmt.Sprintf("%s/reviews/book/%d", BaseURL, bookID), "")
		require.True(t, resp.Success, "查询书评失败: %s", resp.Message)

		var data BookReviewsData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Len(t, data.Reviews, 3)
		assert.Equal(t, 4.0, data.Stats.AverageRating)
		assert.Equal(t, int64(3), data.Stats.TotalReviews)
		assert.Equal(t, int64(1), data.Stats.Distribution["5"])
		assert.Equal(t, int64(0), data.Stats.Distribution["1"])
		assert.NotEmpty(t, data.Reviews[0].AuthorNickname, "书评应附作者昵称")
	})
}

// TestReviewUpdate 测试书评更新
func TestReviewUpdate(t *testing.T) {
	_, ownerToken := RegisterTestUser(t, "upd_owner")
	_, reviewerToken := RegisterTestUser(t, "upd_reviewer")
	_, otherToken := RegisterTestUser(t, "upd_other")

	bookID := AddTestBook(t, ownerToken, GenerateTestTitle("更新书评"))
	reviewID := AddTestReview(t, reviewerToken, bookID, 4)
	reviewURL := fmt.Sprintf("%s/reviews/%d", BaseURL, reviewID)

	t.Run("作者修改评分后聚合重算", func(t *testing.T) {
		resp := PutJSON(t, reviewURL, map[string]interface{}{"rating": 2}, reviewerToken)

		require.True(t, resp.Success, "更新书评失败: %s", resp.Message)

		bookResp := GetJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), "")
		require.True(t, bookResp.Success)

		var book BookData
		require.NoError(t, json.Unmarshal(bookResp.Data, &book))
		assert.Equal(t, 2.0, book.AverageRating)
	})

	t.Run("非作者修改应被拒绝", func(t *testing.T) {
		resp := PutJSON(t, reviewURL, map[string]interface{}{"rating": 5}, otherToken)
		assert.False(t, resp.Success, "非作者修改应该失败")
	})
}

// TestReviewDelete 测试书评删除
func TestReviewDelete(t *testing.T) {
	_, ownerToken := RegisterTestUser(t, "del_rv_owner")
	_, reviewerToken := RegisterTestUser(t, "del_rv_reviewer")
	_, otherToken := RegisterTestUser(t, "del_rv_other")

	bookID := AddTestBook(t, ownerToken, GenerateTestTitle("删除书评"))
	reviewID := AddTestReview(t, reviewerToken, bookID, 5)
	reviewURL := fmt.Sprintf("%s/reviews/%d", BaseURL, reviewID)

	t.Run("非作者删除应被拒绝", func(t *testing.T) {
		resp := DeleteJSON(t, reviewURL, otherToken)
		assert.False(t, resp.Success, "非作者删除应该失败")
	})

	t.Run("作者删除后聚合归零且可重新评论", func(t *testing.T) {
		resp := DeleteJSON(t, reviewURL, reviewerToken)
		require.True(t, resp.Success, "删除书评失败: %s", resp.Message)

		bookResp := GetJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), "")
		require.True(t, bookResp.Success)

		var book BookData
		require.NoError(t, json.Unmarshal(bookResp.Data, &book))
		assert.Zero(t, book.AverageRating)
		assert.Zero(t, book.ReviewCount)

		// 删除自己的书评后可以重新评论
		AddTestReview(t, reviewerToken, bookID, 3)
	})
}

// TestMyReviews 测试我的书评列表
func TestMyReviews(t *testing.T) {
	_, ownerToken := RegisterTestUser(t, "my_rv_owner")
	_, reviewerToken := RegisterTestUser(t, "my_rv_user")

	book1 := AddTestBook(t, ownerToken, GenerateTestTitle("我的书评1"))
	book2 := AddTestBook(t, ownerToken, GenerateTestTitle("我的书评2"))
	AddTestReview(t, reviewerToken, book1, 5)
	AddTestReview(t, reviewerToken, book2, 3)

	resp := GetJSON(t, BaseURL+"/reviews/user/my-reviews", reviewerToken)
	require.True(t, resp.Success, "查询失败: %s", resp.Message)

	var data struct {
		Reviews []struct {
			ReviewData
			BookTitle string `json:"book_title"`
		} `json:"reviews"`
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, int64(2), data.Total)
	require.Len(t, data.Reviews, 2)
	assert.NotEmpty(t, data.Reviews[0].BookTitle, "书评应附图书标题")
}
