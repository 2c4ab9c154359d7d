package integration

import (
	"encoding/json"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 图书模块集成测试

// TestBookCreate 测试图书添加功能
func TestBookCreate(t *testing.T) {
	_, token := RegisterTestUser(t, "book_creator")

	t.Run("正常添加", func(t *testing.T) {
		title := GenerateTestTitle("Go实战")
		bookReq := map[string]interface{}{
			"title":          title,
			"author":         "测试作者",
			"description":    "一本讲解Go工程实践的书",
			"genre":          "技术",
			"published_year": 2024,
		}

		resp := PostJSON(t, BaseURL+"/books", bookReq, token)

		require.True(t, resp.Success, "添加图书失败: %s", resp.Message)

		var data BookData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.NotZero(t, data.ID)
		assert.Equal(t, title, data.Title)
		assert.Zero(t, data.AverageRating, "新书评分应为0")
		assert.Zero(t, data.ReviewCount, "新书书评数应为0")
	})

	t.Run("重复书名应失败", func(t *testing.T) {
		title := GenerateTestTitle("重复书名")
		AddTestBook(t, token, title)

		bookReq := map[string]interface{}{
			"title":          title,
			"author":         "另一位作者",
			"description":    "集成测试用图书",
			"genre":          "技术",
			"published_year": 2024,
		}

		resp := PostJSON(t, BaseURL+"/books", bookReq, token)

		assert.False(t, resp.Success, "重复书名应该失败")
		assert.Contains(t, resp.Message, "书名")
	})

	t.Run("未登录应被拒绝", func(t *testing.T) {
		bookReq := map[string]interface{}{
			"title":          GenerateTestTitle("未登录"),
			"author":         "测试作者",
			"description":    "集成测试用图书",
			"genre":          "技术",
			"published_year": 2024,
		}

		resp := PostJSON(t, BaseURL+"/books", bookReq, "")

		assert.False(t, resp.Success, "未登录添加图书应该被拒绝")
	})

	t.Run("出版年份超出范围应失败", func(t *testing.T) {
		bookReq := map[string]interface{}{
			"title":          GenerateTestTitle("未来之书"),
			"author":         "测试作者",
			"description":    "集成测试用图书",
			"genre":          "技术",
			"published_year": 3000,
		}

		resp := PostJSON(t, BaseURL+"/books", bookReq, token)

		assert.False(t, resp.Success, "出版年份超出范围应该失败")
	})
}

// TestBookList 测试图书列表与筛选
func TestBookList(t *testing.T) {
	_, token := RegisterTestUser(t, "book_lister")

	// 准备一个可以精确筛选的流派
	genre := fmt.Sprintf("集成测试流派%d", time.Now().UnixNano())
	genreQuery := url.QueryEscape(genre)
	for i := 0; i < 6; i++ {
		bookReq := map[string]interface{}{
			"title":          GenerateTestTitle(fmt.Sprintf("列表测试%d", i)),
			"author":         "列表测试作者",
			"description":    "集成测试用图书",
			"genre":          genre,
			"published_year": 2024,
		}
		resp := PostJSON(t, BaseURL+"/books", bookReq, token)
		require.True(t, resp.Success, "准备数据失败: %s", resp.Message)
	}

	t.Run("默认分页每页5条", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/books?genre="+genreQuery, "")

		require.True(t, resp.Success, "查询失败: %s", resp.Message)

		var data BookListData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Len(t, data.Books, 5, "默认每页5条")
		assert.Equal(t, int64(6), data.Pagination.TotalBooks)
		assert.Equal(t, 2, data.Pagination.TotalPages)
		assert.True(t, data.Pagination.HasNext)
		assert.False(t, data.Pagination.HasPrev)
	})

	t.Run("第二页剩余1条", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/books?genre="+genreQuery+"&page=2", "")

		require.True(t, resp.Success)

		var data BookListData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Len(t, data.Books, 1)
		assert.False(t, data.Pagination.HasNext)
		assert.True(t, data.Pagination.HasPrev)
	})

	t.Run("按书名模糊筛选", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/books?genre="+genreQuery+"&title="+url.QueryEscape("列表测试3"), "")

		require.True(t, resp.Success)

		var data BookListData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		require.Len(t, data.Books, 1)
		assert.Contains(t, data.Books[0].Title, "列表测试3")
	})

	t.Run("列表无需登录", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/books", "")
		assert.True(t, resp.Success, "图书列表应公开访问")
	})
}

// TestBookUpdate 测试图书更新与所有权
func TestBookUpdate(t *testing.T) {
	_, ownerToken := RegisterTestUser(t, "book_owner")
	_, otherToken := RegisterTestUser(t, "book_other")

	bookID := AddTestBook(t, ownerToken, GenerateTestTitle("待更新"))
	bookURL := fmt.Sprintf("%s/books/%d", BaseURL, bookID)

	t.Run("创建者可以部分更新", func(t *testing.T) {
		resp := PutJSON(t, bookURL, map[string]interface{}{"genre": "哲学"}, ownerToken)

		require.True(t, resp.Success, "更新失败: %s", resp.Message)

		var data BookData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, "哲学", data.Genre)
		assert.Equal(t, "测试作者", data.Author, "未传的字段不应被修改")
	})

	t.Run("非创建者更新应被拒绝", func(t *testing.T) {
		resp := PutJSON(t, bookURL, map[string]interface{}{"genre": "小说"}, otherToken)

		assert.False(t, resp.Success, "非创建者更新应该失败")
	})

	t.Run("图书不存在", func(t *testing.T) {
		resp := PutJSON(t, BaseURL+"/books/99999999", map[string]interface{}{"genre": "小说"}, ownerToken)

		assert.False(t, resp.Success)
		assert.Contains(t, resp.Message, "图书不存在")
	})

	t.Run("非法ID参数", func(t *testing.T) {
		resp := PutJSON(t, BaseURL+"/books/abc", map[string]interface{}{"genre": "小说"}, ownerToken)

		assert.False(t, resp.Success)
	})
}

// TestBookDelete 测试图书删除与书评级联
func TestBookDelete(t *testing.T) {
	_, ownerToken := RegisterTestUser(t, "del_owner")
	_, reviewerToken := RegisterTestUser(t, "del_reviewer")

	bookID := AddTestBook(t, ownerToken, GenerateTestTitle("待删除"))
	AddTestReview(t, reviewerToken, bookID, 5)

	t.Run("非创建者删除应被拒绝", func(t *testing.T) {
		resp := DeleteJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), reviewerToken)
		assert.False(t, resp.Success, "非创建者删除应该失败")
	})

	t.Run("创建者删除并级联删除书评", func(t *testing.T) {
		resp := DeleteJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), ownerToken)

		require.True(t, resp.Success, "删除失败: %s", resp.Message)

		var data DeleteBookData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, int64(1), data.DeletedReviews, "应级联删除1条书评")

		// 删除后详情不可见
		detailResp := GetJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), "")
		assert.False(t, detailResp.Success)
	})
}

// TestMyBooks 测试我的图书列表
func TestMyBooks(t *testing.T) {
	_, token := RegisterTestUser(t, "my_books")

	AddTestBook(t, token, GenerateTestTitle("我的书1"))
	AddTestBook(t, token, GenerateTestTitle("我的书2"))

	resp := GetJSON(t, BaseURL+"/books/user/my-books", token)
	require.True(t, resp.Success, "查询失败: %s", resp.Message)

	var data struct {
		Books []BookData `json:"books"`
		Total int64      `json:"total"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, int64(2), data.Total)
	assert.Len(t, data.Books, 2)
}
