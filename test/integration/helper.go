package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 集成测试辅助工具
// 将重复的HTTP请求与JSON解析封装成可复用的函数，测试代码只关注业务断言
//
// 运行方式：
//   make test-integration   # 需要先启动Docker环境
//   go test -v ./test/integration/...

const (
	// BaseURL API基础URL
	BaseURL = "http://localhost:8080/api"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

// Response 统一响应结构
type Response struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// UserData 用户信息
type UserData struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// RegisterData 注册响应数据
type RegisterData struct {
	User UserData `json:"user"`
}

// LoginData 登录响应数据
type LoginData struct {
	User         UserData `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"`
}

// BookData 图书响应数据
type BookData struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Description   string  `json:"description"`
	Genre         string  `json:"genre"`
	PublishedYear int     `json:"published_year"`
	AddedBy       uint    `json:"added_by"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

// BookListData 图书列表响应数据
type BookListData struct {
	Books      []BookData `json:"books"`
	Pagination struct {
		CurrentPage int   `json:"current_page"`
		TotalPages  int   `json:"total_pages"`
		TotalBooks  int64 `json:"total_books"`
		Limit       int   `json:"limit"`
		HasNext     bool  `json:"has_next"`
		HasPrev     bool  `json:"has_prev"`
	} `json:"pagination"`
}

// DeleteBookData 图书删除响应数据
type DeleteBookData struct {
	DeletedReviews int64 `json:"deleted_reviews"`
}

// ReviewData 书评响应数据
type ReviewData struct {
	ID         uint   `json:"id"`
	BookID     uint   `json:"book_id"`
	UserID     uint   `json:"user_id"`
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text"`
}

// BookReviewsData 图书书评列表响应数据
type BookReviewsData struct {
	Reviews []struct {
		ReviewData
		AuthorNickname string `json:"author_nickname"`
		BookTitle      string `json:"book_title"`
	} `json:"reviews"`
	Stats struct {
		AverageRating float64          `json:"average_rating"`
		TotalReviews  int64            `json:"total_reviews"`
		Distribution  map[string]int64 `json:"distribution"`
	} `json:"stats"`
}

// doJSON 发送HTTP请求并解析统一响应
// token非空时通过Authorization头携带（Cookie由浏览器端使用）
func doJSON(t *testing.T, method, url string, data interface{}, token string) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(raw, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(raw))

	return &result
}

// PostJSON 发送POST请求并解析JSON响应
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	return doJSON(t, http.MethodPost, url, data, token)
}

// GetJSON 发送GET请求并解析JSON响应
func GetJSON(t *testing.T, url string, token string) *Response {
	return doJSON(t, http.MethodGet, url, nil, token)
}

// PutJSON 发送PUT请求并解析JSON响应
func PutJSON(t *testing.T, url string, data interface{}, token string) *Response {
	return doJSON(t, http.MethodPut, url, data, token)
}

// DeleteJSON 发送DELETE请求并解析JSON响应
func DeleteJSON(t *testing.T, url string, token string) *Response {
	return doJSON(t, http.MethodDelete, url, nil, token)
}

// GenerateTestEmail 生成唯一的测试邮箱
// 使用纳秒时间戳确保唯一性，避免测试重复运行时邮箱冲突
func GenerateTestEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@test.com", prefix, time.Now().UnixNano())
}

// GenerateTestTitle 生成唯一的测试书名（书名全局唯一）
func GenerateTestTitle(prefix string) string {
	return fmt.Sprintf("《%s-%d》", prefix, time.Now().UnixNano())
}

// RegisterTestUser 注册测试用户并返回Token
// 封装注册+登录的完整流程，让测试更关注业务逻辑
func RegisterTestUser(t *testing.T, nickname string) (email string, token string) {
	t.Helper()

	email = GenerateTestEmail(nickname)
	registerReq := map[string]string{
		"email":    email,
		"password": "Test1234",
		"nickname": nickname,
	}

	registerResp := PostJSON(t, BaseURL+"/auth/register", registerReq, "")
	require.True(t, registerResp.Success, "注册失败: %s", registerResp.Message)

	loginReq := map[string]string{
		"email":    email,
		"password": "Test1234",
	}

	loginResp := PostJSON(t, BaseURL+"/auth/login", loginReq, "")
	require.True(t, loginResp.Success, "登录失败: %s", loginResp.Message)

	var loginData LoginData
	err := json.Unmarshal(loginResp.Data, &loginData)
	require.NoError(t, err, "解析登录响应失败")

	return email, loginData.AccessToken
}

// AddTestBook 添加测试图书并返回图书ID
func AddTestBook(t *testing.T, token string, title string) uint {
	t.Helper()

	bookReq := map[string]interface{}{
		"title":          title,
		"author":         "测试作者",
		"description":    "集成测试用图书",
		"genre":          "技术",
		"published_year": 2024,
	}

	bookResp := PostJSON(t, BaseURL+"/books", bookReq, token)
	require.True(t, bookResp.Success, "添加图书失败: %s", bookResp.Message)

	var bookData BookData
	err := json.Unmarshal(bookResp.Data, &bookData)
	require.NoError(t, err, "解析图书响应失败")

	return bookData.ID
}

// AddTestReview 创建测试书评并返回书评ID
func AddTestReview(t *testing.T, token string, bookID uint, rating int) uint {
	t.Helper()

	reviewReq := map[string]interface{}{
		"book_id":     bookID,
		"rating":      rating,
		"review_text": "这本书内容翔实，讲解透彻，值得反复阅读。",
	}

	reviewResp := PostJSON(t, BaseURL+"/reviews", reviewReq, token)
	require.True(t, reviewResp.Success, "创建书评失败: %s", reviewResp.Message)

	var reviewData ReviewData
	err := json.Unmarshal(reviewResp.Data, &reviewData)
	require.NoError(t, err, "解析书评响应失败")

	return reviewData.ID
}
