package book

import (
	"context"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/xiebiao/readly/pkg/errors"
)

// Service 图书领域服务接口
// 设计说明：
// 1. 领域服务封装字段校验、所有权校验等业务规则
// 2. 不依赖具体的Repository实现（依赖倒置）
type Service interface {
	// CreateBook 创建图书
	// 业务规则：
	// - 书名trim后1-200字符，且全局唯一
	// - 作者1-100字符、简介10-2000字符、分类1-50字符
	// - 出版年份在1000到当前年份之间
	CreateBook(ctx context.Context, params CreateParams, userID uint) (*Book, error)

	// GetBookByID 根据ID获取图书详情
	GetBookByID(ctx context.Context, id uint) (*Book, error)

	// ListBooks 分页查询图书列表（公开接口）
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// UpdateBook 部分更新图书信息
	// 业务规则：只有创建者可以编辑；只校验并应用传入的字段
	UpdateBook(ctx context.Context, id uint, userID uint, update UpdateParams) (*Book, error)

	// DeleteBook 删除图书
	// 业务规则：只有创建者可以删除
	// 注意：书评级联删除由应用层在同一事务中完成
	DeleteBook(ctx context.Context, id uint, userID uint) error

	// ListUserBooks 查询某用户创建的图书
	ListUserBooks(ctx context.Context, userID uint) ([]*Book, error)
}

// CreateParams 创建图书参数
// PublishedYear的"可解析为整数"由HTTP层的JSON绑定保证，Service只做范围校验
type CreateParams struct {
	Title         string
	Author        string
	Description   string
	Genre         string
	PublishedYear int
}

// UpdateParams 部分更新参数
// nil字段表示不修改
type UpdateParams struct {
	Title         *string
	Author        *string
	Description   *string
	Genre         *string
	PublishedYear *int
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateBook 创建图书
// 校验顺序与字段声明顺序一致，遇到第一个违规立即返回
func (s *service) CreateBook(ctx context.Context, params CreateParams, userID uint) (*Book, error) {
	title, err := sanitizeTitle(params.Title)
	if err != nil {
		return nil, err
	}
	author, err := sanitizeAuthor(params.Author)
	if err != nil {
		return nil, err
	}
	description, err := sanitizeDescription(params.Description)
	if err != nil {
		return nil, err
	}
	genre, err := sanitizeGenre(params.Genre)
	if err != nil {
		return nil, err
	}
	if err := validatePublishedYear(params.PublishedYear); err != nil {
		return nil, err
	}

	b := NewBook(title, author, description, genre, params.PublishedYear, userID)

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err // 书名重复已由Repository转换为ErrTitleDuplicate
	}

	return b, nil
}

// GetBookByID 根据ID获取图书
func (s *service) GetBookByID(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// ListBooks 分页查询图书列表
func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 5 // 默认每页5条
	}
	return s.repo.List(ctx, params)
}

// UpdateBook 部分更新图书信息
func (s *service) UpdateBook(ctx context.Context, id uint, userID uint, update UpdateParams) (*Book, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 权限检查：只有创建者可以编辑
	if !b.IsOwnedBy(userID) {
		return nil, ErrNotOwnerEdit
	}

	// 只校验并应用传入的字段，规则与创建时一致
	if update.Title != nil {
		title, err := sanitizeTitle(*update.Title)
		if err != nil {
			return nil, err
		}
		b.Title = title
	}
	if update.Author != nil {
		author, err := sanitizeAuthor(*update.Author)
		if err != nil {
			return nil, err
		}
		b.Author = author
	}
	if update.Description != nil {
		description, err := sanitizeDescription(*update.Description)
		if err != nil {
			return nil, err
		}
		b.Description = description
	}
	if update.Genre != nil {
		genre, err := sanitizeGenre(*update.Genre)
		if err != nil {
			return nil, err
		}
		b.Genre = genre
	}
	if update.PublishedYear != nil {
		if err := validatePublishedYear(*update.PublishedYear); err != nil {
			return nil, err
		}
		b.PublishedYear = *update.PublishedYear
	}
	b.Touch()

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

// DeleteBook 删除图书
func (s *service) DeleteBook(ctx context.Context, id uint, userID uint) error {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// 权限检查：只有创建者可以删除
	if !b.IsOwnedBy(userID) {
		return ErrNotOwnerDelete
	}

	return s.repo.Delete(ctx, id)
}

// ListUserBooks 查询某用户创建的图书
func (s *service) ListUserBooks(ctx context.Context, userID uint) ([]*Book, error) {
	return s.repo.ListByUser(ctx, userID)
}

// =========================================
// 辅助函数：字段校验
// =========================================

// sanitizeStringField 通用字符串字段规整：trim后长度在[min, max]内
func sanitizeStringField(value, label string, min, max int) (string, error) {
	value = strings.TrimSpace(value)
	n := utf8.RuneCountInString(value)
	if n < min || n > max {
		return "", apperrors.New(apperrors.ErrCodeInvalidParams,
			label+"长度应为"+strconv.Itoa(min)+"-"+strconv.Itoa(max)+"个字符")
	}
	return value, nil
}

func sanitizeTitle(title string) (string, error) {
	return sanitizeStringField(title, "书名", 1, 200)
}

func sanitizeAuthor(author string) (string, error) {
	return sanitizeStringField(author, "作者", 1, 100)
}

func sanitizeDescription(description string) (string, error) {
	return sanitizeStringField(description, "简介", 10, 2000)
}

func sanitizeGenre(genre string) (string, error) {
	return sanitizeStringField(genre, "分类", 1, 50)
}

// validatePublishedYear 出版年份校验：在[1000, 当前年份]内
func validatePublishedYear(year int) error {
	currentYear := time.Now().Year()
	if year < 1000 || year > currentYear {
		return apperrors.New(apperrors.ErrCodeInvalidParams,
			"出版年份应在1000到"+strconv.Itoa(currentYear)+"之间")
	}
	return nil
}
