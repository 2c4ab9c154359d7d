package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/readly/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.Database.DSN()

	// 开发环境打印SQL
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// 注意：AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&BookModel{},
		&ReviewModel{},
	)
}

// UserModel GORM用户模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/user/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Nickname  string         `gorm:"size:50;not null;comment:昵称"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// BookModel GORM图书模型
// 设计说明:
// 1. Title有唯一索引,防止重复录入
// 2. AddedBy关联用户表,支持查询某用户创建的所有图书
// 3. AverageRating/ReviewCount是派生列,只由聚合重算写入
// 4. Genre/Author加索引优化列表过滤性能
type BookModel struct {
	ID            uint           `gorm:"primaryKey"`
	Title         string         `gorm:"uniqueIndex;size:200;not null;comment:书名"`
	Author        string         `gorm:"index;size:100;not null;comment:作者"`
	Description   string         `gorm:"type:text;not null;comment:图书简介"`
	Genre         string         `gorm:"index;size:50;not null;comment:分类"`
	PublishedYear int            `gorm:"not null;comment:出版年份"`
	AddedBy       uint           `gorm:"index;not null;comment:创建者用户ID"`
	AverageRating float64        `gorm:"not null;default:0;comment:平均评分(保留1位小数)"`
	ReviewCount   int64          `gorm:"not null;default:0;comment:书评数量"`
	CreatedAt     time.Time      `gorm:"index;comment:创建时间"` // 列表排序索引
	UpdatedAt     time.Time      `gorm:"comment:更新时间"`
	DeletedAt     gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// ReviewModel GORM书评模型
// 设计说明:
// 1. (user_id, book_id)复合唯一索引保证一人一书一评
// 2. 不使用软删除:删除后允许同一用户重新评论(软删除会被唯一索引挡住)
// 3. BookID单独加索引,服务按书查询与聚合重算
type ReviewModel struct {
	ID         uint      `gorm:"primaryKey"`
	BookID     uint      `gorm:"uniqueIndex:idx_user_book;index;not null;comment:图书ID"`
	UserID     uint      `gorm:"uniqueIndex:idx_user_book,priority:1;not null;comment:用户ID"`
	Rating     int       `gorm:"type:tinyint;not null;comment:评分(1-5)"`
	ReviewText string    `gorm:"type:text;not null;comment:书评正文"`
	CreatedAt  time.Time `gorm:"index;comment:创建时间"`
	UpdatedAt  time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (ReviewModel) TableName() string {
	return "reviews"
}
