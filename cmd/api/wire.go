//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 说明：
// 1. Wire是编译期依赖注入工具，与运行时反射注入不同
// 2. 运行 `wire gen ./cmd/api` 生成wire_gen.go
// 3. 优势：零运行时开销、类型安全、编译期检测循环依赖

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	appbook "github.com/xiebiao/readly/internal/application/book"
	appreview "github.com/xiebiao/readly/internal/application/review"
	appuser "github.com/xiebiao/readly/internal/application/user"
	"github.com/xiebiao/readly/internal/domain/book"
	"github.com/xiebiao/readly/internal/domain/review"
	"github.com/xiebiao/readly/internal/domain/user"
	"github.com/xiebiao/readly/internal/infrastructure/config"
	"github.com/xiebiao/readly/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/readly/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/readly/internal/interface/http/handler"
	"github.com/xiebiao/readly/internal/interface/http/middleware"
	"github.com/xiebiao/readly/pkg/jwt"
	"github.com/xiebiao/readly/pkg/metrics"
	"github.com/xiebiao/readly/pkg/response"
)

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	config.Load,     // 加载配置文件
	mysql.NewDB,     // 创建MySQL连接
	redis.NewClient, // 创建Redis连接
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,   // 用户仓储
	mysql.NewBookRepository,   // 图书仓储
	mysql.NewReviewRepository, // 书评仓储
	mysql.NewTxManager,        // 事务管理器
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	user.NewService,   // 用户领域服务
	book.NewService,   // 图书领域服务
	review.NewService, // 书评领域服务
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewRefreshUseCase,
	appuser.NewProfileUseCase,
	appbook.NewCreateBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	appbook.NewMyBooksUseCase,
	appreview.NewCreateReviewUseCase,
	appreview.NewBookReviewsUseCase,
	appreview.NewGetReviewUseCase,
	appreview.NewUpdateReviewUseCase,
	appreview.NewDeleteReviewUseCase,
	appreview.NewMyReviewsUseCase,
)

// middlewareSet 中间件依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,
	provideSessionStore,
	provideUserCache,
	middleware.NewAuthMiddleware,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewUserHandler,
	handler.NewBookHandler,
	handler.NewReviewHandler,
)

// provideJWTManager 从配置创建JWT管理器
// Wire无法自动从Config提取嵌套参数，需要手动编写Provider
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideSessionStore 从Redis客户端创建Session存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// provideUserCache 从Redis客户端创建用户旁路缓存
func provideUserCache(cfg *config.Config, client *goredis.Client) user.Cache {
	return redis.NewUserCache(client, cfg.Redis.UserCacheTTL)
}

// provideGinEngine 创建并配置Gin引擎
func provideGinEngine(
	cfg *config.Config,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	reviewHandler *handler.ReviewHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics.InitMetrics()

	r := gin.Default()
	r.Use(metrics.GinMiddleware())

	r.GET("/metrics", metrics.Handler())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			response.Success(c, gin.H{
				"status":  "healthy",
				"service": "readly-api",
			})
		})

		auth := api.Group("/auth")
		{
			auth.POST("/register", userHandler.Register)
			auth.POST("/login", userHandler.Login)
			auth.POST("/refresh", userHandler.Refresh)
			auth.POST("/logout", authMiddleware.RequireAuth(), userHandler.Logout)
			auth.GET("/profile", authMiddleware.RequireAuth(), userHandler.GetProfile)
			auth.GET("/me", authMiddleware.RequireAuth(), userHandler.GetProfile)
			auth.PUT("/profile", authMiddleware.RequireAuth(), userHandler.UpdateProfile)
		}

		books := api.Group("/books")
		{
			books.GET("", bookHandler.List)
			books.GET("/user/my-books", authMiddleware.RequireAuth(), bookHandler.MyBooks)
			books.POST("", authMiddleware.RequireAuth(), bookHandler.Create)
			books.PUT("/:id", authMiddleware.RequireAuth(), bookHandler.Update)
			books.DELETE("/:id", authMiddleware.RequireAuth(), bookHandler.Delete)
			books.GET("/:id", bookHandler.Get)
		}

		reviews := api.Group("/reviews")
		{
			reviews.GET("/book/:bookId", reviewHandler.ListByBook)
			reviews.GET("/user/my-reviews", authMiddleware.RequireAuth(), reviewHandler.MyReviews)
			reviews.POST("", authMiddleware.RequireAuth(), reviewHandler.Create)
			reviews.PUT("/:id", authMiddleware.RequireAuth(), reviewHandler.Update)
			reviews.DELETE("/:id", authMiddleware.RequireAuth(), reviewHandler.Delete)
			reviews.GET("/:id", reviewHandler.Get)
		}
	}

	return r
}

// InitializeApp 初始化整个应用
// Wire会分析依赖链，在wire_gen.go中生成实际的初始化代码
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		provideGinEngine,
	)

	return nil, nil
}
