package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
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
	"github.com/xiebiao/readly/pkg/logger"
	"github.com/xiebiao/readly/pkg/metrics"
	"github.com/xiebiao/readly/pkg/response"
)

// main 主程序入口
// 说明：手动依赖注入（wire.go提供Wire版本的注入器）
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化日志
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.EnableCaller); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logger.Sync()

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())

	// 3. 初始化数据库连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 4. 初始化Redis连接
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 5. 初始化指标
	metrics.InitMetrics()

	// 6. 依赖注入（手动组装）
	// Repository ← Service ← UseCase ← Handler

	// 基础设施层
	userRepo := mysql.NewUserRepository(db)
	bookRepo := mysql.NewBookRepository(db)
	reviewRepo := mysql.NewReviewRepository(db)
	txManager := mysql.NewTxManager(db)
	sessionStore := redis.NewSessionStore(redisClient)
	userCache := redis.NewUserCache(redisClient, cfg.Redis.UserCacheTTL)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)

	// 领域层
	userService := user.NewService(userRepo, userCache)
	bookService := book.NewService(bookRepo)
	reviewService := review.NewService(reviewRepo, bookRepo)

	// 应用层
	registerUseCase := appuser.NewRegisterUseCase(userService)
	loginUseCase := appuser.NewLoginUseCase(userService, jwtManager, sessionStore)
	logoutUseCase := appuser.NewLogoutUseCase(jwtManager, sessionStore)
	refreshUseCase := appuser.NewRefreshUseCase(jwtManager)
	profileUseCase := appuser.NewProfileUseCase(userService)

	createBookUseCase := appbook.NewCreateBookUseCase(bookService)
	listBooksUseCase := appbook.NewListBooksUseCase(bookService)
	getBookUseCase := appbook.NewGetBookUseCase(bookService)
	updateBookUseCase := appbook.NewUpdateBookUseCase(bookService)
	deleteBookUseCase := appbook.NewDeleteBookUseCase(bookService, reviewRepo, txManager)
	myBooksUseCase := appbook.NewMyBooksUseCase(bookService)

	createReviewUseCase := appreview.NewCreateReviewUseCase(reviewService, txManager)
	bookReviewsUseCase := appreview.NewBookReviewsUseCase(reviewService)
	getReviewUseCase := appreview.NewGetReviewUseCase(reviewService)
	updateReviewUseCase := appreview.NewUpdateReviewUseCase(reviewService, txManager)
	deleteReviewUseCase := appreview.NewDeleteReviewUseCase(reviewService, txManager)
	myReviewsUseCase := appreview.NewMyReviewsUseCase(reviewService)

	// 接口层
	userHandler := handler.NewUserHandler(
		registerUseCase, loginUseCase, logoutUseCase, refreshUseCase, profileUseCase, jwtManager,
	)
	bookHandler := handler.NewBookHandler(
		createBookUseCase, listBooksUseCase, getBookUseCase,
		updateBookUseCase, deleteBookUseCase, myBooksUseCase,
	)
	reviewHandler := handler.NewReviewHandler(
		createReviewUseCase, bookReviewsUseCase, getReviewUseCase,
		updateReviewUseCase, deleteReviewUseCase, myReviewsUseCase,
	)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 7. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(metrics.GinMiddleware())

	// 8. 注册路由
	registerRoutes(r, userHandler, bookHandler, reviewHandler, authMiddleware)

	// 9. 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	fmt.Printf("\n🚀 服务启动成功！\n")
	fmt.Printf("   访问地址: http://localhost%s\n", addr)
	fmt.Printf("   健康检查: http://localhost%s/api/health\n", addr)
	fmt.Printf("   API文档: http://localhost%s/swagger/index.html\n", addr)
	fmt.Printf("\n按Ctrl+C停止服务\n\n")

	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	reviewHandler *handler.ReviewHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 监控指标
	r.GET("/metrics", metrics.Handler())

	// Swagger文档
	// 访问 http://localhost:8080/swagger/index.html 查看API文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		// 健康检查
		api.GET("/health", func(c *gin.Context) {
			response.Success(c, gin.H{
				"status":  "healthy",
				"service": "readly-api",
			})
		})

		// 认证模块
		auth := api.Group("/auth")
		{
			auth.POST("/register", userHandler.Register)
			auth.POST("/login", userHandler.Login)
			auth.POST("/refresh", userHandler.Refresh)

			// 需要登录
			auth.POST("/logout", authMiddleware.RequireAuth(), userHandler.Logout)
			auth.GET("/profile", authMiddleware.RequireAuth(), userHandler.GetProfile)
			auth.GET("/me", authMiddleware.RequireAuth(), userHandler.GetProfile)
			auth.PUT("/profile", authMiddleware.RequireAuth(), userHandler.UpdateProfile)
		}

		// 图书模块
		books := api.Group("/books")
		{
			// 公开接口
			books.GET("", bookHandler.List)

			// 需要登录（注意：my-books必须先于:id注册，避免路由冲突）
			books.GET("/user/my-books", authMiddleware.RequireAuth(), bookHandler.MyBooks)
			books.POST("", authMiddleware.RequireAuth(), bookHandler.Create)
			books.PUT("/:id", authMiddleware.RequireAuth(), bookHandler.Update)
			books.DELETE("/:id", authMiddleware.RequireAuth(), bookHandler.Delete)
			books.GET("/:id", bookHandler.Get)
		}

		// 书评模块
		reviews := api.Group("/reviews")
		{
			// 公开接口
			reviews.GET("/book/:bookId", reviewHandler.ListByBook)

			// 需要登录
			reviews.GET("/user/my-reviews", authMiddleware.RequireAuth(), reviewHandler.MyReviews)
			reviews.POST("", authMiddleware.RequireAuth(), reviewHandler.Create)
			reviews.PUT("/:id", authMiddleware.RequireAuth(), reviewHandler.Update)
			reviews.DELETE("/:id", authMiddleware.RequireAuth(), reviewHandler.Delete)
			reviews.GET("/:id", reviewHandler.Get)
		}
	}
}
