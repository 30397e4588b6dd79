// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"ai-portal-go/internal/config"
	"ai-portal-go/internal/middleware"
	"ai-portal-go/internal/model"
	"ai-portal-go/internal/repository"
	"ai-portal-go/internal/service"
	"ai-portal-go/pkg/database"
	"ai-portal-go/pkg/kafka"
	"ai-portal-go/pkg/log"
	"ai-portal-go/pkg/storage"
	"ai-portal-go/pkg/token"
)

func main() {
	configPath := "./configs/config.yaml"
	if p := os.Getenv("PORTAL_CONFIG"); p != "" {
		configPath = p
	}

	// 1. 初始化配置
	config.Init(configPath)
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库、Redis 和对象存储
	database.InitMySQL(cfg.Database.MySQL)
	if cfg.Database.MySQL.AutoMigrate {
		database.Migrate(
			&model.User{},
			&model.File{},
			&model.Tool{},
			&model.ToolUsage{},
			&model.ChatSession{},
			&model.ChatMessage{},
			&model.UserActivity{},
			&model.UserSettings{},
			&model.SystemSetting{},
		)
	}
	database.InitRedis(cfg.Database.Redis)
	objectStore := storage.InitMinIO(cfg.MinIO)

	// 4. 初始化 Repository
	userRepo := repository.NewUserRepository(database.DB)
	tokenRepo := repository.NewTokenRepository(database.RDB)
	fileRepo := repository.NewFileRepository(database.DB)
	toolRepo := repository.NewToolRepository(database.DB)
	chatRepo := repository.NewChatRepository(database.DB)
	activityRepo := repository.NewActivityRepository(database.DB)
	settingsRepo := repository.NewSettingsRepository(database.DB)

	// 5. 初始化 Service (依赖注入)
	var publisher service.ActivityPublisher
	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer = kafka.InitProducer(cfg.Kafka)
		publisher = producer
	}
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL(), cfg.JWT.RefreshTokenTTL())
	activityService := service.NewActivityService(activityRepo, publisher)
	userService := service.NewUserService(userRepo, tokenRepo, jwtManager, activityService)
	fileService := service.NewFileService(fileRepo, objectStore, service.FilePolicy{
		MaxFileSize:   cfg.Upload.MaxFileSize,
		AllowedTypes:  cfg.Upload.AllowedFileTypes,
		PublicBaseURL: cfg.Server.Host,
	}, activityService)
	toolService := service.NewToolService(toolRepo, service.StubToolRunner{}, activityService)
	chatService := service.NewChatService(chatRepo, service.StubReplier{})
	dashboardService := service.NewDashboardService(userRepo, activityRepo, toolRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	searchService := service.NewSearchService(toolRepo, fileRepo, chatRepo)

	// 6. 启动后台任务：写入默认工具、Kafka 活动消费者
	bgCtx, cancelBg := context.WithCancel(context.Background())
	defer cancelBg()
	go func() {
		if err := toolService.SeedDefaults(); err != nil {
			log.Errorf("初始化默认工具失败: %v", err)
		}
	}()
	consumerDone := make(chan struct{})
	if cfg.Kafka.Enabled {
		go func() {
			defer close(consumerDone)
			kafka.StartConsumer(bgCtx, cfg.Kafka, database.RDB, activityService)
		}()
	} else {
		close(consumerDone)
	}

	// 7. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	r.Use(middleware.RequestLogger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimit(middleware.NewRedisRateCounter(database.RDB), cfg.RateLimit.PerMinute))

	registerRoutes(r, routeDeps{
		userService:      userService,
		activityService:  activityService,
		fileService:      fileService,
		toolService:      toolService,
		chatService:      chatService,
		dashboardService: dashboardService,
		settingsService:  settingsService,
		searchService:    searchService,
		appName:          cfg.App.Name,
		appVersion:       cfg.App.Version,
	})

	// 8. 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("HTTP 服务器关闭失败: %v", err)
	}

	// 停止 Kafka 消费者并关闭生产者
	cancelBg()
	select {
	case <-consumerDone:
	case <-ctx.Done():
		log.Warnf("等待 Kafka 消费者退出超时")
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Errorf("关闭 Kafka 生产者失败: %v", err)
		}
	}
	log.Info("服务已优雅关闭")
}
