package main

import (
	"github.com/gin-gonic/gin"

	"ai-portal-go/internal/handler"
	"ai-portal-go/internal/middleware"
	"ai-portal-go/internal/service"
)

type routeDeps struct {
	userService      service.UserService
	activityService  service.ActivityService
	fileService      service.FileService
	toolService      service.ToolService
	chatService      service.ChatService
	dashboardService service.DashboardService
	settingsService  service.SettingsService
	searchService    service.SearchService
	appName          string
	appVersion       string
}

// registerRoutes 注册所有 HTTP 路由。
func registerRoutes(r *gin.Engine, d routeDeps) {
	authRequired := middleware.AuthMiddleware(d.userService)
	adminRequired := middleware.AdminAuthMiddleware()

	health := handler.NewHealthHandler(d.appName, d.appVersion)
	r.GET("/", health.Root)
	r.GET("/health", health.Health)

	authHandler := handler.NewAuthHandler(d.userService)
	userHandler := handler.NewUserHandler(d.userService)
	fileHandler := handler.NewFileHandler(d.fileService)
	toolHandler := handler.NewToolHandler(d.toolService)
	chatHandler := handler.NewChatHandler(d.chatService)
	chatSocketHandler := handler.NewChatSocketHandler(d.chatService, d.userService)
	dashboardHandler := handler.NewDashboardHandler(d.dashboardService, d.activityService)
	settingsHandler := handler.NewSettingsHandler(d.settingsService)
	searchHandler := handler.NewSearchHandler(d.searchService)

	apiV1 := r.Group("/api/v1")
	{
		// Auth 路由组
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)

			authed := auth.Group("")
			authed.Use(authRequired)
			{
				authed.GET("/me", userHandler.GetProfile)
				authed.PUT("/me", userHandler.UpdateProfile)
				authed.POST("/logout", authHandler.Logout)
				authed.POST("/change-password", userHandler.ChangePassword)
			}
		}

		// Files 路由组，公开下载无需认证
		files := apiV1.Group("/files")
		files.GET("/:id/public", fileHandler.DownloadPublic)
		filesAuthed := files.Group("")
		filesAuthed.Use(authRequired)
		{
			filesAuthed.POST("/upload", fileHandler.Upload)
			filesAuthed.GET("", fileHandler.List)
			filesAuthed.GET("/:id", fileHandler.Get)
			filesAuthed.DELETE("/:id", fileHandler.Delete)
			filesAuthed.GET("/:id/download", fileHandler.Download)
			filesAuthed.POST("/:id/share", fileHandler.Share)
		}

		// AI 工具路由组，浏览无需认证
		tools := apiV1.Group("/ai-tools")
		{
			tools.GET("", toolHandler.List)
			tools.GET("/categories", toolHandler.Categories)
			tools.GET("/hot/list", toolHandler.Hot)
			tools.GET("/user/usage", authRequired, toolHandler.UserUsage)
			tools.GET("/:toolId", toolHandler.Get)
			tools.GET("/:toolId/related", toolHandler.Related)
			tools.POST("/:toolId/use", authRequired, toolHandler.Use)
		}

		// Chat 路由组，WebSocket 通过路径参数携带 token
		chat := apiV1.Group("/chat")
		chat.GET("/ws/:token", chatSocketHandler.Handle)
		chat.GET("/models", chatHandler.Models)
		chatAuthed := chat.Group("")
		chatAuthed.Use(authRequired)
		{
			chatAuthed.POST("/sessions", chatHandler.CreateSession)
			chatAuthed.GET("/sessions", chatHandler.ListSessions)
			chatAuthed.GET("/sessions/:sessionId", chatHandler.GetSession)
			chatAuthed.DELETE("/sessions/:sessionId", chatHandler.DeleteSession)
			chatAuthed.GET("/sessions/:sessionId/messages", chatHandler.ListMessages)
			chatAuthed.POST("/sessions/:sessionId/messages", chatHandler.SendMessage)
			chatAuthed.DELETE("/sessions/:sessionId/messages", chatHandler.ClearMessages)
		}

		// Dashboard 路由组
		dashboard := apiV1.Group("/dashboard")
		dashboard.Use(authRequired)
		{
			dashboard.GET("/stats", dashboardHandler.Stats)
			dashboard.GET("/user/stats", dashboardHandler.UserStats)
			dashboard.GET("/trends", dashboardHandler.Trends)
			dashboard.POST("/activity", dashboardHandler.RecordActivity)
		}

		// Settings 路由组
		settings := apiV1.Group("/settings")
		{
			settings.GET("/system/public", settingsHandler.PublicSystemSettings)
			settings.GET("/themes", settingsHandler.Themes)
			settings.GET("/languages", settingsHandler.Languages)
			settings.GET("/user", authRequired, settingsHandler.GetUserSettings)
			settings.PUT("/user", authRequired, settingsHandler.UpdateUserSettings)

			// 管理员路由组，需要同时通过认证和管理员授权两个中间件
			system := settings.Group("/system")
			system.Use(authRequired, adminRequired)
			{
				system.GET("", settingsHandler.ListSystemSettings)
				system.PUT("/:key", settingsHandler.UpsertSystemSetting)
				system.DELETE("/:key", settingsHandler.DeleteSystemSetting)
			}
		}

		// Search 路由组
		searchGroup := apiV1.Group("/search")
		searchGroup.Use(authRequired)
		{
			searchGroup.GET("", searchHandler.Search)
			searchGroup.GET("/suggestions", searchHandler.Suggestions)
		}
	}
}
