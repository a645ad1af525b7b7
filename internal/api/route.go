package api

import (
	"Atrium/internal/api/middleware"
	"Atrium/internal/model"
	"Atrium/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/otp", group.AuthHandler.SendOtp)
			authGroup.POST("/register", group.AuthHandler.Register)
			authGroup.POST("/login", group.AuthHandler.LoginPassword)
			authGroup.POST("/login/otp", group.AuthHandler.LoginOtp)

			loggedGroup := authGroup.Group("")
			loggedGroup.Use(middleware.AuthMiddleware())
			{
				loggedGroup.POST("/logout", group.AuthHandler.Logout)
			}
		}

		userGroup := apiGroup.Group("/users")
		{
			userGroup.GET("/:id", group.UserHandler.GetUser)

			selfGroup := userGroup.Group("")
			selfGroup.Use(middleware.AuthMiddleware())
			{
				selfGroup.GET("/me", group.UserHandler.Me)
				selfGroup.PUT("/me", group.UserHandler.UpdateProfile)
				selfGroup.PUT("/me/password", group.UserHandler.UpdatePassword)
				selfGroup.POST("/me/avatar", group.UserHandler.UploadAvatar)
			}
		}

		adminGroup := apiGroup.Group("/admin")
		adminGroup.Use(middleware.AuthMiddleware(), middleware.RequireAdmin())
		{
			adminGroup.POST("/broadcast", group.AdminHandler.Broadcast)

			adminUserGroup := adminGroup.Group("/users")
			{
				adminUserGroup.GET("", group.AdminHandler.ListUsers)
				adminUserGroup.PUT("/:id/status", group.AdminHandler.UpdateStatus)
				adminUserGroup.PUT("/:id/role", group.AdminHandler.UpdateRole)
				adminUserGroup.PUT("/:id/caps", group.AdminHandler.UpdateCaps)
				adminUserGroup.DELETE("/:id", group.AdminHandler.DeleteUser)
			}
		}

		employeeGroup := apiGroup.Group("/employees")
		{
			employeeGroup.GET("", group.EmployeeHandler.ListEmployees)
			employeeGroup.GET("/:id", group.EmployeeHandler.GetEmployee)

			manageGroup := employeeGroup.Group("")
			manageGroup.Use(middleware.AuthMiddleware(), middleware.RequireCapability(model.CapManageEmployees))
			{
				manageGroup.POST("", group.EmployeeHandler.CreateEmployee)
				manageGroup.PUT("/:id", group.EmployeeHandler.UpdateEmployee)
				manageGroup.POST("/:id/photo", group.EmployeeHandler.UploadPhoto)
				manageGroup.POST("/:id/certificate", group.EmployeeHandler.UploadCertificate)
				manageGroup.DELETE("/:id", group.EmployeeHandler.DeleteEmployee)
			}
		}

		articleGroup := apiGroup.Group("/articles")
		{
			authOptGroup := articleGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("", group.ArticleHandler.ListArticles)
				authOptGroup.GET("/:id", group.ArticleHandler.GetArticle)
			}

			writeGroup := articleGroup.Group("")
			writeGroup.Use(middleware.AuthMiddleware(), middleware.RequireCapability(model.CapCreateArticles))
			{
				writeGroup.POST("", group.ArticleHandler.CreateArticle)
				writeGroup.PUT("/:id", group.ArticleHandler.UpdateArticle)
				writeGroup.DELETE("/:id", group.ArticleHandler.DeleteArticle)
			}
		}

		mediaGroup := apiGroup.Group("/media")
		{
			authOptGroup := mediaGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("", group.MediaHandler.ListMedia)
				authOptGroup.GET("/:id", group.MediaHandler.GetMedia)
			}

			writeGroup := mediaGroup.Group("")
			writeGroup.Use(middleware.AuthMiddleware(), middleware.RequireCapability(model.CapAccessMedia))
			{
				writeGroup.POST("/upload", group.MediaHandler.Upload)
				writeGroup.PUT("/:id", group.MediaHandler.UpdateMedia)
				writeGroup.POST("/:id/usage", group.MediaHandler.TrackUsage)
				writeGroup.DELETE("/:id", group.MediaHandler.DeleteMedia)
			}
		}

		feedGroup := apiGroup.Group("/feed")
		feedGroup.Use(middleware.AuthOptionalMiddleware())
		{
			feedGroup.GET("/social", group.FeedHandler.SocialFeed)
			feedGroup.GET("/unified", group.FeedHandler.UnifiedFeed)
		}

		engagementGroup := apiGroup.Group("/engagement")
		{
			authOptGroup := engagementGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/comments/:targetType/:targetId", group.EngagementHandler.ListComments)
				authOptGroup.GET("/comments/:targetType/:targetId/stats", group.EngagementHandler.GetStats)
				authOptGroup.GET("/replies/:id", group.EngagementHandler.ListReplies)
				authOptGroup.GET("/likes/:targetType/:targetId", group.EngagementHandler.ListLikes)
				authOptGroup.POST("/shares/:targetType/:targetId", group.EngagementHandler.RecordShare)
			}

			authGroup := engagementGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/likes", group.EngagementHandler.ToggleLike)
				authGroup.POST("/comments", group.EngagementHandler.CreateComment)
				authGroup.PUT("/comments/:id", group.EngagementHandler.UpdateComment)
				authGroup.DELETE("/comments/:id", group.EngagementHandler.DeleteComment)
			}
		}

		apiGroup.GET("/search", group.SearchHandler.Search)

		chatGroup := apiGroup.Group("/chat")
		chatGroup.Use(middleware.AuthMiddleware())
		{
			chatGroup.POST("/messages", group.ChatHandler.SendMessage)
			chatGroup.GET("/messages", group.ChatHandler.GetHistory)
			chatGroup.PUT("/messages/:id", group.ChatHandler.EditMessage)
			chatGroup.DELETE("/messages/:id", group.ChatHandler.DeleteMessage)
		}

		notificationGroup := apiGroup.Group("/notifications")
		notificationGroup.Use(middleware.AuthMiddleware())
		{
			notificationGroup.GET("", group.NotificationHandler.ListNotifications)
			notificationGroup.GET("/unread", group.NotificationHandler.GetUnreadCount)
			notificationGroup.PUT("/:id/read", group.NotificationHandler.MarkAsRead)
			notificationGroup.PUT("/read-all", group.NotificationHandler.MarkAllAsRead)
		}

		presenceGroup := apiGroup.Group("/presence")
		{
			presenceGroup.GET("/online", group.PresenceHandler.Online)

			authGroup := presenceGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/heartbeat", group.PresenceHandler.Heartbeat)
				authGroup.POST("/offline", group.PresenceHandler.Offline)
			}
		}

		// WS 自带 token 鉴权，不走中间件
		apiGroup.GET("/ws", group.WsHandler.Connect)
	}

	return r
}
