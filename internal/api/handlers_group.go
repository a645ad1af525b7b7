package api

import "Atrium/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	AdminHandler        *handler.AdminHandler
	EmployeeHandler     *handler.EmployeeHandler
	ArticleHandler      *handler.ArticleHandler
	MediaHandler        *handler.MediaHandler
	FeedHandler         *handler.FeedHandler
	EngagementHandler   *handler.EngagementHandler
	SearchHandler       *handler.SearchHandler
	ChatHandler         *handler.ChatHandler
	NotificationHandler *handler.NotificationHandler
	PresenceHandler     *handler.PresenceHandler
	WsHandler           *handler.WsHandler
}
