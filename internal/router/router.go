package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/chatwave/backend/api/handler"
)

type Handlers struct {
	Auth          *apiHandler.AuthHandler
	Profile       *apiHandler.ProfileHandler
	Friends       *apiHandler.FriendsHandler
	Chats         *apiHandler.ChatsHandler
	Notifications *apiHandler.NotificationsHandler
	Account       *apiHandler.AccountHandler
	Events        *apiHandler.EventsHandler
	Health        *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/refresh", handlers.Auth.Refresh)
	r.POST("/api/v1/auth/logout", handlers.Auth.Logout)

	// Protected routes
	r.GET("/api/v1/profile", authMiddleware(handlers.Profile.GetProfile))
	r.PUT("/api/v1/profile", authMiddleware(handlers.Profile.UpdateProfile))

	r.POST("/api/v1/friends/requests", authMiddleware(handlers.Friends.SendRequest))
	r.POST("/api/v1/friends/requests/{id}/accept", authMiddleware(handlers.Friends.AcceptRequest))
	r.POST("/api/v1/friends/requests/{id}/reject", authMiddleware(handlers.Friends.RejectRequest))
	r.GET("/api/v1/friends/requests", authMiddleware(handlers.Friends.ListPending))
	r.GET("/api/v1/friends", authMiddleware(handlers.Friends.ListFriends))

	r.POST("/api/v1/chats", authMiddleware(handlers.Chats.Create))
	r.POST("/api/v1/chats/{id}/leave", authMiddleware(handlers.Chats.Leave))
	r.POST("/api/v1/chats/{id}/promote", authMiddleware(handlers.Chats.Promote))
	r.POST("/api/v1/chats/{id}/messages", authMiddleware(handlers.Chats.SendMessage))
	r.GET("/api/v1/chats/{id}/messages", authMiddleware(handlers.Chats.ListMessages))

	r.GET("/api/v1/notifications", authMiddleware(handlers.Notifications.List))
	r.POST("/api/v1/notifications/{id}/read", authMiddleware(handlers.Notifications.MarkRead))
	r.DELETE("/api/v1/notifications/{id}", authMiddleware(handlers.Notifications.DeleteOne))
	r.DELETE("/api/v1/notifications", authMiddleware(handlers.Notifications.DeleteAll))

	r.GET("/api/v1/account/deletable", authMiddleware(handlers.Account.CanDelete))
	r.DELETE("/api/v1/account", authMiddleware(handlers.Account.SoftDelete))
	r.DELETE("/api/v1/account/purge", authMiddleware(handlers.Account.HardDelete))

	r.GET("/api/v1/events", authMiddleware(handlers.Events.Subscribe))

	return r
}
