// Package web is the HTTP face of the hub: REST for commands and history,
// WebSocket for push delivery, SSE and one-shot polling for pull delivery.
package web

import (
	"log/slog"
	"time"

	"center-hub/auth"
	"center-hub/services"

	"github.com/gin-gonic/gin"
)

type Options struct {
	KeepaliveInterval time.Duration
	IdleTimeout       time.Duration
	PullMaxLifetime   time.Duration
	PollInterval      time.Duration
}

type Server struct {
	log            *slog.Logger
	authService    services.IAuthService
	messageService services.IMessageService
	centerService  services.ICenterService
	realtime       *services.RealtimeService
	opts           Options
}

func NewServer(log *slog.Logger, authService services.IAuthService,
	messageService services.IMessageService, centerService services.ICenterService,
	realtime *services.RealtimeService, opts Options) *Server {
	return &Server{
		log:            log,
		authService:    authService,
		messageService: messageService,
		centerService:  centerService,
		realtime:       realtime,
		opts:           opts,
	}
}

// Router wires every route. Contact is public: visitors asking about a
// center have no account to authenticate with.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	api.POST("/auth/register", s.handleRegister)
	api.POST("/auth/login", s.handleLogin)
	api.POST("/contact", s.handleContact)

	authed := api.Group("")
	authed.Use(auth.Middleware())
	authed.GET("/events", s.handlePoll)
	authed.GET("/events/stream", s.handleStream)
	authed.GET("/events/ws", s.handleWebSocket)
	authed.POST("/threads/:id/messages", s.handlePostMessage)
	authed.GET("/threads/:id/messages", s.handleGetMessages)
	authed.POST("/centers", s.handleRegisterCenter)
	authed.POST("/centers/:id/updated", s.handleCenterUpdated)
	authed.GET("/centers/:id/inquiries", s.handleListInquiries)
	authed.POST("/announcements", s.handleAnnouncement)
	authed.GET("/stats", s.handleStats)

	return router
}
