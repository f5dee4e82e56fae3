package server

import (
	"github.com/gin-gonic/gin"
	"github.com/neekaru/whatsapp-gateway/internal/auth"
	"github.com/neekaru/whatsapp-gateway/internal/health"
	"github.com/neekaru/whatsapp-gateway/internal/messaging"
)

// SetupRoutes configures all the routes for the application
func (s *Server) SetupRoutes() {
	// Register health check handlers
	healthHandlers := health.NewHandlers(s.app.Manager, s.app.StartTime)
	s.router.GET("/", healthHandlers.RootHandler)
	s.router.GET("/status", healthHandlers.StatusHandler)
	s.router.GET("/health", healthHandlers.HealthCheckHandler)

	// Register pairing handlers
	authHandlers := auth.NewHandlers(s.app.Presenter)
	s.router.GET("/qr", authHandlers.QRPageHandler)
	s.router.GET("/qr.png", authHandlers.QRImageHandler)

	// Register messaging handlers
	messagingHandlers := messaging.NewHandlers(s.app.Messaging)
	s.router.POST("/enviar", messagingHandlers.SendMessageHandler)

	s.router.GET("/metrics", gin.WrapH(s.app.Metrics.Handler()))
}
