package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/neekaru/whatsapp-gateway/internal/app"
	"github.com/rs/zerolog"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	app    *app.App
	srv    *http.Server
	logger zerolog.Logger
}

// NewServer creates a new server instance with the gateway routes registered
func NewServer(a *app.App) *Server {
	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	logger := a.Logger.With().Str("component", "http").Logger()
	r.Use(recovery(logger))
	r.Use(requestID())
	r.Use(requestLogger(logger))
	r.Use(a.Metrics.Middleware())
	r.Use(cors.New(a.Config.GetCorsConfig()))

	s := &Server{
		router: r,
		app:    a,
		logger: logger,
		srv: &http.Server{
			Addr:              ":" + a.Config.ServerPort,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	s.SetupRoutes()
	return s
}

// Router returns the gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start binds the listen address and serves in the background. Bind errors
// are returned to the caller.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.srv.Addr, err)
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("Server error")
		}
	}()

	s.logger.Info().Str("addr", ln.Addr().String()).Msg("HTTP server listening")
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down server...")
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Server forced to shutdown")
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.logger.Info().Msg("Server exited")
	return nil
}
