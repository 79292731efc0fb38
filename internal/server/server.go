// Package server exposes the chat, roster, quote and booking operations over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spigell/powerus/internal/booking"
	"github.com/spigell/powerus/internal/chat"
	"github.com/spigell/powerus/internal/logger"
	"github.com/spigell/powerus/internal/matching"
	"github.com/spigell/powerus/internal/pricing"
	"github.com/spigell/powerus/internal/roster"
	"go.uber.org/zap"
)

const (
	DefaultListen          = ":8080"
	DefaultShutdownTimeout = 10 * time.Second
)

// Config holds the HTTP server settings.
type Config struct {
	Listen string `mapstructure:"listen"`
	// StaticDir is served for every route the API does not handle. Empty disables it.
	StaticDir       string        `mapstructure:"static-dir"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
}

type chatService interface {
	Reply(ctx context.Context, conversationID, message string) (*chat.Reply, error)
}

type filterReporter interface {
	Filters() []matching.Status
}

// Deps are the services the handlers call.
type Deps struct {
	Chat     chatService
	Matcher  filterReporter
	Engine   *pricing.Engine
	Roster   *roster.Roster
	Bookings *booking.Store
	// DefaultHours is quoted when a quote request carries no hours.
	DefaultHours float64
	Logger       *zap.Logger
}

// Server is the HTTP front of the application.
type Server struct {
	cfg    Config
	deps   Deps
	engine *gin.Engine
	logger *zap.Logger
}

// New validates deps and registers all routes.
func New(cfg Config, deps Deps) (*Server, error) {
	switch {
	case deps.Chat == nil:
		return nil, errors.New("server: chat service is required")
	case deps.Roster == nil:
		return nil, errors.New("server: roster is required")
	case deps.Bookings == nil:
		return nil, errors.New("server: booking store is required")
	}

	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Engine == nil {
		deps.Engine = pricing.NewEngine(deps.Logger)
	}
	if deps.DefaultHours <= 0 {
		deps.DefaultHours = chat.DefaultHours
	}
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}

	s := &Server{
		cfg:    cfg,
		deps:   deps,
		logger: deps.Logger.With(zap.String("component", "server")),
	}
	s.engine = s.routes()

	return s, nil
}

// Handler returns the http.Handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(logger.GinRecovery(s.logger), logger.GinMiddleware(s.logger))

	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.POST("/chat", s.handleChat)
		api.GET("/workers", s.handleWorkers)
		api.POST("/quote", s.handleQuote)
		api.GET("/bookings", s.handleListBookings)
		api.POST("/bookings", s.handleCreateBooking)
		api.GET("/bookings/:id", s.handleGetBooking)
	}

	static := http.FileServer(http.Dir(s.cfg.StaticDir))
	r.NoRoute(func(c *gin.Context) {
		if s.cfg.StaticDir == "" || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			abort(c, http.StatusNotFound, "route not found")
			return
		}
		static.ServeHTTP(c.Writer, c.Request)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", zap.String("listen", s.cfg.Listen))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server", zap.Duration("timeout", s.cfg.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}

	return nil
}
