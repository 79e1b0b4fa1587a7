// Package server wires the HTTP server: router, middleware, routes, and the
// dependency graph behind them.
//
// This is the composition root. main.go hands it a Config; New assembles
// database → repository → services → handlers in one place, so nothing else
// in the codebase constructs its own dependencies.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/omkaark/patchwork-auth/internal/auth"
	"github.com/omkaark/patchwork-auth/internal/config"
	"github.com/omkaark/patchwork-auth/internal/github"
	"github.com/omkaark/patchwork-auth/internal/handler"
	"github.com/omkaark/patchwork-auth/internal/middleware"
	sqliteRepo "github.com/omkaark/patchwork-auth/internal/repository/sqlite"
	"github.com/omkaark/patchwork-auth/internal/service"
)

// Server owns the router and the resources behind it. The database
// connection is closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with the full dependency chain assembled:
//
//	sqlite.DB → service.AuthService ← github.Client, auth.TokenService
//	                    ↓
//	            handler.AuthHandler → routes
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and the route table.
//
// Routes:
//
//	POST /auth → token exchange (JSON)
//	GET  /     → landing page (HTML)
//	anything else → landing page too, matching the public contract that
//	every non-/auth path serves the static document
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	verifier := github.NewClient(s.config.GitHubAPIURL)
	authService := service.NewAuthService(verifier, s.db, tokens, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.logger)

	landingHandler, err := handler.NewLandingHandler(s.config.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating landing handler: %w", err)
	}

	s.router.Post("/auth", authHandler.HandleAuth)
	s.router.Get("/", landingHandler.HandleLanding)
	s.router.NotFound(landingHandler.HandleLanding)

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests for up to
// 30 seconds, close the database (flushing the WAL).
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
