// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer — it connects handlers, middleware, and
// routes. Think of it as the control centre that decides:
// - Which URL patterns map to which handler functions
// - What middleware runs on which routes
// - How the server starts and stops gracefully
//
// WHY SEPARATE FROM main.go?
// Keeping server setup in its own package makes it:
// - Testable (we can create a test server without running main)
// - Reusable (multiple entry points could use the same server config)
// - Clean (main.go stays minimal — just "load config, start the server")
//
// DEPENDENCY INJECTION FLOW:
// main.go loads config and hands it to Server.New(), which creates:
//
//	sqlite.DB → repositories → services → handlers → routes
//
// This is the "composition root" pattern — all dependencies are wired in one
// place (New/setupRoutes), rather than scattered across the codebase.
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

	"github.com/sakif/weather-dashboard/internal/auth"
	"github.com/sakif/weather-dashboard/internal/factgen"
	"github.com/sakif/weather-dashboard/internal/handler"
	"github.com/sakif/weather-dashboard/internal/middleware"
	sqliteRepo "github.com/sakif/weather-dashboard/internal/repository/sqlite"
	"github.com/sakif/weather-dashboard/internal/service"
	"github.com/sakif/weather-dashboard/internal/weather"
)

// Config holds server configuration.
// Using a struct for config (instead of individual parameters) makes it easy
// to add options without changing function signatures, and keeps env-var
// parsing in main.go where it belongs.
type Config struct {
	Port          int
	TemplateDir   string
	StaticDir     string
	DBPath        string // path to the SQLite database file
	SessionSecret string // HMAC key for session tokens
	MaxFacts      int    // fact cap; <= 0 uses the default
	WeatherAPIKey string // OpenWeatherMap key; empty → weather shows as unavailable
	OpenAIAPIKey  string // OpenAI key; empty → fact generation returns an error
}

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the database connection. When the server shuts down, the
// connection must be closed to flush the WAL and release the file lock —
// handled in Start() during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a new Server with the given config.
//
// WIRING ORDER:
//  1. Open the database (sqlite.New runs migrations)
//  2. Build the gateways (weather, fact generation) — stateless HTTP clients
//  3. Build the services on top of repositories + gateways
//  4. Build the handlers on top of services, wire routes
//
// Each layer only receives what it needs: services get repository
// interfaces, handlers get services. The handler never touches the database.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
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
		db.Close() // Clean up DB if route setup fails
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// GET/POST /                      → Dashboard page (HTML; POST picks a location)
// GET      /static/*              → Static files (CSS, JS)
// GET/POST /register              → Registration form / submission
// GET/POST /login                 → Login form / submission
// GET      /logout                → Clear session, redirect home
// POST     /add_location          → Add a location (JSON)
// POST     /generate_fact         → Add a user-written fact (JSON)
// POST     /remove_fact           → Remove a fact (JSON)
// POST     /generate_chatgpt_fact → Generate and store a fact (JSON)
//
// MIDDLEWARE ORDER MATTERS:
// 1. RequestID — assigns unique ID to each request (for tracing)
// 2. RealIP — extracts real client IP from proxy headers
// 3. Logger — logs each request with timing info
// 4. Recoverer — catches panics and returns 500 instead of crashing
// 5. WithSession — loads the session identity into the context; it never
//    rejects, so anonymous users still reach every route and each mutating
//    handler can answer with its own 403 message
func (s *Server) setupRoutes() error {
	sessions, err := auth.NewSessionService(s.config.SessionSecret)
	if err != nil {
		return fmt.Errorf("creating session service: %w", err)
	}

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(auth.WithSession(sessions))

	// === Static Files ===
	// http.StripPrefix removes "/static/" from the URL path before lookup,
	// so GET /static/css/style.css serves {StaticDir}/css/style.css.
	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// === Gateways ===
	weatherClient := weather.New(s.config.WeatherAPIKey, s.logger)
	factGenerator := factgen.New(s.config.OpenAIAPIKey, s.logger)

	// === Services ===
	passwords := auth.NewPasswordService()
	authService := service.NewAuthService(s.db.Users(), passwords, sessions, s.logger)
	locationService := service.NewLocationService(s.db.Locations(), weatherClient, s.logger)
	factService := service.NewFactService(s.db.Facts(), factGenerator, s.config.MaxFacts, s.logger)

	// === Handlers ===
	authHandler, err := handler.NewAuthHandler(authService, s.config.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating auth handler: %w", err)
	}
	homeHandler, err := handler.NewHomeHandler(locationService, factService, weatherClient, s.config.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating home handler: %w", err)
	}
	catalogHandler := handler.NewCatalogHandler(locationService, factService, s.logger)

	// === Page Routes ===
	s.router.Get("/", homeHandler.HandleHome)
	s.router.Post("/", homeHandler.HandleHome)

	s.router.Get("/register", authHandler.HandleRegisterForm)
	s.router.Post("/register", authHandler.HandleRegister)
	s.router.Get("/login", authHandler.HandleLoginForm)
	s.router.Post("/login", authHandler.HandleLogin)
	s.router.Get("/logout", authHandler.HandleLogout)

	// === JSON Routes ===
	s.router.Post("/add_location", catalogHandler.HandleAddLocation)
	s.router.Post("/generate_fact", catalogHandler.HandleAddFact)
	s.router.Post("/remove_fact", catalogHandler.HandleRemoveFact)
	s.router.Post("/generate_chatgpt_fact", catalogHandler.HandleGenerateFact)

	return nil
}

// Router exposes the configured router, so tests can drive the full stack
// with httptest without binding a port.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the server's resources without going through Start's
// shutdown path. Used by tests.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (30s timeout)
// 3. Close the database connection (flushes WAL, releases file lock)
//
// The `defer s.db.Close()` ensures step 3 happens even if something panics.
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

	// Start the server in a goroutine (so it doesn't block)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	// Block until we receive a signal or server error
	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		// Give in-flight requests 30 seconds to complete
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
