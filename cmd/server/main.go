// Package main is the entry point for the weather dashboard server.
//
// MAIN PACKAGE IN GO:
// Every Go program starts execution in the main() function of the "main"
// package. The main package should be kept minimal — its job is to:
// 1. Read configuration (from env vars, flags, or config files)
// 2. Create dependencies (logger, database connections, etc.)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server,
// internal/handler, etc.). This separation makes the app testable and its
// components reusable.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/sakif/weather-dashboard/internal/server"
	"github.com/sakif/weather-dashboard/pkg/logging"
)

func main() {
	// === 1. LOAD .env ===
	// godotenv reads a local .env file into the process environment.
	// Missing file is fine — production sets real env vars instead.
	_ = godotenv.Load()

	// === 2. SET UP LOGGING ===
	logger := logging.New()

	// === 3. READ CONFIGURATION ===
	// Env vars with defaults; only SESSION_SECRET is mandatory.
	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	maxFacts := 0 // 0 → service default
	if maxStr := os.Getenv("MAX_FACTS"); maxStr != "" {
		var err error
		maxFacts, err = strconv.Atoi(maxStr)
		if err != nil {
			logger.Error("invalid MAX_FACTS value", slog.String("value", maxStr))
			os.Exit(1)
		}
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		logger.Error("SESSION_SECRET is not set — generate one with: openssl rand -hex 32")
		os.Exit(1)
	}

	// Missing API keys are warnings, not errors: the dashboard still works,
	// weather just shows as unavailable and fact generation returns an error.
	weatherKey := os.Getenv("OPENWEATHERMAP_API_KEY")
	if weatherKey == "" {
		logger.Warn("OPENWEATHERMAP_API_KEY not set — weather will be unavailable")
	}
	openAIKey := os.Getenv("OPENAI_API_KEY")
	if openAIKey == "" {
		logger.Warn("OPENAI_API_KEY not set — fact generation will be unavailable")
	}

	// === 4. RESOLVE FILE PATHS ===
	// The "web" directory sits at the project root; when running with
	// `go run ./cmd/server` the working directory is the project root, so
	// the relative paths resolve directly.
	templateDir, _ := filepath.Abs("web/templates")
	staticDir, _ := filepath.Abs("web/static")

	// === 5. DATABASE PATH ===
	// DB_PATH env var overrides for production deployments.
	// Example: DB_PATH=/var/lib/weather-dashboard/prod.db
	dbPath := "data/weather.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}

	// os.MkdirAll creates all parent directories if needed (like `mkdir -p`).
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", dbDir),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// === 6. CREATE AND START THE SERVER ===
	cfg := server.Config{
		Port:          port,
		TemplateDir:   templateDir,
		StaticDir:     staticDir,
		DBPath:        dbPath,
		SessionSecret: sessionSecret,
		MaxFacts:      maxFacts,
		WeatherAPIKey: weatherKey,
		OpenAIAPIKey:  openAIKey,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
