package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-backend/internal/config"
	"portfolio-backend/internal/database"
	"portfolio-backend/internal/handlers"
	"portfolio-backend/internal/logging"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/router"
	"portfolio-backend/internal/services"
	"portfolio-backend/internal/telemetry"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		log.Fatalf("✗ %v", err)
	}
}

// run starts the proxy and blocks until it has shut down. Startup failures
// are returned so deferred cleanup still runs.
func run() error {
	log.Println("🚀 Starting Portfolio Chat Proxy...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize Logging ────
	logger, err := logging.Init(cfg)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}
	slog.SetDefault(logger)
	log.Println("✓ Logger initialized")

	// ──── Step 3: Initialize Telemetry ────
	if cfg.TelemetryEnabled {
		shutdown, err := telemetry.Init(context.Background(), cfg.TelemetryDir, version)
		if err != nil {
			return fmt.Errorf("telemetry initialization failed: %w", err)
		}
		defer shutdown()
		log.Printf("✓ Telemetry writing to %s", cfg.TelemetryDir)
	}

	// ──── Step 4: Initialize Inference Provider ────
	var provider services.Provider
	switch cfg.InferenceProvider {
	case config.ProviderGroq:
		provider = services.NewGroqProvider(cfg.InferenceBaseURL, cfg.InferenceModel, nil)
	case config.ProviderGemini:
		provider = services.NewGeminiProvider(cfg.InferenceModel)
	default:
		return fmt.Errorf("unknown inference provider %q", cfg.InferenceProvider)
	}
	if cfg.APIKey() == "" {
		logger.Warn("inference API key not set, chat requests will fail until it is", "env", cfg.APIKeyEnv)
	}
	log.Printf("✓ Inference provider %s (%s)", cfg.InferenceProvider, cfg.InferenceModel)

	// ──── Step 5: Initialize Rate Limiter ────
	var limiter middleware.Limiter
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
		defer redisClient.Close()
		limiter = middleware.NewRedisRateLimiter(redisClient, cfg.ChatRateLimit, time.Minute)
		log.Println("✓ Redis rate limiter connected")
	} else {
		memLimiter := middleware.NewRateLimiter(cfg.ChatRateLimit, time.Minute)
		defer memLimiter.Stop()
		limiter = memLimiter
		log.Println("✓ In-memory rate limiter started")
	}

	// ──── Step 6: Initialize Services & Handlers ────
	var jwtAuth *middleware.JWTAuth
	if cfg.JWTSecret != "" {
		jwtAuth = middleware.NewJWTAuth(cfg.JWTSecret)
		log.Println("✓ Bearer token check enabled")
	}

	chatService := services.NewChatService(provider, cfg.APIKey, logger)
	chatHandler := handlers.NewChatHandler(chatService)

	// ──── Step 7: Start HTTP Server ────
	r := router.New(chatHandler, router.Options{
		JWTAuth:     jwtAuth,
		Limiter:     limiter,
		FrontendURL: cfg.FrontendURL,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	idle := make(chan struct{})
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
		close(idle)
	}()

	log.Printf("✓ Portfolio Chat Proxy ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/chat", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	<-idle
	return nil
}
