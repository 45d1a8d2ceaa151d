package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/terminassist/voice-call-service/internal/config"
	"github.com/terminassist/voice-call-service/internal/handler"
	"github.com/terminassist/voice-call-service/pkg/logger"
	"go.uber.org/zap"
)

// Server is the outbound appointment-call HTTP server.
type Server struct {
	config         *config.Config
	router         *mux.Router
	handlerManager *handler.HandlerManager
}

// NewServer creates the server with all services wired. Background routines
// stop when ctx is cancelled.
func NewServer(ctx context.Context, cfg *config.Config) *Server {
	if _, err := logger.Init(cfg.LogEnv); err != nil {
		logger.Base().Error("failed to initialize zap logger, falling back to std log")
	}

	router := mux.NewRouter()

	handlerManager, err := handler.NewHandlerManager(ctx, cfg)
	if err != nil {
		logger.Base().Error("failed to initialize handler manager", zap.Error(err))
		return nil
	}

	handlerManager.SetupAllRoutes(router)

	return &Server{
		config:         cfg,
		router:         router,
		handlerManager: handlerManager,
	}
}

// Start starts the HTTP server and shuts it down gracefully when ctx is
// cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%s", s.config.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Base().Error("server shutdown failed", zap.Error(err))
		}
	}()

	logger.L().Infof("starting server on %s", addr)
	return server.ListenAndServe()
}

// LoadConfigFromEnv loads the service configuration from environment variables.
func LoadConfigFromEnv() *config.Config {
	return &config.Config{
		Port:   getEnvOrDefault("PORT", "3001"),
		LogEnv: getEnvOrDefault("LOG_ENV", "development"),

		UltravoxAPIKey:  getEnvOrDefault("ULTRAVOX_API_KEY", ""),
		UltravoxBaseURL: getEnvOrDefault("ULTRAVOX_BASE_URL", "https://api.ultravox.ai"),
		UltravoxModel:   getEnvOrDefault("ULTRAVOX_MODEL", "fixie-ai/ultravox"),
		UltravoxVoice:   getEnvOrDefault("ULTRAVOX_VOICE", "Susi"),
		LanguageHint:    getEnvOrDefault("ULTRAVOX_LANGUAGE", "de"),

		TwilioAccountSID:  getEnvOrDefault("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:   getEnvOrDefault("TWILIO_AUTH_TOKEN", ""),
		TwilioPhoneNumber: getEnvOrDefault("TWILIO_PHONE_NUMBER", ""),

		ProviderTimeout: time.Duration(getEnvAsIntOrDefault("PROVIDER_TIMEOUT_SECONDS", 30)) * time.Second,

		SessionRetention: time.Duration(getEnvAsIntOrDefault("SESSION_RETENTION_MINUTES", 60)) * time.Minute,
		SessionMaxAge:    time.Duration(getEnvAsIntOrDefault("SESSION_MAX_AGE_HOURS", 24)) * time.Hour,
		CleanupInterval:  time.Duration(getEnvAsIntOrDefault("SESSION_CLEANUP_MINUTES", 5)) * time.Minute,

		SecretKey:  os.Getenv("SECRET_KEY"),
		InstanceID: getDynamicInstanceID(),
	}
}

// getEnvOrDefault gets an environment variable or returns the default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault gets an environment variable as int or returns the default.
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDynamicInstanceID generates a unique identifier for this service instance.
// The system hostname (pod name in K8s) is preferred; a timestamp-based id is
// the fallback.
func getDynamicInstanceID() string {
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		return hostname
	}
	return fmt.Sprintf("voice-call-service-%d", time.Now().UnixNano())
}

func main() {
	// Load .env for local development; does not override variables already set.
	if err := godotenv.Load(); err != nil {
		log.Printf("info: .env file not found or skipped (expected in production): %v", err)
	}

	cfg := LoadConfigFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := NewServer(ctx, cfg)
	if server == nil {
		log.Fatal("failed to create server")
	}
	defer logger.Sync()

	logger.L().Infow("server initialized",
		"port", cfg.Port,
		"instance_id", cfg.InstanceID)

	if err := server.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server failed to start: %v", err)
	}
}
