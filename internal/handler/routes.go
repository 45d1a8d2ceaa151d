package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/terminassist/voice-call-service/internal/adapters/telephony"
	"github.com/terminassist/voice-call-service/internal/adapters/ultravox"
	"github.com/terminassist/voice-call-service/internal/config"
	"github.com/terminassist/voice-call-service/internal/registry"
	"github.com/terminassist/voice-call-service/internal/repository"
	callservice "github.com/terminassist/voice-call-service/internal/services/call"
	"github.com/terminassist/voice-call-service/internal/session"
	"github.com/terminassist/voice-call-service/pkg/logger"
	"github.com/terminassist/voice-call-service/pkg/redis"
	"go.uber.org/zap"
)

// HandlerManager wires all services and handlers.
type HandlerManager struct {
	config   *config.Config
	registry *registry.Registry
	service  *callservice.Service
	records  callservice.RecordStore // nil when no database is configured
}

// NewHandlerManager creates all services and handlers from configuration.
// Redis and Postgres are optional collaborators; the service degrades to
// registry-only operation when they are not configured. Background routines
// stop when ctx is cancelled.
func NewHandlerManager(ctx context.Context, cfg *config.Config) (*HandlerManager, error) {
	reg := registry.New(cfg.SessionRetention, cfg.SessionMaxAge)
	go reg.StartCleanupRoutine(ctx, cfg.CleanupInterval)

	voiceClient := ultravox.NewClient(cfg.UltravoxBaseURL, cfg.UltravoxAPIKey,
		cfg.UltravoxModel, cfg.UltravoxVoice, cfg.ProviderTimeout)
	placer := telephony.NewTwilioPlacer(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)

	var sessionManager *session.Manager
	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		redisConfig := &redis.RedisConfig{
			Host:     redisHost,
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		}
		redisSvc, err := redis.NewRedisService(redisConfig)
		if err != nil {
			logger.Base().Warn("failed to initialize redis, running without session mirror", zap.Error(err))
		} else {
			sessionManager = session.NewManager(redisSvc, cfg.InstanceID)
			logger.Base().Info("session mirror initialized", zap.String("instance_id", cfg.InstanceID))
		}
	}

	var recordStore callservice.RecordStore
	dbConfig := repository.LoadDatabaseConfigFromEnv()
	if dbConfig.Host != "" {
		db, err := repository.NewDatabaseConnection(dbConfig)
		if err != nil {
			logger.Base().Error("failed to connect to database", zap.Error(err))
			return nil, err
		}
		if err := repository.AutoMigrate(db); err != nil {
			logger.Base().Error("failed to run database migrations", zap.Error(err))
			return nil, err
		}
		recordStore = repository.NewCallRecordRepository(db)
		logger.Base().Info("call record repository initialized", zap.String("db_name", dbConfig.DBName))
	} else {
		logger.Base().Info("no database configured, call records disabled")
	}

	service := callservice.NewService(reg, voiceClient, placer, sessionManager, recordStore, cfg.LanguageHint)

	return &HandlerManager{
		config:   cfg,
		registry: reg,
		service:  service,
		records:  recordStore,
	}, nil
}

// SetupAllRoutes registers every route with global middleware.
func (hm *HandlerManager) SetupAllRoutes(router *mux.Router) {
	router.Use(CORSMiddleware)
	router.Use(GlobalLoggingMiddleware)

	outboundHandler := NewOutboundCallHandler(hm.service, hm.config.IsDevelopment())
	outboundHandler.SetupRoutes(router, hm.config.SecretKey)

	webhookHandler := NewWebhookHandler(hm.service)
	webhookHandler.SetupRoutes(router)

	if hm.records != nil {
		recordHandler := NewCallRecordHandler(hm.records)
		recordHandler.SetupRoutes(router)
	}

	router.HandleFunc("/health", hm.handleHealth).Methods("GET")

	logger.Base().Info("all application routes registered")
}

func (hm *HandlerManager) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":         "ok",
		"activeSessions": hm.registry.Size(),
	})
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
