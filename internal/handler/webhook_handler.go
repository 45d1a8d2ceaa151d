package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/terminassist/voice-call-service/internal/domain"
	"github.com/terminassist/voice-call-service/internal/services/call"
	"github.com/terminassist/voice-call-service/pkg/logger"
	"go.uber.org/zap"
)

// WebhookHandler receives asynchronous events from the voice provider.
type WebhookHandler struct {
	service *call.Service
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(service *call.Service) *WebhookHandler {
	return &WebhookHandler{service: service}
}

// SetupRoutes registers the webhook endpoint.
func (h *WebhookHandler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/webhook", h.HandleVoiceWebhook).Methods("POST")

	logger.Base().Info("voice webhook route registered")
}

// HandleVoiceWebhook processes a provider event. Every recognized flow is
// acknowledged with 200 so the provider never retries on business conditions;
// 500 is reserved for defects (malformed payloads, internal failures).
// POST /webhook
func (h *WebhookHandler) HandleVoiceWebhook(w http.ResponseWriter, r *http.Request) {
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Base().Error("failed to read webhook body", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer r.Body.Close()

	logger.Base().Info("webhook body", zap.String("body", string(bodyBytes)))

	var event domain.VoiceEvent
	if err := json.Unmarshal(bodyBytes, &event); err != nil {
		logger.Base().Error("failed to parse webhook payload", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err := h.service.HandleVoiceEvent(r.Context(), event); err != nil {
		logger.Base().Error("webhook processing failed",
			zap.String("event", event.Event),
			zap.String("voice_session_id", event.CallID),
			zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
