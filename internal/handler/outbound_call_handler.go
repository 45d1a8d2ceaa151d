package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/mux"
	"github.com/terminassist/voice-call-service/internal/domain"
	"github.com/terminassist/voice-call-service/internal/services/call"
	"github.com/terminassist/voice-call-service/pkg/logger"
	"go.uber.org/zap"
)

// OutboundCallHandler serves the call-initiation endpoint.
type OutboundCallHandler struct {
	service *call.Service
	devMode bool
}

// NewOutboundCallHandler creates a new outbound call handler. devMode controls
// whether error responses include stack traces.
func NewOutboundCallHandler(service *call.Service, devMode bool) *OutboundCallHandler {
	return &OutboundCallHandler{service: service, devMode: devMode}
}

// OutboundCallRequest is the initiation payload. Telefonnummer is the only
// required field; absent booking fields are defaulted by the orchestrator.
type OutboundCallRequest struct {
	Telefonnummer string `json:"telefonnummer"`
	domain.BookingDetails
}

// OutboundCallResponse is the initiation result envelope.
type OutboundCallResponse struct {
	Success        bool   `json:"success"`
	CallSid        string `json:"callSid,omitempty"`
	UltravoxCallID string `json:"ultravoxCallId,omitempty"`
	Message        string `json:"message,omitempty"`
	Error          string `json:"error,omitempty"`
	Stack          string `json:"stack,omitempty"`
}

// SetupRoutes registers the initiation endpoint. secretKey enables JWT
// API-key protection when non-empty.
func (h *OutboundCallHandler) SetupRoutes(router *mux.Router, secretKey string) {
	var endpoint http.Handler = http.HandlerFunc(h.HandleOutboundCall)
	if secretKey != "" {
		endpoint = APIKeyMiddleware(secretKey)(endpoint)
	}
	router.Handle("/outbound-call", endpoint).Methods("POST")

	logger.Base().Info("outbound call route registered")
}

// HandleOutboundCall initiates an outbound appointment call.
// POST /outbound-call
func (h *OutboundCallHandler) HandleOutboundCall(w http.ResponseWriter, r *http.Request) {
	logger.Base().Info("received outbound call request", zap.String("remote_addr", r.RemoteAddr))

	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Base().Error("failed to read request body", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "failed to read request body", false)
		return
	}
	defer r.Body.Close()

	var request OutboundCallRequest
	if err := json.Unmarshal(bodyBytes, &request); err != nil {
		logger.Base().Error("failed to parse outbound call request", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "invalid request body", false)
		return
	}

	result, err := h.service.InitiateCall(r.Context(), request.Telefonnummer, request.BookingDetails)
	if err != nil {
		var upstream *call.UpstreamError
		switch {
		case errors.Is(err, call.ErrMissingPhoneNumber):
			logger.Base().Error("telefonnummer missing in request")
			h.writeError(w, http.StatusBadRequest, err.Error(), false)
		case errors.As(err, &upstream):
			logger.Base().Error("upstream provider failure",
				zap.String("provider", upstream.Provider), zap.Error(upstream.Err))
			h.writeError(w, http.StatusInternalServerError, err.Error(), h.devMode)
		default:
			logger.Base().Error("outbound call failed", zap.Error(err))
			h.writeError(w, http.StatusInternalServerError, err.Error(), h.devMode)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(OutboundCallResponse{
		Success:        true,
		CallSid:        result.CallSid,
		UltravoxCallID: result.VoiceCallID,
		Message:        "Anruf wird aufgebaut",
	})
}

func (h *OutboundCallHandler) writeError(w http.ResponseWriter, status int, msg string, includeStack bool) {
	resp := OutboundCallResponse{Success: false, Error: msg}
	if includeStack {
		resp.Stack = string(debug.Stack())
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
