package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/terminassist/voice-call-service/internal/services/call"
	"github.com/terminassist/voice-call-service/pkg/logger"
	"go.uber.org/zap"
)

const defaultRecentLimit = 20

// CallRecordHandler serves read access to persisted call records. Only
// registered when a database is configured.
type CallRecordHandler struct {
	records call.RecordStore
}

// NewCallRecordHandler creates a new call record handler.
func NewCallRecordHandler(records call.RecordStore) *CallRecordHandler {
	return &CallRecordHandler{records: records}
}

// SetupRoutes registers the call record endpoints.
func (h *CallRecordHandler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/calls/recent", h.HandleRecentCalls).Methods("GET")
	router.HandleFunc("/calls/{callSid}", h.HandleGetCall).Methods("GET")

	logger.Base().Info("call record routes registered")
}

// HandleGetCall returns the persisted record for one call.
// GET /calls/{callSid}
func (h *CallRecordHandler) HandleGetCall(w http.ResponseWriter, r *http.Request) {
	callSid := mux.Vars(r)["callSid"]

	record, err := h.records.GetByCallSid(r.Context(), callSid)
	if err != nil {
		logger.Base().Error("failed to load call record",
			zap.String("call_sid", callSid), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if record == nil {
		http.Error(w, "call record not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(record)
}

// HandleRecentCalls returns the most recent finished calls, newest first.
// GET /calls/recent?limit=N
func (h *CallRecordHandler) HandleRecentCalls(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, err := h.records.FindRecent(r.Context(), limit)
	if err != nil {
		logger.Base().Error("failed to list call records", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(records)
}
