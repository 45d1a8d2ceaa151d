package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terminassist/voice-call-service/internal/domain"
	"github.com/terminassist/voice-call-service/internal/registry"
	"github.com/terminassist/voice-call-service/internal/services/call"
)

func newTestWebhookHandler() (*WebhookHandler, *registry.Registry) {
	reg := registry.New(time.Hour, 24*time.Hour)
	svc := call.NewService(reg, &fakeVoiceClient{}, &fakePlacer{}, nil, nil, "de")
	return NewWebhookHandler(svc), reg
}

func registerActiveCall(t *testing.T, reg *registry.Registry, callSid, voiceSessionID string) *registry.CallSession {
	t.Helper()
	sess := reg.GetOrCreate(callSid, "+491234567", domain.BookingDetails{}.WithDefaults())
	require.True(t, reg.SetVoiceSession(callSid, voiceSessionID))
	return sess
}

func postWebhook(h *WebhookHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleVoiceWebhook(rec, req)
	return rec
}

func TestHandleVoiceWebhookCallEnded(t *testing.T) {
	h, reg := newTestWebhookHandler()
	sess := registerActiveCall(t, reg, "CA1234", "vox-123")

	rec := postWebhook(h, `{"event": "call.ended", "callId": "vox-123", "data": {"summary": "Termin bestätigt"}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, registry.StatusCompleted, sess.Status)
}

func TestHandleVoiceWebhookCallEndedIdempotent(t *testing.T) {
	h, reg := newTestWebhookHandler()
	sess := registerActiveCall(t, reg, "CA1234", "vox-123")

	for i := 0; i < 2; i++ {
		rec := postWebhook(h, `{"event": "call.ended", "callId": "vox-123"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, registry.StatusCompleted, sess.Status)
}

func TestHandleVoiceWebhookUnknownCallID(t *testing.T) {
	h, _ := newTestWebhookHandler()

	rec := postWebhook(h, `{"event": "call.ended", "callId": "vox-unknown"}`)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleVoiceWebhookUnrecognizedEvent(t *testing.T) {
	h, reg := newTestWebhookHandler()
	sess := registerActiveCall(t, reg, "CA1234", "vox-123")

	rec := postWebhook(h, `{"event": "unknown.thing", "callId": "vox-123"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, registry.StatusActive, sess.Status)
}

func TestHandleVoiceWebhookTranscription(t *testing.T) {
	h, reg := newTestWebhookHandler()
	sess := registerActiveCall(t, reg, "CA1234", "vox-123")

	rec := postWebhook(h, `{"event": "call.transcription", "callId": "vox-123", "data": {"role": "user", "text": "Ja, passt"}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, registry.StatusActive, sess.Status)
}

func TestHandleVoiceWebhookMalformedPayload(t *testing.T) {
	h, _ := newTestWebhookHandler()

	rec := postWebhook(h, `{"event": `)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, rec.Body.String(), "internal error")
}
