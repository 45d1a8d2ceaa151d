package ultravox

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *Client {
	return NewClient(serverURL, "test-key", "fixie-ai/ultravox", "Susi", 5*time.Second)
}

func TestCreateCallSuccess(t *testing.T) {
	var gotAuth string
	var gotReq CreateCallRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/calls", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(CreateCallResponse{
			CallID:  "vox-123",
			JoinURL: "wss://voice.example.com/join/vox-123",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.CreateCall(context.Background(), "Du bist Lisa.", "de")

	require.NoError(t, err)
	assert.Equal(t, "vox-123", resp.CallID)
	assert.Equal(t, "wss://voice.example.com/join/vox-123", resp.JoinURL)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "Du bist Lisa.", gotReq.SystemPrompt)
	assert.Equal(t, "de", gotReq.LanguageHint)
	assert.Equal(t, "FIRST_SPEAKER_USER", gotReq.FirstSpeaker)
	assert.NotNil(t, gotReq.Medium.Twilio, "twilio medium must be requested")
}

func TestCreateCallMissingJoinURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(CreateCallResponse{CallID: "vox-123"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CreateCall(context.Background(), "prompt", "de")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "joinUrl")
}

func TestCreateCallMissingCallID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(CreateCallResponse{JoinURL: "wss://voice.example.com/join"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CreateCall(context.Background(), "prompt", "de")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "callId")
}

func TestCreateCallUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CreateCall(context.Background(), "prompt", "de")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=401")
}

func TestDeleteCall(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	require.NoError(t, client.DeleteCall(context.Background(), "vox-123"))
	assert.Equal(t, "/api/calls/vox-123", gotPath)
}
