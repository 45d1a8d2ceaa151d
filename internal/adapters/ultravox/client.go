package ultravox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/terminassist/voice-call-service/pkg/logger"
	"go.uber.org/zap"
)

// Client talks to the Ultravox REST API.
type Client struct {
	BaseURL    string
	APIKey     string
	Model      string
	Voice      string
	HTTPClient *http.Client
}

// CreateCallRequest is the session-creation payload.
type CreateCallRequest struct {
	SystemPrompt string     `json:"systemPrompt"`
	Model        string     `json:"model"`
	Voice        string     `json:"voice"`
	LanguageHint string     `json:"languageHint,omitempty"`
	FirstSpeaker string     `json:"firstSpeaker"`
	Medium       CallMedium `json:"medium"`
}

// CallMedium selects the transport for the voice session. Twilio bridging is
// requested with an empty twilio object.
type CallMedium struct {
	Twilio *TwilioMedium `json:"twilio,omitempty"`
}

type TwilioMedium struct{}

// CreateCallResponse carries the session id and the join URL the telephony
// leg dials into.
type CreateCallResponse struct {
	CallID  string `json:"callId"`
	JoinURL string `json:"joinUrl"`
}

// NewClient creates an Ultravox API client.
func NewClient(baseURL, apiKey, model, voice string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		Voice:   voice,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateCall creates a new voice session. The returned call id and join URL
// are both validated before the response is handed back; a malformed upstream
// body fails here rather than during telephony placement.
func (c *Client) CreateCall(ctx context.Context, systemPrompt, languageHint string) (*CreateCallResponse, error) {
	url := fmt.Sprintf("%s/api/calls", c.BaseURL)

	request := CreateCallRequest{
		SystemPrompt: systemPrompt,
		Model:        c.Model,
		Voice:        c.Voice,
		LanguageHint: languageHint,
		FirstSpeaker: "FIRST_SPEAKER_USER",
		Medium:       CallMedium{Twilio: &TwilioMedium{}},
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	logger.Base().Info("ultravox api response",
		zap.Int("status_code", resp.StatusCode),
		zap.Int("body_length", len(bodyBytes)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("ultravox api error: status=%d, body=%s", resp.StatusCode, string(bodyBytes))
	}

	var response CreateCallResponse
	if err := json.Unmarshal(bodyBytes, &response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if response.CallID == "" {
		return nil, fmt.Errorf("ultravox response missing callId")
	}
	if response.JoinURL == "" {
		return nil, fmt.Errorf("ultravox response missing joinUrl")
	}

	logger.Base().Info("ultravox call created", zap.String("call_id", response.CallID))
	return &response, nil
}

// DeleteCall releases a voice session. Used as compensation when telephony
// placement fails after the session was already created.
func (c *Client) DeleteCall(ctx context.Context, callID string) error {
	url := fmt.Sprintf("%s/api/calls/%s", c.BaseURL, callID)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ultravox api error: status=%d, body=%s", resp.StatusCode, string(bodyBytes))
	}

	logger.Base().Info("ultravox call deleted", zap.String("call_id", callID))
	return nil
}
