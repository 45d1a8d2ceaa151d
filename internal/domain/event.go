package domain

import "encoding/json"

// Voice provider webhook event names.
const (
	EventCallEnded     = "call.ended"
	EventTranscription = "call.transcription"
)

// VoiceEvent is the webhook envelope delivered by the voice-AI provider.
// CallID is the provider's session identifier, not the Twilio call SID.
type VoiceEvent struct {
	Event  string          `json:"event"`
	CallID string          `json:"callId"`
	Data   json.RawMessage `json:"data"`
}

// TranscriptionData is the payload of a call.transcription event.
type TranscriptionData struct {
	Role string `json:"role,omitempty"`
	Text string `json:"text"`
}

// CallEndedData is the payload of a call.ended event.
type CallEndedData struct {
	EndReason string `json:"endReason,omitempty"`
	Summary   string `json:"summary,omitempty"`
}
