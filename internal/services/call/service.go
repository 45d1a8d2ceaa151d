package call

import (
	"context"
	"encoding/json"
	"time"

	"github.com/terminassist/voice-call-service/internal/adapters/telephony"
	"github.com/terminassist/voice-call-service/internal/adapters/ultravox"
	"github.com/terminassist/voice-call-service/internal/domain"
	"github.com/terminassist/voice-call-service/internal/prompts"
	"github.com/terminassist/voice-call-service/internal/registry"
	"github.com/terminassist/voice-call-service/internal/session"
	"github.com/terminassist/voice-call-service/pkg/logger"
	"go.uber.org/zap"
)

// VoiceClient creates and releases voice-AI sessions.
type VoiceClient interface {
	CreateCall(ctx context.Context, systemPrompt, languageHint string) (*ultravox.CreateCallResponse, error)
	DeleteCall(ctx context.Context, callID string) error
}

// RecordStore persists and retrieves finished call records.
type RecordStore interface {
	Create(ctx context.Context, record *domain.CallRecord) error
	GetByCallSid(ctx context.Context, callSid string) (*domain.CallRecord, error)
	FindRecent(ctx context.Context, limit int) ([]*domain.CallRecord, error)
}

// Service orchestrates outbound appointment calls: it creates the voice
// session, places the telephony leg, and records the correlation. It also
// consumes the voice provider's webhook events.
type Service struct {
	registry     *registry.Registry
	voice        VoiceClient
	phone        telephony.Placer
	sessions     *session.Manager // nil when Redis is not configured
	records      RecordStore      // nil when no database is configured
	languageHint string
}

// NewService wires the orchestrator. sessions and records may be nil; the
// corresponding side effects are then skipped.
func NewService(reg *registry.Registry, voice VoiceClient, phone telephony.Placer,
	sessions *session.Manager, records RecordStore, languageHint string) *Service {
	return &Service{
		registry:     reg,
		voice:        voice,
		phone:        phone,
		sessions:     sessions,
		records:      records,
		languageHint: languageHint,
	}
}

// Result carries the identifiers of a successfully initiated call.
type Result struct {
	CallSid     string
	VoiceCallID string
}

// InitiateCall runs the outbound-call sequence for one booking.
func (s *Service) InitiateCall(ctx context.Context, phoneNumber string, booking domain.BookingDetails) (*Result, error) {
	if phoneNumber == "" {
		return nil, ErrMissingPhoneNumber
	}

	booking = booking.WithDefaults()
	logger.Base().Info("booking details resolved",
		zap.String("request_id", booking.RequestID),
		zap.String("termin_typ", booking.AppointmentType),
		zap.String("datum", booking.Date),
		zap.String("uhrzeit", booking.Time))

	systemPrompt := prompts.BuildSystemPrompt(booking)

	voiceCall, err := s.voice.CreateCall(ctx, systemPrompt, s.languageHint)
	if err != nil {
		return nil, &UpstreamError{Provider: "ultravox", Err: err}
	}
	logger.Base().Info("voice session created",
		zap.String("voice_session_id", voiceCall.CallID),
		zap.String("request_id", booking.RequestID))

	callSid, err := s.phone.PlaceCall(ctx, phoneNumber, voiceCall.JoinURL)
	if err != nil {
		// The voice session was already created; release it so it does not
		// idle until provider-side expiry.
		if delErr := s.voice.DeleteCall(ctx, voiceCall.CallID); delErr != nil {
			logger.Base().Warn("failed to release orphaned voice session",
				zap.String("voice_session_id", voiceCall.CallID),
				zap.Error(delErr))
		}
		return nil, &UpstreamError{Provider: "twilio", Err: err}
	}
	logger.Base().Info("telephony call placed",
		zap.String("call_sid", callSid),
		zap.String("voice_session_id", voiceCall.CallID))

	s.registry.GetOrCreate(callSid, phoneNumber, booking)
	s.registry.SetVoiceSession(callSid, voiceCall.CallID)

	if s.sessions != nil {
		if err := s.sessions.Register(ctx, session.SessionInfo{
			CallSid:        callSid,
			VoiceSessionID: voiceCall.CallID,
			PhoneNumber:    phoneNumber,
		}); err != nil {
			logger.Base().Warn("failed to mirror session to redis", zap.Error(err))
		}
	}

	return &Result{CallSid: callSid, VoiceCallID: voiceCall.CallID}, nil
}

// HandleVoiceEvent dispatches a webhook event from the voice provider.
// Unknown sessions and unrecognized event tags are logged and acknowledged;
// the returned error is reserved for unexpected internal failures.
func (s *Service) HandleVoiceEvent(ctx context.Context, event domain.VoiceEvent) error {
	sess, ok := s.registry.FindByVoiceSessionID(event.CallID)
	if !ok {
		logger.Base().Warn("webhook for unknown voice session",
			zap.String("event", event.Event),
			zap.String("voice_session_id", event.CallID))
		return nil
	}

	switch event.Event {
	case domain.EventCallEnded:
		s.handleCallEnded(ctx, sess, event.Data)

	case domain.EventTranscription:
		var data domain.TranscriptionData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			logger.Base().Warn("malformed transcription payload",
				zap.String("voice_session_id", event.CallID), zap.Error(err))
			return nil
		}
		logger.Base().Info("call transcription",
			zap.String("call_sid", sess.CallSid),
			zap.String("role", data.Role),
			zap.String("text", data.Text))

	default:
		logger.Base().Warn("unrecognized voice event",
			zap.String("event", event.Event),
			zap.String("call_sid", sess.CallSid))
	}

	return nil
}

func (s *Service) handleCallEnded(ctx context.Context, sess *registry.CallSession, payload json.RawMessage) {
	s.registry.Complete(sess.CallSid)

	var data domain.CallEndedData
	if err := json.Unmarshal(payload, &data); err != nil {
		logger.Base().Warn("malformed call.ended payload",
			zap.String("call_sid", sess.CallSid), zap.Error(err))
	}
	logger.Base().Info("call ended",
		zap.String("call_sid", sess.CallSid),
		zap.String("voice_session_id", sess.VoiceSessionID),
		zap.String("end_reason", data.EndReason))

	if s.sessions != nil {
		if err := s.sessions.Unregister(ctx, sess.CallSid); err != nil {
			logger.Base().Warn("failed to remove session mirror", zap.Error(err))
		}
	}

	if s.records != nil {
		record := &domain.CallRecord{
			CallSid:         sess.CallSid,
			VoiceSessionID:  sess.VoiceSessionID,
			RequestID:       sess.Booking.RequestID,
			PhoneNumber:     sess.PhoneNumber,
			PatientName:     sess.Booking.PatientName,
			AppointmentType: sess.Booking.AppointmentType,
			AppointmentDate: sess.Booking.Date,
			AppointmentTime: sess.Booking.Time,
			Location:        sess.Booking.Location,
			Status:          string(registry.StatusCompleted),
			Outcome:         data.Summary,
			EndedAt:         time.Now(),
		}
		if err := s.records.Create(ctx, record); err != nil {
			logger.Base().Error("failed to persist call record",
				zap.String("call_sid", sess.CallSid), zap.Error(err))
		}
	}
}

// ActiveSessions returns the size of the session registry.
func (s *Service) ActiveSessions() int {
	return s.registry.Size()
}
