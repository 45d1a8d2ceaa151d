package registry

import (
	"context"
	"sync"
	"time"

	"github.com/terminassist/voice-call-service/internal/domain"
	"github.com/terminassist/voice-call-service/pkg/logger"
	"go.uber.org/zap"
)

// Status is the lifecycle state of a call session.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// CallSession correlates a Twilio call leg with its Ultravox voice session.
type CallSession struct {
	CallSid        string
	PhoneNumber    string
	Booking        domain.BookingDetails
	VoiceSessionID string
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Registry is the in-process store of call sessions. All access goes through
// one RWMutex; a secondary index maps voice session ids back to call SIDs so
// webhook lookups stay O(1).
type Registry struct {
	mu         sync.RWMutex
	sessions   map[string]*CallSession // call SID -> session
	voiceIndex map[string]string       // voice session id -> call SID

	retention time.Duration // completed sessions kept this long
	maxAge    time.Duration // any session evicted after this long
}

// New creates a registry. Completed sessions are evicted after retention,
// and any session after maxAge, by CleanupExpired.
func New(retention, maxAge time.Duration) *Registry {
	return &Registry{
		sessions:   make(map[string]*CallSession),
		voiceIndex: make(map[string]string),
		retention:  retention,
		maxAge:     maxAge,
	}
}

// GetOrCreate returns the session for callSid, creating it in pending state if
// absent. First write wins: details on subsequent calls are ignored.
func (r *Registry) GetOrCreate(callSid, phoneNumber string, booking domain.BookingDetails) *CallSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.sessions[callSid]; ok {
		return existing
	}

	now := time.Now()
	s := &CallSession{
		CallSid:     callSid,
		PhoneNumber: phoneNumber,
		Booking:     booking,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.sessions[callSid] = s
	return s
}

// Get returns the session for callSid, if present.
func (r *Registry) Get(callSid string) (*CallSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[callSid]
	return s, ok
}

// SetVoiceSession links the voice session id to an existing session and marks
// it active. The id is write-once; re-linking a session is a no-op.
func (r *Registry) SetVoiceSession(callSid, voiceSessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[callSid]
	if !ok {
		return false
	}
	if s.VoiceSessionID != "" {
		logger.Base().Warn("voice session already linked, ignoring",
			zap.String("call_sid", callSid),
			zap.String("voice_session_id", s.VoiceSessionID))
		return false
	}

	s.VoiceSessionID = voiceSessionID
	s.Status = StatusActive
	s.UpdatedAt = time.Now()
	r.voiceIndex[voiceSessionID] = callSid
	return true
}

// FindByVoiceSessionID resolves a voice session id through the secondary index.
func (r *Registry) FindByVoiceSessionID(voiceSessionID string) (*CallSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	callSid, ok := r.voiceIndex[voiceSessionID]
	if !ok {
		return nil, false
	}
	s, ok := r.sessions[callSid]
	return s, ok
}

// Complete marks the session completed. Idempotent on repeated calls.
func (r *Registry) Complete(callSid string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[callSid]
	if !ok {
		return false
	}
	if s.Status != StatusCompleted {
		s.Status = StatusCompleted
		s.UpdatedAt = time.Now()
	}
	return true
}

// Size returns the number of tracked sessions.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CleanupExpired evicts completed sessions past the retention window and any
// session past the max age. Returns the number of evicted sessions.
func (r *Registry) CleanupExpired() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	evicted := 0
	for sid, s := range r.sessions {
		expired := (s.Status == StatusCompleted && now.Sub(s.UpdatedAt) > r.retention) ||
			now.Sub(s.CreatedAt) > r.maxAge
		if !expired {
			continue
		}
		delete(r.sessions, sid)
		if s.VoiceSessionID != "" {
			delete(r.voiceIndex, s.VoiceSessionID)
		}
		evicted++
	}
	return evicted
}

// StartCleanupRoutine runs CleanupExpired on an interval until ctx is done.
// Non-positive intervals are clamped; time.NewTicker panics on them.
func (r *Registry) StartCleanupRoutine(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := r.CleanupExpired(); n > 0 {
				logger.Base().Info("evicted expired call sessions", zap.Int("count", n))
			}
		case <-ctx.Done():
			return
		}
	}
}
