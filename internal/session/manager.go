package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/terminassist/voice-call-service/pkg/logger"
	"github.com/terminassist/voice-call-service/pkg/redis"
	"go.uber.org/zap"
)

const (
	SessionKeyPrefix = "termin:voice:session:info"
	SessionTTL       = 1 * time.Hour
)

// SessionInfo is the monitoring record mirrored to Redis for each placed call.
// It lets operators see which instance owns which live call; the in-process
// registry remains the source of truth for correlation.
type SessionInfo struct {
	CallSid        string    `json:"callSid"`
	VoiceSessionID string    `json:"voiceSessionId"`
	PhoneNumber    string    `json:"phoneNumber"`
	InstanceID     string    `json:"instanceId"`
	StartTime      time.Time `json:"startTime"`
}

// Manager mirrors call session info into Redis with a TTL.
type Manager struct {
	redisSvc   redis.RedisServiceInterface
	instanceID string
}

func NewManager(redisSvc redis.RedisServiceInterface, instanceID string) *Manager {
	return &Manager{
		redisSvc:   redisSvc,
		instanceID: instanceID,
	}
}

// Register stores session info under a TTL key.
func (m *Manager) Register(ctx context.Context, info SessionInfo) error {
	info.InstanceID = m.instanceID
	if info.StartTime.IsZero() {
		info.StartTime = time.Now()
	}

	data, _ := json.Marshal(info)
	key := fmt.Sprintf("%s:%s", SessionKeyPrefix, info.CallSid)

	err := m.redisSvc.SetValue(ctx, key, string(data), SessionTTL)
	if err == nil {
		logger.Base().Info("session registered in redis",
			zap.String("call_sid", info.CallSid),
			zap.String("instance_id", m.instanceID))
	}
	return err
}

// Unregister removes the session info key once the call ends.
func (m *Manager) Unregister(ctx context.Context, callSid string) error {
	key := fmt.Sprintf("%s:%s", SessionKeyPrefix, callSid)
	return m.redisSvc.DelValue(ctx, key)
}
