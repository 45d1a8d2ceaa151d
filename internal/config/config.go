package config

import (
	"strings"
	"time"
)

// Config holds the outbound call service configuration.
type Config struct {
	Port   string
	LogEnv string

	// Ultravox voice-AI configuration
	UltravoxAPIKey  string
	UltravoxBaseURL string
	UltravoxModel   string
	UltravoxVoice   string
	LanguageHint    string

	// Twilio telephony configuration
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string

	// Outbound HTTP client timeout for provider calls
	ProviderTimeout time.Duration

	// Session registry housekeeping
	SessionRetention time.Duration // how long completed sessions are kept
	SessionMaxAge    time.Duration // hard upper bound on any session's lifetime
	CleanupInterval  time.Duration

	// Optional API key protection for the initiation endpoint
	SecretKey string

	// Instance identifier for multi-pod session monitoring
	InstanceID string
}

// IsDevelopment reports whether the service runs in a development configuration.
// Error responses include stack traces only in this mode.
func (c *Config) IsDevelopment() bool {
	return !strings.EqualFold(c.LogEnv, "prod") && !strings.EqualFold(c.LogEnv, "production")
}
