package telephony

import (
	"context"
	"fmt"

	"github.com/terminassist/voice-call-service/pkg/logger"
	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// Placer places outbound telephone calls.
type Placer interface {
	// PlaceCall dials the destination number and bridges the answered call
	// into the voice session behind joinURL. Returns the provider call SID.
	PlaceCall(ctx context.Context, to, joinURL string) (string, error)
}

// TwilioPlacer places calls through the Twilio REST API.
type TwilioPlacer struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioPlacer creates a Twilio-backed call placer.
func NewTwilioPlacer(accountSID, authToken, from string) *TwilioPlacer {
	return &TwilioPlacer{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
	}
}

// PlaceCall creates the outbound call with inline TwiML that streams the
// audio leg into the voice session's join URL.
func (p *TwilioPlacer) PlaceCall(ctx context.Context, to, joinURL string) (string, error) {
	twiml := fmt.Sprintf(`<Response><Connect><Stream url=%q /></Connect></Response>`, joinURL)

	params := &api.CreateCallParams{}
	params.SetTo(to)
	params.SetFrom(p.from)
	params.SetTwiml(twiml)

	resp, err := p.client.Api.CreateCall(params)
	if err != nil {
		return "", fmt.Errorf("failed to place twilio call: %w", err)
	}
	if resp.Sid == nil || *resp.Sid == "" {
		return "", fmt.Errorf("twilio response missing call sid")
	}

	logger.Base().Info("twilio call placed",
		zap.String("call_sid", *resp.Sid),
		zap.String("to", to))
	return *resp.Sid, nil
}
