package call

import (
	"errors"
	"fmt"
)

// ErrMissingPhoneNumber is returned when an initiation request has no
// destination number. Surfaced to the caller as HTTP 400.
var ErrMissingPhoneNumber = errors.New("telefonnummer is required")

// UpstreamError wraps a failure from the voice-AI or telephony provider.
// Surfaced to the caller as HTTP 500; never retried internally.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
