package api

import (
	"errors"
	"fmt"
)

// Common API errors that can be checked with errors.Is.
var (
	// ErrSecretGone indicates the secret does not exist on the server.
	// Expired, consumed, and never-created secrets are deliberately
	// indistinguishable.
	ErrSecretGone = errors.New("secret not found")
	// ErrPinRequired indicates the secret is PIN-protected and the request
	// carried no PIN digest.
	ErrPinRequired = errors.New("pin required")
	// ErrPinMismatch indicates the supplied PIN digest was rejected. The
	// secret is not consumed; the caller may retry with a different PIN.
	ErrPinMismatch = errors.New("pin mismatch")
	// ErrPayloadTooLarge indicates the creation payload exceeds server limits.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// PinAttempt records whether a request carried a PIN digest. The server
// answers 401 both when a PIN was required but absent and when the supplied
// PIN was wrong; the client knows which it sent, so the attempt context
// refines error matching.
type PinAttempt string

const (
	// PinUnknown indicates the request context is not known.
	PinUnknown PinAttempt = ""
	// PinAbsent indicates the request carried no PIN digest.
	PinAbsent PinAttempt = "absent"
	// PinSupplied indicates the request carried a PIN digest.
	PinSupplied PinAttempt = "supplied"
)

// APIError represents an HTTP error from a hushbox server.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
	PinAttempt PinAttempt
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		if e.Message != "" {
			return fmt.Sprintf("API error %d: %s (request_id: %s)", e.StatusCode, e.Message, e.RequestID)
		}
		return fmt.Sprintf("API error %d (request_id: %s)", e.StatusCode, e.RequestID)
	}
	if e.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error %d", e.StatusCode)
}

// HushboxError implements the HushboxError interface.
func (e *APIError) HushboxError() {}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case 401:
		// Use PinAttempt for precise error matching
		switch e.PinAttempt {
		case PinSupplied:
			return target == ErrPinMismatch
		case PinAbsent:
			return target == ErrPinRequired
		default:
			// Fallback: match both when the request context is unknown
			return target == ErrPinMismatch || target == ErrPinRequired
		}
	case 404:
		return target == ErrSecretGone
	case 413:
		return target == ErrPayloadTooLarge
	case 429:
		return target == ErrRateLimited
	}
	return false
}

// WithPinAttempt returns a copy of the error annotated with whether the
// request carried a PIN digest. If the error is not an *APIError, it is
// returned unchanged.
func WithPinAttempt(err error, pa PinAttempt) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			RequestID:  apiErr.RequestID,
			PinAttempt: pa,
		}
	}
	return err
}

// NetworkError represents a network-level failure.
type NetworkError struct {
	Err     error
	URL     string
	Attempt int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HushboxError implements the HushboxError interface.
func (e *NetworkError) HushboxError() {}
