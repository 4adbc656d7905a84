package hushbox

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hushbox/hushbox/internal/api"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingServerURL is returned when no server URL is provided.
	ErrMissingServerURL = errors.New("server URL is required")

	// ErrRandomUnavailable is returned when the system random source fails.
	// There is no fallback source; nothing is encrypted or uploaded.
	ErrRandomUnavailable = errors.New("random source unavailable")

	// ErrDecryptionFailed is returned when a retrieved payload cannot be
	// decrypted. The key in the link is wrong or the ciphertext was altered.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrSecretGone is returned when a secret does not exist. Expired,
	// consumed, and never-created secrets are indistinguishable.
	ErrSecretGone = errors.New("secret not found")

	// ErrPinRequired is returned when a secret is PIN-protected and no PIN
	// was supplied.
	ErrPinRequired = errors.New("pin required")

	// ErrPinMismatch is returned when the supplied PIN was rejected. The
	// secret is not consumed; retrying with another PIN is safe.
	ErrPinMismatch = errors.New("pin mismatch")

	// ErrRateLimited is returned when the server rate limit is exceeded.
	// The request may be retried after a backoff.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrTooManyFiles is returned when a secret carries more attachments
	// than the server accepts.
	ErrTooManyFiles = errors.New("too many files")

	// ErrPayloadTooLarge is returned when the attachments exceed the
	// aggregate size limit.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrInvalidShareLink is returned when a share link cannot be parsed.
	ErrInvalidShareLink = errors.New("invalid share link")

	// ErrInvalidExpiry is returned when the expiry is not one of the
	// accepted values.
	ErrInvalidExpiry = errors.New("invalid expiry")
)

// HushboxError is implemented by all SDK errors.
type HushboxError interface {
	error
	HushboxError() // marker method
}

// APIError represents an HTTP error from a hushbox server.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string // if returned by server
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
		// Check message content to distinguish a missing PIN from a wrong
		// one; the server uses 401 for both.
		msgLower := strings.ToLower(e.Message)
		hasMismatch := strings.Contains(msgLower, "mismatch")
		hasRequired := strings.Contains(msgLower, "required")

		if target == ErrPinMismatch {
			return hasMismatch || (!hasMismatch && !hasRequired)
		}
		if target == ErrPinRequired {
			return hasRequired || (!hasMismatch && !hasRequired)
		}
		return false
	case 404:
		return target == ErrSecretGone
	case 413:
		return target == ErrPayloadTooLarge
	case 429:
		return target == ErrRateLimited
	}
	return false
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

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HushboxError implements the HushboxError interface.
func (e *NetworkError) HushboxError() {}

// DecryptionError reports a payload that could not be decrypted.
type DecryptionError struct {
	Part string // "text" or the filename of the attachment
	Err  error
}

func (e *DecryptionError) Error() string {
	return fmt.Sprintf("decrypt %s: %v", e.Part, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecryptionError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *DecryptionError) Is(target error) bool {
	return target == ErrDecryptionFailed
}

// HushboxError implements the HushboxError interface.
func (e *DecryptionError) HushboxError() {}

// wrapError converts internal API errors to public errors.
// This ensures that errors.Is() checks work with public sentinel errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		public := &APIError{
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			RequestID:  apiErr.RequestID,
		}
		// The transport layer knows whether the request carried a PIN;
		// fold that into the message when the server's own text is vague
		// so 401 matching stays precise.
		if apiErr.StatusCode == 401 && public.Message == "" {
			switch apiErr.PinAttempt {
			case api.PinSupplied:
				public.Message = "pin mismatch"
			case api.PinAbsent:
				public.Message = "pin required"
			}
		}
		return public
	}

	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		return &NetworkError{
			Err:     netErr.Err,
			URL:     netErr.URL,
			Attempt: netErr.Attempt,
		}
	}

	return err
}
