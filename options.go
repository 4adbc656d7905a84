package hushbox

import (
	"net/http"
	"time"

	"github.com/hushbox/hushbox/internal/api"
	"github.com/hushbox/hushbox/internal/envelope"
)

// Expiry is the lifetime of a shared secret. The server only accepts the
// four listed values.
type Expiry int

const (
	// Expiry10Minutes destroys the secret 10 minutes after creation.
	Expiry10Minutes Expiry = 10
	// Expiry1Hour destroys the secret 1 hour after creation.
	Expiry1Hour Expiry = 60
	// Expiry6Hours destroys the secret 6 hours after creation.
	Expiry6Hours Expiry = 360
	// Expiry1Day destroys the secret 24 hours after creation.
	Expiry1Day Expiry = 1440
)

// DefaultExpiry is used when no WithExpiry option is given.
const DefaultExpiry = Expiry1Hour

// NoRetries disables retrying when passed to WithRetries.
const NoRetries = api.NoRetries

// Duration returns the expiry as a time.Duration.
func (e Expiry) Duration() time.Duration {
	return time.Duration(e) * time.Minute
}

// Valid reports whether the expiry is one of the accepted values.
func (e Expiry) Valid() bool {
	return envelope.ValidExpiryMinutes(int(e))
}

// String returns a human-readable form like "10 minutes" or "1 day".
func (e Expiry) String() string {
	switch e {
	case Expiry10Minutes:
		return "10 minutes"
	case Expiry1Hour:
		return "1 hour"
	case Expiry6Hours:
		return "6 hours"
	case Expiry1Day:
		return "1 day"
	default:
		return e.Duration().String()
	}
}

const defaultTimeout = 30 * time.Second

// clientConfig holds configuration for the client.
type clientConfig struct {
	httpClient *http.Client
	timeout    time.Duration
	retries    int
	retryDelay time.Duration
	retryOn    []int
}

// shareConfig holds configuration for a single share.
type shareConfig struct {
	expiry      Expiry
	oneTimeView bool
	pin         string
}

// Option configures the client.
type Option func(*clientConfig)

// ShareOption configures secret creation.
type ShareOption func(*shareConfig)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithRetries sets the number of retries for API calls.
func WithRetries(count int) Option {
	return func(c *clientConfig) {
		c.retries = count
	}
}

// WithRetryDelay sets the base delay between retry attempts.
func WithRetryDelay(delay time.Duration) Option {
	return func(c *clientConfig) {
		c.retryDelay = delay
	}
}

// WithRetryOn sets the HTTP status codes that trigger a retry.
// Default: [408, 429, 500, 502, 503, 504]
func WithRetryOn(statusCodes []int) Option {
	return func(c *clientConfig) {
		c.retryOn = statusCodes
	}
}

// WithExpiry sets how long the secret stays retrievable.
func WithExpiry(expiry Expiry) ShareOption {
	return func(c *shareConfig) {
		c.expiry = expiry
	}
}

// WithOneTimeView controls whether the secret is destroyed after its first
// successful view. Secrets are one-time by default.
func WithOneTimeView(oneTime bool) ShareOption {
	return func(c *shareConfig) {
		c.oneTimeView = oneTime
	}
}

// WithPin protects the secret with a PIN. Only a SHA-256 digest of the PIN
// is sent to the server; the recipient must supply the same PIN to open the
// secret.
func WithPin(pin string) ShareOption {
	return func(c *shareConfig) {
		c.pin = pin
	}
}
