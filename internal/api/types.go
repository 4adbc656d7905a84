package api

import (
	"time"

	"github.com/hushbox/hushbox/internal/envelope"
)

// CreateSecretResponse represents the POST /api/secrets response. The body
// of the request itself is an [envelope.Envelope].
type CreateSecretResponse struct {
	ID string `json:"id"`
}

// StatusResponse represents the GET /api/secrets/{id} response. The endpoint
// answers 200 for every well-formed ID: unknown, expired, and consumed
// secrets all report Exists=false so that terminal states cannot be told
// apart from secrets that never existed.
type StatusResponse struct {
	Exists      bool `json:"exists"`
	RequiresPin bool `json:"requires_pin"`
	// Terminal reports that the ID will never become viewable again and
	// polling it is pointless. It is the negation of Exists on the wire
	// today; clients should rely on it rather than on that coincidence.
	Terminal bool `json:"terminal"`
}

// OpenSecretRequest represents the POST /api/secrets/{id}/open request.
type OpenSecretRequest struct {
	PinHash string `json:"pin_hash,omitempty"`
}

// OpenSecretResponse represents the POST /api/secrets/{id}/open response:
// the stored envelope plus server-side metadata. Opening a one-time-view
// secret consumes it, so callers must not expect a second successful open.
type OpenSecretResponse struct {
	ID string `json:"id"`
	envelope.Envelope
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
