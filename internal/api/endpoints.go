package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/hushbox/hushbox/internal/envelope"
)

// CreateSecret uploads an encrypted envelope and returns the ID assigned to
// the new secret. The envelope must already be encrypted and validated; the
// server stores it as-is.
func (c *Client) CreateSecret(ctx context.Context, env *envelope.Envelope) (*CreateSecretResponse, error) {
	var result CreateSecretResponse
	if err := c.Do(ctx, http.MethodPost, "/api/secrets", env, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetSecretStatus reports whether a secret is viewable and whether opening
// it requires a PIN. Unknown IDs report Exists=false rather than an error.
func (c *Client) GetSecretStatus(ctx context.Context, id string) (*StatusResponse, error) {
	path := fmt.Sprintf("/api/secrets/%s", url.PathEscape(id))
	var result StatusResponse
	if err := c.Do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// OpenSecret retrieves the stored envelope for a secret. pinHash must be the
// hex SHA-256 digest of the PIN for PIN-protected secrets and empty
// otherwise. Opening a one-time-view secret consumes it.
func (c *Client) OpenSecret(ctx context.Context, id, pinHash string) (*OpenSecretResponse, error) {
	path := fmt.Sprintf("/api/secrets/%s/open", url.PathEscape(id))
	req := OpenSecretRequest{PinHash: pinHash}

	var result OpenSecretResponse
	if err := c.Do(ctx, http.MethodPost, path, req, &result); err != nil {
		if pinHash == "" {
			return nil, WithPinAttempt(err, PinAbsent)
		}
		return nil, WithPinAttempt(err, PinSupplied)
	}
	return &result, nil
}

// BurnSecret destroys a secret before it is viewed or expires. The server
// responds identically whether or not the secret existed, so a nil error
// only means the ID is now certainly gone.
func (c *Client) BurnSecret(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/secrets/%s", url.PathEscape(id))
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}
