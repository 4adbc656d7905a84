package hushbox

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hushbox/hushbox/internal/api"
	"github.com/hushbox/hushbox/internal/crypto"
	"github.com/hushbox/hushbox/internal/envelope"
)

// Client is the Hushbox client used to share, inspect, open, and burn
// secrets. It is safe for concurrent use.
type Client struct {
	apiClient *api.Client
	baseURL   string
}

// New creates a client for the Hushbox server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrMissingServerURL
	}

	cfg := &clientConfig{
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	apiClient, err := api.NewClient(api.Config{
		BaseURL:    baseURL,
		HTTPClient: cfg.httpClient,
		Timeout:    cfg.timeout,
		MaxRetries: cfg.retries,
		RetryDelay: cfg.retryDelay,
		RetryOn:    cfg.retryOn,
	})
	if err != nil {
		return nil, err //coverage:ignore
	}

	return &Client{
		apiClient: apiClient,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// BaseURL returns the server URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Share encrypts secret locally and uploads the resulting envelope. The
// returned link carries the encryption key in its URL fragment, so the
// server never learns it. Limits are checked before any network traffic:
// at most MaxFiles attachments totalling MaxTotalFileBytes of plaintext.
func (c *Client) Share(ctx context.Context, secret *Secret, opts ...ShareOption) (*ShareResult, error) {
	if secret == nil {
		return nil, fmt.Errorf("secret is nil")
	}

	cfg := &shareConfig{
		expiry:      DefaultExpiry,
		oneTimeView: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if !cfg.expiry.Valid() {
		return nil, fmt.Errorf("%w: %d minutes", ErrInvalidExpiry, int(cfg.expiry))
	}
	if len(secret.Files) > MaxFiles {
		return nil, fmt.Errorf("%w: %d files, limit %d", ErrTooManyFiles, len(secret.Files), MaxFiles)
	}
	if total := secret.totalFileBytes(); total > MaxTotalFileBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrPayloadTooLarge, total, MaxTotalFileBytes)
	}

	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, ErrRandomUnavailable
	}

	env := &envelope.Envelope{
		ExpiryMinutes: int(cfg.expiry),
		OneTimeView:   cfg.oneTimeView,
	}
	if cfg.pin != "" {
		env.PinHash = crypto.HashPIN(cfg.pin)
	}

	ciphertext, iv, err := crypto.Encrypt([]byte(secret.Text), key)
	if err != nil {
		if errors.Is(err, crypto.ErrRandomUnavailable) {
			return nil, ErrRandomUnavailable
		}
		return nil, fmt.Errorf("encrypt text: %w", err) //coverage:ignore
	}
	env.EncryptedData = ciphertext
	env.IV = crypto.IVToHex(iv)

	if len(secret.Files) > 0 {
		files := make([]envelope.FileEnvelope, len(secret.Files))
		var g errgroup.Group
		for i, f := range secret.Files {
			i, f := i, f
			g.Go(func() error {
				fileCiphertext, fileIV, err := crypto.EncryptBinary(f.Data, key)
				if err != nil {
					return err
				}
				files[i] = envelope.FileEnvelope{
					EncryptedData: fileCiphertext,
					IV:            crypto.IVToHex(fileIV),
					Filename:      f.Name,
					FileType:      f.Type,
					FileSize:      int64(len(f.Data)),
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			if errors.Is(err, crypto.ErrRandomUnavailable) {
				return nil, ErrRandomUnavailable
			}
			return nil, fmt.Errorf("encrypt files: %w", err) //coverage:ignore
		}
		env.Files = files
	}

	if err := env.Validate(); err != nil {
		return nil, fmt.Errorf("validate envelope: %w", err) //coverage:ignore
	}

	resp, err := c.apiClient.CreateSecret(ctx, env)
	if err != nil {
		return nil, wrapError(err)
	}

	keyHex := crypto.KeyToHex(key)
	link, err := envelope.BuildShareLink(c.baseURL, resp.ID, keyHex)
	if err != nil {
		return nil, fmt.Errorf("build share link: %w", err) //coverage:ignore
	}

	return &ShareResult{
		ID:   resp.ID,
		Key:  keyHex,
		Link: link,
	}, nil
}

// Status reports whether a secret is still viewable and whether opening it
// needs a PIN. linkOrID may be a full share link, the bare "id#key" form,
// or a bare 64-hex ID; the key part is ignored and never transmitted.
func (c *Client) Status(ctx context.Context, linkOrID string) (*Status, error) {
	id, err := resolveSecretID(linkOrID)
	if err != nil {
		return nil, err
	}

	resp, err := c.apiClient.GetSecretStatus(ctx, id)
	if err != nil {
		return nil, wrapError(err)
	}

	return &Status{
		Exists:      resp.Exists,
		RequiresPin: resp.RequiresPin,
		Terminal:    resp.Terminal,
	}, nil
}

// Open retrieves and decrypts a secret. pin must be the PIN chosen at share
// time for PIN-protected secrets and empty otherwise; only its SHA-256
// digest leaves the process. Opening a one-time-view secret consumes it, so
// keep the result: a second Open returns ErrSecretGone.
func (c *Client) Open(ctx context.Context, link string, pin string) (*OpenedSecret, error) {
	id, keyHex, err := envelope.ParseShareLink(link)
	if err != nil {
		return nil, ErrInvalidShareLink
	}
	key, err := crypto.KeyFromHex(keyHex)
	if err != nil {
		return nil, ErrInvalidShareLink //coverage:ignore
	}

	var pinHash string
	if pin != "" {
		pinHash = crypto.HashPIN(pin)
	}

	resp, err := c.apiClient.OpenSecret(ctx, id, pinHash)
	if err != nil {
		return nil, wrapError(err)
	}

	iv, err := crypto.IVFromHex(resp.IV)
	if err != nil {
		return nil, &DecryptionError{Part: "text", Err: err}
	}
	text, err := crypto.Decrypt(resp.EncryptedData, key, iv)
	if err != nil {
		return nil, &DecryptionError{Part: "text", Err: err}
	}

	opened := &OpenedSecret{
		Text:        string(text),
		OneTimeView: resp.OneTimeView,
		CreatedAt:   resp.CreatedAt,
		ExpiresAt:   resp.ExpiresAt,
	}

	if len(resp.Files) > 0 {
		files := make([]File, len(resp.Files))
		var g errgroup.Group
		for i, fe := range resp.Files {
			i, fe := i, fe
			g.Go(func() error {
				fileIV, err := crypto.IVFromHex(fe.IV)
				if err != nil {
					return &DecryptionError{Part: fe.Filename, Err: err}
				}
				data, err := crypto.DecryptBinary(fe.EncryptedData, key, fileIV)
				if err != nil {
					return &DecryptionError{Part: fe.Filename, Err: err}
				}
				files[i] = File{
					Name: fe.Filename,
					Type: fe.FileType,
					Data: data,
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		opened.Files = files
	}

	return opened, nil
}

// Burn destroys a secret without viewing it. The server answers identically
// whether or not the secret existed, so a nil error only means the ID is
// now certainly gone. linkOrID accepts the same forms as Status.
func (c *Client) Burn(ctx context.Context, linkOrID string) error {
	id, err := resolveSecretID(linkOrID)
	if err != nil {
		return err
	}

	if err := c.apiClient.BurnSecret(ctx, id); err != nil {
		return wrapError(err)
	}
	return nil
}

// resolveSecretID extracts the secret ID from a share link or passes a bare
// ID through.
func resolveSecretID(linkOrID string) (string, error) {
	if crypto.IsToken(linkOrID) {
		return strings.ToLower(linkOrID), nil
	}
	id, _, err := envelope.ParseShareLink(linkOrID)
	if err != nil {
		return "", ErrInvalidShareLink
	}
	return id, nil
}
