package server

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/hushbox/hushbox/internal/crypto"
	"github.com/hushbox/hushbox/internal/envelope"
	"github.com/hushbox/hushbox/server/logger"
	"github.com/hushbox/hushbox/server/store"
)

// Service-level outcomes for opening a secret.
var (
	// ErrGone means the secret does not exist, has expired or has already
	// been viewed. The three cases are deliberately indistinguishable to
	// callers.
	ErrGone = errors.New("secret not found")

	// ErrPinRequired means the secret is PIN-protected and no PIN digest
	// accompanied the request.
	ErrPinRequired = errors.New("pin required")

	// ErrPinMismatch means the supplied PIN digest did not match. The
	// secret stays intact, so the caller may retry.
	ErrPinMismatch = errors.New("pin mismatch")
)

// SecretStatus is the non-destructive view of a secret's lifecycle state.
type SecretStatus struct {
	Exists      bool
	RequiresPin bool
}

// SecretService implements the secret lifecycle on top of a store: create,
// probe, open with one-time consumption, burn and expiry sweeping. It only
// ever handles ciphertext envelopes and PIN digests.
type SecretService struct {
	store  store.Store
	logger logger.Logger
	now    func() time.Time
}

// NewSecretService creates a SecretService backed by the given store.
func NewSecretService(s store.Store, l logger.Logger) *SecretService {
	return &SecretService{store: s, logger: l, now: time.Now}
}

// Create validates an envelope, assigns it a fresh id and persists it.
// A wire PIN digest is hardened before storage and never kept verbatim.
func (s *SecretService) Create(ctx context.Context, env *envelope.Envelope) (*store.Record, error) {
	if err := env.Validate(); err != nil {
		return nil, err
	}

	id, err := crypto.GenerateToken()
	if err != nil {
		return nil, errors.Wrap(err, "generate secret id") //coverage:ignore
	}

	var pinDigest string
	if env.PinHash != "" {
		pinDigest, err = hardenPinDigest(env.PinHash)
		if err != nil {
			return nil, err //coverage:ignore
		}
	}

	created := s.now().UTC()
	rec := &store.Record{
		ID:            id,
		EncryptedData: env.EncryptedData,
		IV:            env.IV,
		PinDigest:     pinDigest,
		OneTimeView:   env.OneTimeView,
		CreatedAt:     created,
		ExpiresAt:     created.Add(time.Duration(env.ExpiryMinutes) * time.Minute),
	}
	for i, f := range env.Files {
		rec.Files = append(rec.Files, store.FileRecord{
			SecretID:      id,
			Position:      i,
			EncryptedData: f.EncryptedData,
			IV:            f.IV,
			Filename:      f.Filename,
			FileType:      f.FileType,
			FileSize:      f.FileSize,
		})
	}

	if err := s.store.Create(ctx, rec); err != nil {
		return nil, errors.Wrap(err, "store secret")
	}

	s.logger.Debugf("Stored secret %s (one-time: %t, expires: %s)",
		shortID(id), rec.OneTimeView, rec.ExpiresAt.Format(time.RFC3339))
	return rec, nil
}

// Status reports whether a secret can still be opened and whether opening
// it needs a PIN. Unknown, expired and consumed secrets all produce the
// same zero status.
func (s *SecretService) Status(ctx context.Context, id string) (*SecretStatus, error) {
	rec, err := s.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return &SecretStatus{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "load secret")
	}

	if !rec.ExpiresAt.After(s.now()) {
		return &SecretStatus{}, nil
	}
	if rec.OneTimeView && rec.Viewed {
		return &SecretStatus{}, nil
	}
	return &SecretStatus{Exists: true, RequiresPin: rec.PinDigest != ""}, nil
}

// Open returns a secret's stored envelope, enforcing the lifecycle in
// order: existence, expiry, prior viewing, then the PIN gate. A one-time
// secret is atomically consumed on success; failed PIN attempts leave it
// intact.
func (s *SecretService) Open(ctx context.Context, id, pinHash string) (*store.Record, error) {
	rec, err := s.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrGone
	}
	if err != nil {
		return nil, errors.Wrap(err, "load secret")
	}

	now := s.now()
	if !rec.ExpiresAt.After(now) {
		return nil, ErrGone
	}
	if rec.OneTimeView && rec.Viewed {
		return nil, ErrGone
	}

	if rec.PinDigest != "" {
		if pinHash == "" {
			return nil, ErrPinRequired
		}
		if !verifyPinDigest(rec.PinDigest, pinHash) {
			return nil, ErrPinMismatch
		}
	}

	if rec.OneTimeView {
		claimed, err := s.store.Claim(ctx, id, now)
		if errors.Is(err, store.ErrNotFound) {
			// Another request claimed it between our read and now.
			return nil, ErrGone
		}
		if err != nil {
			return nil, errors.Wrap(err, "claim secret")
		}
		s.logger.Debugf("Secret %s consumed", shortID(id))
		return claimed, nil
	}

	if err := s.store.MarkViewed(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, errors.Wrap(err, "mark secret viewed")
	}
	return rec, nil
}

// Burn deletes a secret. Burning an unknown id is not an error, so the
// outcome reveals nothing about whether the secret ever existed.
func (s *SecretService) Burn(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "delete secret")
	}
	s.logger.Debugf("Secret %s burned", shortID(id))
	return nil
}

// SweepExpired removes every record past its expiry and reports the count.
func (s *SecretService) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteExpired(ctx, s.now())
	return n, errors.Wrap(err, "delete expired secrets")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
