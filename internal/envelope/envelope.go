// Package envelope implements the wire bundle and share-link formats for
// the Hushbox protocol. It validates creation payloads against the protocol
// limits and composes and parses share links with the key in the URL
// fragment. All operations are pure (no I/O, no network) and safe for
// concurrent use.
package envelope

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hushbox/hushbox/internal/crypto"
)

// Protocol limits enforced client-side before any network call and
// re-validated at the server boundary.
const (
	// MaxFiles is the maximum number of attachments per secret.
	MaxFiles = 5
	// MaxTotalFileBytes is the aggregate attachment size limit (pre-encryption bytes).
	MaxTotalFileBytes = 10 << 20
	// MaxFilenameLen bounds attachment filenames.
	MaxFilenameLen = 255
)

// Errors returned by envelope operations.
var (
	ErrInvalidEnvelope  = errors.New("invalid envelope")
	ErrInvalidExpiry    = errors.New("invalid expiry")
	ErrTooManyFiles     = errors.New("too many files")
	ErrPayloadTooLarge  = errors.New("payload too large")
	ErrInvalidShareLink = errors.New("invalid share link")
)

// Envelope is the ciphertext bundle submitted at creation. The server
// stores it as-is and can never decrypt it: the key exists only in the
// sender's share link fragment.
type Envelope struct {
	// EncryptedData is the base64 AES-256-CBC ciphertext of the secret text.
	EncryptedData string `json:"encrypted_data"`
	// IV is the hex-encoded CBC initialization vector for EncryptedData.
	IV string `json:"iv"`
	// PinHash is the hex-encoded SHA-256 digest of the viewer PIN, or empty
	// when no PIN gates the secret. Requests only; the server never echoes it.
	PinHash string `json:"pin_hash,omitempty"`
	// ExpiryMinutes selects the secret lifetime. Only the values accepted by
	// ValidExpiryMinutes are allowed.
	ExpiryMinutes int `json:"expiry_minutes,omitempty"`
	// OneTimeView marks the secret for destruction on first successful view.
	OneTimeView bool `json:"one_time_view"`
	// Files holds encrypted attachments, each with its own IV.
	Files []FileEnvelope `json:"files,omitempty"`
}

// FileEnvelope is one encrypted attachment. The file bytes are base64
// encoded before encryption, so EncryptedData decrypts back to base64 text.
type FileEnvelope struct {
	EncryptedData string `json:"encrypted_data"`
	IV            string `json:"iv"`
	Filename      string `json:"filename"`
	FileType      string `json:"file_type,omitempty"`
	FileSize      int64  `json:"file_size"`
}

// ValidExpiryMinutes reports whether m is one of the accepted lifetimes.
func ValidExpiryMinutes(m int) bool {
	switch m {
	case 10, 60, 360, 1440:
		return true
	}
	return false
}

// ExpiryChoices lists the accepted lifetimes in minutes, shortest first.
func ExpiryChoices() []int {
	return []int{10, 60, 360, 1440}
}

// Validate checks the envelope against the wire format and protocol limits.
// It validates encodings and declared sizes only; ciphertext contents stay
// opaque to the server.
func (e *Envelope) Validate() error {
	if e.EncryptedData == "" {
		return fmt.Errorf("%w: missing encrypted_data", ErrInvalidEnvelope)
	}
	if _, err := crypto.DecodeBase64(e.EncryptedData); err != nil {
		return fmt.Errorf("%w: encrypted_data is not valid base64", ErrInvalidEnvelope)
	}
	if _, err := crypto.IVFromHex(e.IV); err != nil {
		return fmt.Errorf("%w: iv must be %d hex chars", ErrInvalidEnvelope, crypto.IVHexLen)
	}
	if e.PinHash != "" && !crypto.IsPinHash(e.PinHash) {
		return fmt.Errorf("%w: pin_hash must be %d hex chars", ErrInvalidEnvelope, crypto.PinHashLen)
	}
	if !ValidExpiryMinutes(e.ExpiryMinutes) {
		return fmt.Errorf("%w: expiry_minutes must be one of %v", ErrInvalidExpiry, ExpiryChoices())
	}

	if len(e.Files) > MaxFiles {
		return fmt.Errorf("%w: %d files, limit %d", ErrTooManyFiles, len(e.Files), MaxFiles)
	}
	var total int64
	for i := range e.Files {
		f := &e.Files[i]
		if err := f.validate(); err != nil {
			return fmt.Errorf("file %d: %w", i, err)
		}
		total += f.FileSize
	}
	if total > MaxTotalFileBytes {
		return fmt.Errorf("%w: %d bytes declared, limit %d", ErrPayloadTooLarge, total, MaxTotalFileBytes)
	}

	return nil
}

func (f *FileEnvelope) validate() error {
	if f.EncryptedData == "" {
		return fmt.Errorf("%w: missing encrypted_data", ErrInvalidEnvelope)
	}
	if _, err := crypto.DecodeBase64(f.EncryptedData); err != nil {
		return fmt.Errorf("%w: encrypted_data is not valid base64", ErrInvalidEnvelope)
	}
	if _, err := crypto.IVFromHex(f.IV); err != nil {
		return fmt.Errorf("%w: iv must be %d hex chars", ErrInvalidEnvelope, crypto.IVHexLen)
	}
	if f.Filename == "" || len(f.Filename) > MaxFilenameLen {
		return fmt.Errorf("%w: filename must be 1-%d chars", ErrInvalidEnvelope, MaxFilenameLen)
	}
	if f.FileSize < 0 {
		return fmt.Errorf("%w: negative file_size", ErrInvalidEnvelope)
	}
	return nil
}

// Marshal serializes the envelope to its wire JSON.
func (e *Envelope) Marshal() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err) //coverage:ignore
	}
	return data, nil
}

// Unmarshal parses wire JSON into an envelope without validating it.
// Callers decide whether Validate applies (responses omit request fields).
func Unmarshal(data []byte) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	return &e, nil
}
