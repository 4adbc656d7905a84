package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// randReader is the random source used for key material generation.
// It defaults to nil (which uses crypto/rand) but can be overridden for testing.
var randReader io.Reader

// readRand fills a fresh buffer of n bytes from the active random source.
// A read failure is fatal for the caller: no alternative source is tried.
func readRand(n int) ([]byte, error) {
	r := randReader
	if r == nil {
		r = rand.Reader
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRandomUnavailable, err)
	}
	return buf, nil
}

// GenerateKey creates a new random AES-256 key.
func GenerateKey() ([]byte, error) {
	return readRand(KeySize)
}

// GenerateIV creates a new random CBC initialization vector.
func GenerateIV() ([]byte, error) {
	return readRand(IVSize)
}

// GenerateToken creates a new random secret identifier, hex-encoded.
func GenerateToken() (string, error) {
	b, err := readRand(TokenSize)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// KeyToHex encodes a key as lowercase hex for URL fragment transport.
func KeyToHex(key []byte) string {
	return hex.EncodeToString(key)
}

// KeyFromHex decodes a hex-encoded AES-256 key and validates its length.
func KeyFromHex(s string) ([]byte, error) {
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), KeySize)
	}
	return key, nil
}

// IVToHex encodes an IV as lowercase hex.
func IVToHex(iv []byte) string {
	return hex.EncodeToString(iv)
}

// IVFromHex decodes a hex-encoded IV and validates its length.
func IVFromHex(s string) ([]byte, error) {
	iv, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	if len(iv) != IVSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidIVSize, len(iv), IVSize)
	}
	return iv, nil
}

// IsToken reports whether s is a well-formed hex-encoded secret identifier.
func IsToken(s string) bool {
	if len(s) != TokenHexLen {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
