package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPIN computes the SHA-256 digest of the PIN's UTF-8 bytes, hex-encoded.
// The digest is what crosses the network; the PIN itself never leaves the
// sender or recipient.
func HashPIN(pin string) string {
	sum := sha256.Sum256([]byte(pin))
	return hex.EncodeToString(sum[:])
}

// IsPinHash reports whether s is a well-formed hex-encoded PIN digest.
func IsPinHash(s string) bool {
	if len(s) != PinHashLen {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
