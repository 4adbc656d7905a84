package server

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for hardening the client-supplied PIN digest before
// it touches storage. The wire digest is a plain SHA-256 of a short PIN,
// cheap to brute-force from a leaked database, so at rest it is stretched
// with a per-secret salt.
const (
	pinSaltLen   = 16
	pinTime      = 2
	pinMemoryKiB = 19 * 1024
	pinThreads   = 1
	pinKeyLen    = 32
)

// hardenPinDigest derives the at-rest form of a wire PIN digest:
// hex(salt) + "$" + hex(argon2id(digest, salt)).
func hardenPinDigest(pinHash string) (string, error) {
	salt := make([]byte, pinSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Wrap(err, "generate pin salt") //coverage:ignore
	}
	key := argon2.IDKey([]byte(pinHash), salt, pinTime, pinMemoryKiB, pinThreads, pinKeyLen)
	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(key), nil
}

// verifyPinDigest reports whether the wire PIN digest matches a stored
// at-rest digest. Malformed stored values never match.
func verifyPinDigest(stored, pinHash string) bool {
	saltHex, keyHex, ok := strings.Cut(stored, "$")
	if !ok {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(keyHex)
	if err != nil || len(want) != pinKeyLen {
		return false
	}
	got := argon2.IDKey([]byte(pinHash), salt, pinTime, pinMemoryKiB, pinThreads, pinKeyLen)
	return subtle.ConstantTimeCompare(got, want) == 1
}
