package crypto

import "errors"

var (
	// ErrDecryptionFailed is returned when decryption fails for any reason:
	// wrong key, tampered ciphertext, or malformed input. The causes are
	// deliberately not distinguished.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidKeySize is returned when the AES key size is invalid.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidIVSize is returned when the IV size is invalid.
	ErrInvalidIVSize = errors.New("invalid IV size")

	// ErrInvalidHex is returned when hex-encoded key material cannot be decoded.
	ErrInvalidHex = errors.New("invalid hex encoding")

	// ErrRandomUnavailable is returned when the system random source fails.
	// There is no fallback source; callers must treat this as fatal.
	ErrRandomUnavailable = errors.New("system random source unavailable")
)
