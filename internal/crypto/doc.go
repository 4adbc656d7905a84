// Package crypto provides the cryptographic primitives for the Hushbox
// protocol. It implements symmetric encryption of secret payloads, random
// key material generation, and PIN digest computation.
//
// # Algorithm Suite
//
// The package uses the following cryptographic algorithms:
//
//   - AES-256-CBC: Symmetric encryption of secret text and attachments.
//     Keys are 32 bytes, IVs are 16 bytes (one block), and plaintext is
//     padded with PKCS#7.
//
//   - SHA-256: PIN digest computation. The digest, never the PIN itself,
//     crosses the network.
//
// # Security Model
//
// The encryption scheme provides confidentiality only. CBC mode carries no
// authentication tag, so tampering is detected probabilistically through
// padding validation rather than cryptographically. Tampered or wrong-key
// input surfaces as [ErrDecryptionFailed], never as corrupted plaintext
// returned to the caller. Callers that need cryptographic integrity should
// treat an AEAD upgrade as a protocol version change.
//
// IVs MUST be unique per encryption. [Encrypt] draws a fresh random IV on
// every call; the fixed-IV path exists for the decrypt direction and for
// tests only.
//
// # Key Management
//
// Use [GenerateKey] to create a new 256-bit key. Key material comes from
// crypto/rand exclusively: if the system random source fails, generation
// fails with [ErrRandomUnavailable] and no fallback source is consulted.
//
// Keys travel only inside URL fragments, which browsers do not transmit to
// servers. They must never be logged, persisted server-side, or included in
// error messages.
//
// # Encodings
//
// Ciphertext is standard base64 with padding (RFC 4648 §4). Keys, IVs, PIN
// digests and secret identifiers are lowercase hex. [KeyFromHex] and
// [IVFromHex] accept either case and validate decoded lengths.
package crypto
