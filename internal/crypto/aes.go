package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// pkcs7Pad appends PKCS#7 padding, always adding between 1 and BlockSize bytes.
func pkcs7Pad(data []byte) []byte {
	n := BlockSize - len(data)%BlockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

// pkcs7Unpad strips and validates PKCS#7 padding. Every padding byte must
// equal the padding length.
func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 || len(data)%BlockSize != 0 {
		return nil, ErrDecryptionFailed
	}
	n := int(data[len(data)-1])
	if n == 0 || n > BlockSize {
		return nil, ErrDecryptionFailed
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrDecryptionFailed
		}
	}
	return data[:len(data)-n], nil
}

// encryptCBC encrypts plaintext with AES-256-CBC and PKCS#7 padding.
func encryptCBC(key, iv, plaintext []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), KeySize)
	}
	if len(iv) != IVSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidIVSize, len(iv), IVSize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	padded := pkcs7Pad(plaintext)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)
	return ciphertext, nil
}

// decryptCBC decrypts AES-256-CBC ciphertext and strips PKCS#7 padding.
func decryptCBC(key, iv, ciphertext []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), KeySize)
	}
	if len(iv) != IVSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidIVSize, len(iv), IVSize)
	}
	if len(ciphertext) == 0 || len(ciphertext)%BlockSize != 0 {
		return nil, ErrDecryptionFailed
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)
	return pkcs7Unpad(padded)
}

// Encrypt encrypts plaintext with a fresh random IV.
// Returns the base64 ciphertext and the IV used.
func Encrypt(plaintext, key []byte) (string, []byte, error) {
	iv, err := GenerateIV()
	if err != nil {
		return "", nil, err
	}
	ciphertext, err := EncryptWithIV(plaintext, key, iv)
	if err != nil {
		return "", nil, err
	}
	return ciphertext, iv, nil
}

// EncryptWithIV encrypts plaintext with the caller's IV. The same key, IV
// and plaintext always produce the same ciphertext; an IV must never be
// reused for two encryptions under one key.
func EncryptWithIV(plaintext, key, iv []byte) (string, error) {
	ciphertext, err := encryptCBC(key, iv, plaintext)
	if err != nil {
		return "", err
	}
	return ToBase64(ciphertext), nil
}

// Decrypt decrypts base64 ciphertext. Wrong keys, tampered ciphertext and
// malformed input all produce ErrDecryptionFailed; partial plaintext is
// never returned.
func Decrypt(ciphertext string, key, iv []byte) ([]byte, error) {
	raw, err := DecodeBase64(ciphertext)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return decryptCBC(key, iv, raw)
}

// EncryptBinary routes raw bytes through the text cipher path by base64
// encoding them first. This roughly doubles the transient size but keeps a
// single cipher path for text and attachments.
func EncryptBinary(raw, key []byte) (string, []byte, error) {
	return Encrypt([]byte(ToBase64(raw)), key)
}

// DecryptBinary reverses EncryptBinary: decrypt, then base64 decode.
func DecryptBinary(ciphertext string, key, iv []byte) ([]byte, error) {
	text, err := Decrypt(ciphertext, key, iv)
	if err != nil {
		return nil, err
	}
	raw, err := FromBase64(string(text))
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return raw, nil
}
