// Package crypt seals small payloads with AES-256-GCM. The storefront uses
// it for the guest cart cookie, so tampering with the cookie value must fail
// authentication rather than deserialize garbage.
//
// Output format: base64url(nonce || ciphertext || tag), one opaque string
// that fits in a cookie.
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/petpalace/petpalace/config"
)

// ErrOpen is returned when a payload fails to decode or authenticate.
var ErrOpen = errors.New("crypt: open failed")

var encoding = base64.RawURLEncoding

// gcm builds the AEAD from the APP_KEY (falling back to JWT_SECRET). The key
// is always stretched to 32 bytes through SHA-256 so any secret length works.
func gcm() (cipher.AEAD, error) {
	secret := config.Get("APP_KEY", config.JWTSecret())
	if secret == "" {
		return nil, errors.New("crypt: APP_KEY not configured")
	}

	k := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(k[:])
	if err != nil {
		return nil, fmt.Errorf("crypt: cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// Seal encrypts data and returns the cookie-safe encoded string.
func Seal(data []byte) (string, error) {
	aead, err := gcm()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("crypt: nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, data, nil)
	return encoding.EncodeToString(sealed), nil
}

// Open decodes and authenticates a string produced by Seal.
func Open(encoded string) ([]byte, error) {
	aead, err := gcm()
	if err != nil {
		return nil, err
	}

	raw, err := encoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrOpen
	}
	if len(raw) < aead.NonceSize() {
		return nil, ErrOpen
	}

	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrOpen
	}
	return plain, nil
}

// SealJSON marshals v and seals the result.
func SealJSON(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("crypt: marshal: %w", err)
	}
	return Seal(raw)
}

// OpenJSON opens encoded and unmarshals the plaintext into dest.
func OpenJSON(encoded string, dest interface{}) error {
	raw, err := Open(encoded)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("crypt: unmarshal: %w", err)
	}
	return nil
}
