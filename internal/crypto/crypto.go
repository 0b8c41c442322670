// Package crypto seals subscriber contact details before they leave the
// process, for stores that live on third-party services.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	iterations = 100000
	keySize    = 32 // AES-256

	// sealedPrefix marks values produced by Seal. Values without it are
	// treated as plaintext written before encryption was turned on.
	sealedPrefix = "v1:"
)

// ErrOpen is returned when a sealed value cannot be opened with this key.
var ErrOpen = errors.New("cannot open sealed value")

// Sealer encrypts contact values with AES-GCM and derives stable,
// non-reversible identifiers for them. A nil Sealer passes values through.
type Sealer struct {
	key    []byte
	macKey []byte
}

// NewSealer derives keys from passphrase. It returns nil for an empty
// passphrase so that callers can treat encryption as optional.
func NewSealer(passphrase string) *Sealer {
	if passphrase == "" {
		return nil
	}

	salt := sha256.Sum256([]byte(passphrase + "amfb-notifier-salt"))
	derived := pbkdf2.Key([]byte(passphrase), salt[:], iterations, 2*keySize, sha256.New)

	return &Sealer{key: derived[:keySize], macKey: derived[keySize:]}
}

// Enabled reports whether values are actually encrypted.
func (s *Sealer) Enabled() bool {
	return s != nil && s.key != nil
}

// Seal encrypts plaintext. Empty input stays empty.
func (s *Sealer) Seal(plaintext string) (string, error) {
	if !s.Enabled() || plaintext == "" {
		return plaintext, nil
	}

	gcm, err := s.aead()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return sealedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal. Values without the sealed prefix are returned as is.
func (s *Sealer) Open(value string) (string, error) {
	if !strings.HasPrefix(value, sealedPrefix) {
		return value, nil
	}
	if !s.Enabled() {
		return "", fmt.Errorf("%w: no key configured", ErrOpen)
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, sealedPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOpen, err)
	}

	gcm, err := s.aead()
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("%w: ciphertext too short", ErrOpen)
	}

	plaintext, err := gcm.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOpen, err)
	}
	return string(plaintext), nil
}

// Fingerprint returns a keyed hash of value usable as a map key that does
// not reveal the value. Without a key it returns value unchanged.
func (s *Sealer) Fingerprint(value string) string {
	if !s.Enabled() {
		return value
	}
	mac := hmac.New(sha256.New, s.macKey)
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *Sealer) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
