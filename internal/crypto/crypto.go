// Package crypto encrypts journal text with AES-256-GCM. Ciphertext,
// IV and authentication tag are carried as separate base64 fields so
// each can be stored in its own column.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

const (
	// KeySize is the required key length for AES-256.
	KeySize = 32

	nonceSize = 12
	tagSize   = 16
)

// ErrDecryptFailed is returned when GCM authentication fails: a wrong
// key, a truncated or corrupted ciphertext, or a tampered tag. The
// caller must treat this as a hard failure, never as an empty entry.
var ErrDecryptFailed = errors.New("decryption failed")

// Sealed is the result of one encryption operation. The three fields
// are only meaningful together.
type Sealed struct {
	Content string
	IV      string
	Tag     string
}

// Cipher performs authenticated encryption with a fixed process-wide key.
type Cipher struct {
	aead cipher.AEAD
}

// New constructs a Cipher from a raw 32-byte key.
func New(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext under a fresh random 96-bit IV. The IV is
// never reused for the key; reuse would break GCM confidentiality.
func (c *Cipher) Encrypt(plaintext string) (Sealed, error) {
	iv := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return Sealed{}, fmt.Errorf("generate iv: %w", err)
	}

	out := c.aead.Seal(nil, iv, []byte(plaintext), nil)
	body, tag := out[:len(out)-tagSize], out[len(out)-tagSize:]

	return Sealed{
		Content: base64.StdEncoding.EncodeToString(body),
		IV:      base64.StdEncoding.EncodeToString(iv),
		Tag:     base64.StdEncoding.EncodeToString(tag),
	}, nil
}

// Decrypt verifies the tag and returns the plaintext. Any corruption,
// truncation, or key mismatch fails closed with ErrDecryptFailed;
// partially-decrypted data is never returned.
func (c *Cipher) Decrypt(s Sealed) (string, error) {
	body, err := base64.StdEncoding.DecodeString(s.Content)
	if err != nil {
		return "", ErrDecryptFailed
	}
	iv, err := base64.StdEncoding.DecodeString(s.IV)
	if err != nil || len(iv) != nonceSize {
		return "", ErrDecryptFailed
	}
	tag, err := base64.StdEncoding.DecodeString(s.Tag)
	if err != nil || len(tag) != tagSize {
		return "", ErrDecryptFailed
	}

	plaintext, err := c.aead.Open(nil, iv, append(body, tag...), nil)
	if err != nil {
		return "", ErrDecryptFailed
	}
	return string(plaintext), nil
}
