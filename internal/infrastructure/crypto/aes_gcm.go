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

var (
	// ErrInvalidKeySize is returned when the key is not 32 bytes (AES-256)
	ErrInvalidKeySize = errors.New("encryption key must be 32 bytes")
	// ErrCiphertextTooShort is returned when the ciphertext is shorter than the nonce
	ErrCiphertextTooShort = errors.New("ciphertext too short")
)

// AESKeyCipher encrypts and decrypts secrets with AES-256-GCM.
// The nonce is generated per encryption and prepended to the ciphertext,
// so every call to Encrypt produces a distinct output for the same input.
type AESKeyCipher struct {
	gcm cipher.AEAD
}

// NewAESKeyCipher creates a cipher from a raw 32-byte key.
func NewAESKeyCipher(key []byte) (*AESKeyCipher, error) {
	if len(key) != 32 {
		return nil, ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESKeyCipher{gcm: gcm}, nil
}

// NewAESKeyCipherFromBase64 creates a cipher from a base64-encoded key,
// the format used in configuration.
func NewAESKeyCipherFromBase64(encodedKey string) (*AESKeyCipher, error) {
	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode key: %w", err)
	}
	return NewAESKeyCipher(key)
}

// Encrypt seals plaintext and returns nonce || ciphertext.
func (c *AESKeyCipher) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return c.gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a nonce || ciphertext blob produced by Encrypt.
func (c *AESKeyCipher) Decrypt(ciphertext []byte) ([]byte, error) {
	nonceSize := c.gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, ErrCiphertextTooShort
	}

	nonce, sealed := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := c.gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}

	return plaintext, nil
}
