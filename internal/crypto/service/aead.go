package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
)

// Cipher wraps a stdlib cipher.AEAD with random nonce generation.
// It is stateless and safe for concurrent use.
type Cipher struct {
	aead cipher.AEAD
	alg  cryptoDomain.Algorithm
}

// NewAESGCM returns an AES-256-GCM cipher. key must be 32 bytes.
func NewAESGCM(key []byte) (*Cipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Cipher{aead: aead, alg: cryptoDomain.AESGCM}, nil
}

// NewChaCha20Poly1305 returns a ChaCha20-Poly1305 cipher. key must be 32 bytes.
func NewChaCha20Poly1305(key []byte) (*Cipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 cipher: %w", err)
	}

	return &Cipher{aead: aead, alg: cryptoDomain.ChaCha20}, nil
}

// Algorithm reports which construction backs the cipher.
func (c *Cipher) Algorithm() cryptoDomain.Algorithm {
	return c.alg
}

func (c *Cipher) Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return c.aead.Seal(nil, nonce, plaintext, aad), nonce, nil
}

func (c *Cipher) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	if len(nonce) != c.aead.NonceSize() {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	plaintext, err := c.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}
