// Package service provides the AEAD ciphers used to encrypt card payloads and the
// KMS access used to unwrap the process encryption key.
package service

import (
	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
)

// AEAD is an authenticated cipher bound to one key.
type AEAD interface {
	// Encrypt seals plaintext under a fresh random nonce, authenticating aad.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt opens ciphertext. Any authentication failure yields ErrDecryptionFailed.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager builds AEAD instances for an algorithm.
type AEADManager interface {
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}
