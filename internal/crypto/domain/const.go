// Package domain holds the key material and algorithm identifiers used to encrypt
// captured card data at rest.
package domain

// Algorithm identifies an AEAD construction.
//
// Both supported algorithms take a 256-bit key, a 96-bit nonce and append a
// 128-bit authentication tag to the ciphertext.
type Algorithm string

const (
	// AESGCM is AES-256 in Galois/Counter Mode. Preferred on CPUs with AES-NI.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305. Preferred where AES hardware support is missing.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// KeySize is the length in bytes of every encryption key.
const KeySize = 32
